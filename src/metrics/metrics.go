package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SyncRuns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "walletledger",
		Subsystem: "reconciler",
		Name:      "sync_runs_total",
		Help:      "Total reconciliation cycles started",
	})

	SyncErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "walletledger",
		Subsystem: "reconciler",
		Name:      "sync_errors_total",
		Help:      "Total reconciliation cycles that surfaced an error",
	})

	RecordsNormalized = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "walletledger",
		Subsystem: "reconciler",
		Name:      "records_normalized_total",
		Help:      "Total raw records normalized into canonical transactions",
	})

	RecordsMalformed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "walletledger",
		Subsystem: "reconciler",
		Name:      "records_malformed_total",
		Help:      "Total raw records dropped as structurally malformed",
	})

	SelfTransfersFiltered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "walletledger",
		Subsystem: "reconciler",
		Name:      "self_transfers_filtered_total",
		Help:      "Total transactions flagged as internal consolidation noise",
	})

	SnapshotsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "walletledger",
		Subsystem: "balance",
		Name:      "snapshots_applied_total",
		Help:      "Total balance snapshots accepted and installed",
	})

	SnapshotsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "walletledger",
		Subsystem: "balance",
		Name:      "snapshots_rejected_total",
		Help:      "Total balance snapshots rejected as incoherent",
	})

	OracleRefreshFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "walletledger",
		Subsystem: "oracle",
		Name:      "refresh_failures_total",
		Help:      "Total chain tip refresh failures (last good value reused)",
	})

	PagesServed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "walletledger",
		Subsystem: "history",
		Name:      "pages_served_total",
		Help:      "Total transaction pages fetched through the sync cursor",
	})

	PageFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "walletledger",
		Subsystem: "history",
		Name:      "page_fetch_failures_total",
		Help:      "Total page fetches that failed and were surfaced to the caller",
	})
)
