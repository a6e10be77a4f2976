package reconciler

import (
	"context"
	"fmt"
	"time"

	"github.com/bitzlabs/wallet-ledger/src/balance"
	"github.com/bitzlabs/wallet-ledger/src/chainapi"
	"github.com/bitzlabs/wallet-ledger/src/common"
	"github.com/bitzlabs/wallet-ledger/src/metrics"
	"github.com/bitzlabs/wallet-ledger/src/model"
	"github.com/bitzlabs/wallet-ledger/src/postgres"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Config is the ledgerd daemon configuration, loaded from yaml with flag
// overrides in main.
type Config struct {
	common.CommonConfig `yaml:",inline"`

	Mock bool `yaml:"use_mock"`

	SyncIntervalSeconds   int   `yaml:"sync_interval_seconds"`
	TipRefreshSeconds     int   `yaml:"tip_refresh_seconds"`
	SelfTransferThreshold int64 `yaml:"self_transfer_threshold"`
}

func (c Config) SyncInterval() time.Duration {
	if c.SyncIntervalSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.SyncIntervalSeconds) * time.Second
}

func (c Config) TipRefreshInterval() time.Duration {
	if c.TipRefreshSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TipRefreshSeconds) * time.Second
}

const seenTxKey = "seen_txids"

// Reconciler drives the refresh cycle: balance snapshot into BalanceState,
// raw records through normalize -> self-transfer filter -> store.
type Reconciler struct {
	cfg      Config
	source   chainapi.Source
	oracle   *chainapi.ConfirmationOracle
	balances *balance.State
	seen     *ZSet
	logger   *zap.Logger
}

func New(cfg Config, source chainapi.Source, oracle *chainapi.ConfirmationOracle, balances *balance.State, rd *redis.Client, logger *zap.Logger) *Reconciler {
	r := &Reconciler{
		cfg:      cfg,
		source:   source,
		oracle:   oracle,
		balances: balances,
		logger:   logger.With(zap.String("component", "reconciler")),
	}
	if rd != nil {
		seen := NewZSet(rd, seenTxKey)
		r.seen = &seen
	}
	return r
}

func (r *Reconciler) Balances() *balance.State {
	return r.balances
}

// StartPipeline runs SyncOnce on a fixed interval until the context is
// cancelled.
func (r *Reconciler) StartPipeline(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.SyncInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("stopping reconciliation pipeline, context cancelled")
			return
		case <-ticker.C:
			if err := r.SyncOnce(ctx); err != nil {
				metrics.SyncErrors.Inc()
				r.logger.Error("reconciliation cycle failed", zap.Error(err))
			}
		}
	}
}

// SyncOnce performs one full refresh. Per-item failures are isolated; only a
// whole-fetch failure is surfaced, and prior good state stays intact either
// way.
func (r *Reconciler) SyncOnce(ctx context.Context) error {
	metrics.SyncRuns.Inc()
	logger := r.logger.With(zap.String("run_id", uuid.NewString()))

	if err := r.refreshBalances(ctx, logger); err != nil {
		logger.Warn("balance refresh skipped", zap.Error(err))
	}

	book, err := r.source.GetOwnAddresses(ctx)
	if err != nil {
		logger.Warn("failed fetching own addresses, falling back to stored book", zap.Error(err))
		if book, err = postgres.GetOwnAddresses(ctx); err != nil {
			return errors.Wrap(err, "failed loading stored address book")
		}
	} else if err := postgres.PutOwnAddresses(ctx, book); err != nil {
		logger.Error("failed persisting own addresses", zap.Error(err))
	}

	raws, err := r.source.GetRawTransactions(ctx)
	if err != nil {
		return errors.Wrap(err, "failed fetching raw transactions")
	}

	normalizer := NewNormalizer(r.oracle, logger)
	records, skipped := normalizer.NormalizeBatch(ctx, raws)
	if skipped > 0 {
		logger.Warn(fmt.Sprintf("dropped %d malformed records during refresh", skipped))
	}

	filter := NewSelfTransferFilter(book, r.cfg.SelfTransferThreshold)
	if flagged := filter.Apply(records); flagged > 0 {
		logger.Info(fmt.Sprintf("flagged %d transactions as internal consolidation", flagged))
	}

	changed := r.dedupe(ctx, logger, records)
	if len(changed) == 0 {
		logger.Info("no new or changed transactions")
		return nil
	}
	if err := postgres.PutTransactions(ctx, changed); err != nil {
		return errors.Wrap(err, "failed persisting transactions")
	}
	logger.Info(fmt.Sprintf("persisted %d transactions (%d fetched, %d skipped)",
		len(changed), len(raws), skipped))
	return nil
}

func (r *Reconciler) refreshBalances(ctx context.Context, logger *zap.Logger) error {
	snapshot, err := r.source.GetBalanceSnapshot(ctx)
	if err != nil {
		return errors.Wrap(err, "failed fetching balance snapshot")
	}
	if err := r.balances.Replace(snapshot); err != nil {
		metrics.SnapshotsRejected.Inc()
		if auditErr := postgres.PutBalanceAudit(ctx, snapshot, false); auditErr != nil {
			logger.Error("failed recording rejected snapshot", zap.Error(auditErr))
		}
		return err
	}
	metrics.SnapshotsApplied.Inc()
	if err := postgres.PutBalanceAudit(ctx, snapshot, true); err != nil {
		logger.Error("failed recording balance audit", zap.Error(err))
	}
	return nil
}

// dedupe narrows a batch to records not yet ingested at their current height,
// using the redis seen-set. A record whose stored height grew (mempool to
// block) counts as changed. With no redis configured, or redis down, the
// whole batch is passed through; the pg upsert keeps that correct, just
// slower.
func (r *Reconciler) dedupe(ctx context.Context, logger *zap.Logger, records []*model.TransactionRecord) []*model.TransactionRecord {
	if r.seen == nil {
		return records
	}
	changed := make([]*model.TransactionRecord, 0, len(records))
	for _, t := range records {
		n, err := r.seen.AddValues(ctx, ZSetKVP{
			Score:  float64(t.BlockHeight),
			Member: t.TxId,
		})
		if err != nil {
			logger.Warn("seen-set unavailable, ingesting without dedupe", zap.Error(err))
			return records
		}
		if n > 0 {
			changed = append(changed, t)
		}
	}
	return changed
}
