package reconciler

import (
	"github.com/bitzlabs/wallet-ledger/src/metrics"
	"github.com/bitzlabs/wallet-ledger/src/model"
)

// DefaultSelfTransferThreshold is the amount below which a memo-less send to
// one of the wallet's own addresses is treated as auto-shielding noise.
// Heuristic, tuned empirically; overridable through the daemon config.
const DefaultSelfTransferThreshold = 1 * model.BtczDigitMultiplier

// SelfTransferFilter flags internal consolidation transactions so they do not
// distort analytics. Heuristic, not a guarantee: a genuine small payment to a
// relabeled own address will be hidden, and internal transfers above the
// threshold will be missed. Received transactions are never flagged because
// the source does not reliably expose senders.
type SelfTransferFilter struct {
	own       map[string]struct{}
	threshold int64
}

func NewSelfTransferFilter(book *model.AddressBook, threshold int64) *SelfTransferFilter {
	if threshold <= 0 {
		threshold = DefaultSelfTransferThreshold
	}
	own := map[string]struct{}{}
	if book != nil {
		for _, a := range book.All() {
			own[a] = struct{}{}
		}
	}
	return &SelfTransferFilter{own: own, threshold: threshold}
}

// IsSelfTransfer reports whether a single record matches all three criteria:
// sent to an own address, no memo, below the threshold.
func (f *SelfTransferFilter) IsSelfTransfer(t *model.TransactionRecord) bool {
	if t.Direction != model.TxDirectionSent {
		return false
	}
	if _, ok := f.own[t.CounterpartAddress]; !ok {
		return false
	}
	if t.Memo != "" {
		return false
	}
	return t.AbsAmount() < f.threshold
}

// Apply sets the Filtered flag on matching records and returns how many were
// flagged. Records stay in the slice; storage keeps them for audit.
func (f *SelfTransferFilter) Apply(txs []*model.TransactionRecord) int {
	flagged := 0
	for _, t := range txs {
		if f.IsSelfTransfer(t) {
			t.Filtered = true
			flagged++
			metrics.SelfTransfersFiltered.Inc()
		}
	}
	return flagged
}
