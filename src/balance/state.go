package balance

import (
	"sync"
	"time"

	"github.com/bitzlabs/wallet-ledger/src/model"
	"github.com/pkg/errors"
)

// ErrIncoherentSnapshot means a fetched snapshot failed its internal
// consistency check and was discarded wholesale. Prior state stays intact.
var ErrIncoherentSnapshot = errors.New("incoherent balance snapshot")

// IncomingTolerance is how far pureIncoming may dip below zero before the
// snapshot is considered torn rather than rounding noise.
const IncomingTolerance = 10000 // 0.0001 BTCZ

// State holds the latest accepted balance snapshot. Replace swaps the whole
// snapshot pointer, so readers never observe a half-updated value.
type State struct {
	mu      sync.RWMutex
	current *model.BalanceSnapshot
}

func NewState() *State {
	return &State{}
}

func coherent(s *model.BalanceSnapshot) error {
	if s == nil {
		return errors.Wrap(ErrIncoherentSnapshot, "nil snapshot")
	}
	for _, pb := range []model.PoolBalance{s.Transparent, s.Shielded} {
		if pb.Spendable > pb.Verified {
			return errors.Wrapf(ErrIncoherentSnapshot, "spendable %d exceeds verified %d", pb.Spendable, pb.Verified)
		}
		if pb.Verified > pb.Total {
			return errors.Wrapf(ErrIncoherentSnapshot, "verified %d exceeds total %d", pb.Verified, pb.Total)
		}
	}
	if incoming := s.PureIncoming(); incoming < -IncomingTolerance {
		return errors.Wrapf(ErrIncoherentSnapshot, "pure incoming %d below tolerance, snapshot torn", incoming)
	}
	return nil
}

// Replace atomically installs a new snapshot. A snapshot that fails the
// coherence check is rejected and the previously accepted one is retained.
func (st *State) Replace(snapshot *model.BalanceSnapshot) error {
	if err := coherent(snapshot); err != nil {
		return err
	}
	if snapshot.FetchedAt.IsZero() {
		snapshot.FetchedAt = time.Now().UTC()
	}
	st.mu.Lock()
	st.current = snapshot
	st.mu.Unlock()
	return nil
}

// Current returns the latest accepted snapshot, or nil before the first
// successful refresh. The returned value must be treated as read-only.
func (st *State) Current() *model.BalanceSnapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current
}

// IsSufficientFor gates a send attempt before it reaches the wallet core:
// effective spendable (spendable + pending change) must cover amount.
func (st *State) IsSufficientFor(amount int64) bool {
	s := st.Current()
	if s == nil {
		return false
	}
	return s.EffectiveSpendable() >= amount
}

// IsSufficientForPool is the per-pool variant. Pending change is only counted
// toward the pool it returns to, which for this wallet is always shielded.
func (st *State) IsSufficientForPool(amount int64, pool model.Pool) bool {
	s := st.Current()
	if s == nil {
		return false
	}
	spendable := s.PoolBalanceFor(pool).Spendable
	if pool == model.PoolShielded {
		spendable += s.PendingChange
	}
	return spendable >= amount
}
