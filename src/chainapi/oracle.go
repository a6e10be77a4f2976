package chainapi

import (
	"context"
	"sync"
	"time"

	"github.com/bitzlabs/wallet-ledger/src/metrics"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrOracleUnavailable is returned by Refresh when the chain tip could not be
// fetched and no prior good value exists. Callers of CurrentHeight never see
// it; they get the last good height instead.
var ErrOracleUnavailable = errors.New("chain tip unavailable")

const defaultRefreshInterval = 30 * time.Second

// TipSource is the slice of Source the oracle needs.
type TipSource interface {
	GetChainTipHeight(ctx context.Context) (uint64, error)
}

// ConfirmationOracle caches the chain tip height and converts declared block
// heights into confirmation counts. The cache refreshes at most once per
// interval; a few seconds of staleness is acceptable, so there is no
// coordination beyond the mutex guarding the cached value.
type ConfirmationOracle struct {
	source   TipSource
	logger   *zap.Logger
	interval time.Duration

	mu        sync.Mutex
	tip       uint64
	fetchedAt time.Time
}

func NewConfirmationOracle(source TipSource, interval time.Duration, logger *zap.Logger) *ConfirmationOracle {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	return &ConfirmationOracle{
		source:   source,
		logger:   logger.With(zap.String("component", "confirmation_oracle")),
		interval: interval,
	}
}

// CurrentHeight returns the cached chain tip, refreshing it if the cache is
// older than the refresh interval. A failed refresh keeps the last good
// value; callers are never blocked on oracle errors.
func (o *ConfirmationOracle) CurrentHeight(ctx context.Context) uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	if time.Since(o.fetchedAt) < o.interval {
		return o.tip
	}
	height, err := o.source.GetChainTipHeight(ctx)
	if err != nil {
		metrics.OracleRefreshFailures.Inc()
		o.logger.Warn("chain tip refresh failed, reusing last good height",
			zap.Uint64("height", o.tip), zap.Error(err))
		// a failed refresh still consumes the interval
		o.fetchedAt = time.Now()
		return o.tip
	}
	o.tip = height
	o.fetchedAt = time.Now()
	return o.tip
}

// Refresh forces a tip fetch regardless of cache age. Used at startup so the
// first batch of confirmations isn't computed against a zero tip.
func (o *ConfirmationOracle) Refresh(ctx context.Context) error {
	height, err := o.source.GetChainTipHeight(ctx)
	if err != nil {
		metrics.OracleRefreshFailures.Inc()
		return errors.Wrap(ErrOracleUnavailable, err.Error())
	}
	o.mu.Lock()
	o.tip = height
	o.fetchedAt = time.Now()
	o.mu.Unlock()
	return nil
}

// ConfirmationsFor converts a record's declared height into a confirmation
// count. The source's own unconfirmed flag is authoritative: a record can
// carry a stale or zero height while genuinely confirmed, and an explicit
// unconfirmed signal must never be contradicted during mempool-to-block
// transitions.
func (o *ConfirmationOracle) ConfirmationsFor(ctx context.Context, declaredHeight uint64, unconfirmed bool) uint64 {
	if unconfirmed || declaredHeight == 0 {
		return 0
	}
	tip := o.CurrentHeight(ctx)
	if tip < declaredHeight {
		return 0
	}
	return tip - declaredHeight + 1
}
