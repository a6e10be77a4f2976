package reconciler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// blocks of dedupe history to retain behind the chain tip
const seenKeepWindow = 100000

// StartPruner periodically trims the seen-txid buffer. Entries at score 0
// (still unmined) are never pruned; the lower bound starts at 1.
func (r *Reconciler) StartPruner(ctx context.Context, delay time.Duration) error {
	ticker := time.NewTicker(delay)
	defer ticker.Stop()
	logger := r.logger.Named("pruner")
	for {
		select {
		case <-ticker.C:
			if err := r.PruneSeen(ctx, logger); err != nil {
				logger.Error(err.Error())
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *Reconciler) PruneSeen(ctx context.Context, logger *zap.Logger) error {
	if r.seen == nil {
		return nil
	}
	tip := r.oracle.CurrentHeight(ctx)
	if tip <= seenKeepWindow {
		return nil
	}
	removed, err := r.seen.RemoveByScore(ctx, 1, int64(tip-seenKeepWindow))
	if err != nil {
		return err
	}
	if removed > 0 {
		remaining, _ := r.seen.Count(ctx)
		logger.Info(fmt.Sprintf("pruned %d entries from seen-txid buffer, %d remain", removed, remaining))
	}
	return nil
}
