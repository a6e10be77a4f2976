package postgres

import (
	"context"

	"github.com/bitzlabs/wallet-ledger/src/model"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// PutBalanceAudit appends one row per applied snapshot so rejected or stale
// refreshes can be diagnosed after the fact.
func PutBalanceAudit(ctx context.Context, s *model.BalanceSnapshot, accepted bool) error {
	return DoQuery(ctx, func(conn *pgx.Conn) error {
		c := s.Combined()
		_, err := conn.Exec(ctx,
			`INSERT into balance_audit(fetched_at, total, transparent, shielded, unconfirmed, verified, spendable, pending_change, accepted)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			s.FetchedAt, s.TotalBalance(), s.Transparent.Total, s.Shielded.Total,
			c.Unconfirmed, c.Verified, c.Spendable, s.PendingChange, accepted)
		return errors.Wrap(err, "failed to record balance audit row")
	})
}
