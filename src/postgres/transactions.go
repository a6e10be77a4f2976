package postgres

import (
	"context"
	"time"

	"github.com/bitzlabs/wallet-ledger/src/model"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// PutTransactions upserts a batch of normalized transactions keyed by tx id.
// Re-synced records are no-ops; only the additive filtered flag is refreshed.
func PutTransactions(ctx context.Context, transactions []*model.TransactionRecord) error {
	return DoQuery(ctx, func(conn *pgx.Conn) error {
		tx, err := conn.Begin(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to begin transaction for PutTransactions")
		}
		defer tx.Rollback(ctx)
		for _, v := range transactions {
			_, err := tx.Exec(ctx,
				`INSERT into transactions(tx_id, amount, block_height, unconfirmed, timestamp, memo, address, fee, direction, filtered)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
						ON CONFLICT (tx_id) DO UPDATE SET
							block_height = EXCLUDED.block_height,
							unconfirmed = EXCLUDED.unconfirmed,
							filtered = EXCLUDED.filtered`,
				v.TxId, v.Amount, v.BlockHeight, v.Unconfirmed, v.Timestamp.UTC(),
				v.Memo, v.CounterpartAddress, v.Fee, string(v.Direction), v.Filtered)
			if err != nil {
				return errors.Wrapf(err, "failed to upsert transaction %s", v.TxId)
			}
		}
		return tx.Commit(ctx)
	})
}

func scanTransactions(cur pgx.Rows) []*model.TransactionRecord {
	var fetched []*model.TransactionRecord
	for cur.Next() {
		t := &model.TransactionRecord{}
		var ts time.Time
		var direction string
		if err := cur.Scan(&t.TxId, &t.Amount, &t.BlockHeight, &t.Unconfirmed, &ts,
			&t.Memo, &t.CounterpartAddress, &t.Fee, &direction, &t.Filtered); err != nil {
			continue
		}
		t.Timestamp = ts
		t.Direction = model.TxDirection(direction)
		fetched = append(fetched, t)
	}
	return fetched
}

const txColumns = `tx_id, amount, block_height, unconfirmed, timestamp, memo, address, fee, direction, filtered`

// GetTransactionsPage serves the paginated history view. Filtered records are
// excluded; direction and search narrow by type tag and memo/address
// substring respectively, both optional.
func GetTransactionsPage(ctx context.Context, direction string, search string, limit, offset int) ([]*model.TransactionRecord, error) {
	var fetched []*model.TransactionRecord
	return fetched, DoQuery(ctx, func(conn *pgx.Conn) error {
		cur, err := conn.Query(ctx,
			`SELECT `+txColumns+` FROM transactions
				WHERE filtered = false
				  AND ($1 = '' OR direction = $1)
				  AND ($2 = '' OR memo ILIKE '%' || $2 || '%' OR address ILIKE '%' || $2 || '%')
				ORDER BY timestamp DESC, tx_id
				LIMIT $3 OFFSET $4`, direction, search, limit, offset)
		if err != nil {
			return errors.Wrap(err, "failed to fetch transaction page from database")
		}
		defer cur.Close()
		fetched = scanTransactions(cur)
		return nil
	})
}

// GetAllTransactions returns the full unfiltered history, newest first.
// Used by the analytics surface, which applies its own window.
func GetAllTransactions(ctx context.Context, includeFiltered bool) ([]*model.TransactionRecord, error) {
	var fetched []*model.TransactionRecord
	return fetched, DoQuery(ctx, func(conn *pgx.Conn) error {
		cur, err := conn.Query(ctx,
			`SELECT `+txColumns+` FROM transactions
				WHERE ($1 OR filtered = false)
				ORDER BY timestamp DESC, tx_id`, includeFiltered)
		if err != nil {
			return errors.Wrap(err, "failed to fetch transactions from database")
		}
		defer cur.Close()
		fetched = scanTransactions(cur)
		return nil
	})
}
