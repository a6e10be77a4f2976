package postgres

import (
	"context"

	"github.com/bitzlabs/wallet-ledger/src/model"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// PutOwnAddresses records the wallet's own address set. The set only grows;
// the wallet core never retires an address it has derived.
func PutOwnAddresses(ctx context.Context, book *model.AddressBook) error {
	return DoQuery(ctx, func(conn *pgx.Conn) error {
		put := func(addrs []string, pool model.Pool) error {
			for _, a := range addrs {
				_, err := conn.Exec(ctx,
					`INSERT into own_addresses(address, pool) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
					a, string(pool))
				if err != nil {
					return errors.Wrapf(err, "failed to record own address %s", a)
				}
			}
			return nil
		}
		if err := put(book.Transparent, model.PoolTransparent); err != nil {
			return err
		}
		return put(book.Shielded, model.PoolShielded)
	})
}

func GetOwnAddresses(ctx context.Context) (*model.AddressBook, error) {
	book := &model.AddressBook{}
	return book, DoQuery(ctx, func(conn *pgx.Conn) error {
		cur, err := conn.Query(ctx, `SELECT address, pool FROM own_addresses`)
		if err != nil {
			return errors.Wrap(err, "failed to fetch own addresses from database")
		}
		defer cur.Close()
		for cur.Next() {
			var addr, pool string
			if err := cur.Scan(&addr, &pool); err != nil {
				continue
			}
			if model.Pool(pool) == model.PoolShielded {
				book.Shielded = append(book.Shielded, addr)
			} else {
				book.Transparent = append(book.Transparent, addr)
			}
		}
		return nil
	})
}
