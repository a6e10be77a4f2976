package history

import (
	"context"

	"github.com/bitzlabs/wallet-ledger/src/model"
	"github.com/bitzlabs/wallet-ledger/src/postgres"
)

// StoreFetcher serves cursor pages from the postgres transaction store.
type StoreFetcher struct{}

var _ PageFetcher = StoreFetcher{}

func (StoreFetcher) FetchPage(ctx context.Context, q PageQuery) ([]*model.TransactionRecord, error) {
	return postgres.GetTransactionsPage(ctx, q.Direction, q.Search, q.Limit, q.Offset)
}
