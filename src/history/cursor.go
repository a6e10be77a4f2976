package history

import (
	"context"
	"sync"

	"github.com/bitzlabs/wallet-ledger/src/metrics"
	"github.com/bitzlabs/wallet-ledger/src/model"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrFetchFailed wraps an underlying page fetch error. Recoverable: the
// cursor returns to idle with its accumulated list unchanged.
var ErrFetchFailed = errors.New("page fetch failed")

// ErrLoadInFlight is returned when a load is requested while one is already
// running. The second request is dropped, not queued.
var ErrLoadInFlight = errors.New("page load already in flight")

const DefaultPageSize = 50

// PageQuery narrows a page fetch. Empty Search/Direction mean no filter.
type PageQuery struct {
	Search    string
	Direction string
	Limit     int
	Offset    int
}

// PageFetcher serves one page of the stored, filtered transaction list.
type PageFetcher interface {
	FetchPage(ctx context.Context, q PageQuery) ([]*model.TransactionRecord, error)
}

// Cursor tracks paginated loading state for consumers that cannot hold the
// whole history in memory. hasMore is derived: a short page is the sole
// termination signal.
type Cursor struct {
	fetcher  PageFetcher
	pageSize int
	logger   *zap.Logger

	mu        sync.Mutex
	page      int
	search    string
	direction string
	hasMore   bool
	loading   bool
	items     []*model.TransactionRecord
}

func NewCursor(fetcher PageFetcher, pageSize int, logger *zap.Logger) *Cursor {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Cursor{
		fetcher:  fetcher,
		pageSize: pageSize,
		logger:   logger.With(zap.String("component", "sync_cursor")),
		hasMore:  true,
	}
}

// begin moves the cursor into its loading state, or reports a load already
// in flight.
func (c *Cursor) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading {
		return false
	}
	c.loading = true
	return true
}

func (c *Cursor) fetch(ctx context.Context, replace bool) error {
	c.mu.Lock()
	q := PageQuery{
		Search:    c.search,
		Direction: c.direction,
		Limit:     c.pageSize,
		Offset:    c.page * c.pageSize,
	}
	c.mu.Unlock()

	fetched, err := c.fetcher.FetchPage(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		metrics.PageFetchFailures.Inc()
		c.logger.Warn("page fetch failed, cursor state unchanged", zap.Error(err))
		return errors.Wrap(ErrFetchFailed, err.Error())
	}
	metrics.PagesServed.Inc()
	if replace {
		c.items = fetched
	} else {
		c.items = append(c.items, fetched...)
	}
	c.hasMore = len(fetched) == c.pageSize
	c.page++
	return nil
}

// LoadMore fetches the next page and appends it. A call while a load is in
// flight is a no-op.
func (c *Cursor) LoadMore(ctx context.Context) error {
	if !c.begin() {
		return ErrLoadInFlight
	}
	return c.fetch(ctx, false)
}

// ApplyFilter installs a new search/direction filter, resets to page 0,
// clears the accumulated list, and loads the first page.
func (c *Cursor) ApplyFilter(ctx context.Context, search, direction string) error {
	if !c.begin() {
		return ErrLoadInFlight
	}
	c.mu.Lock()
	c.search = search
	c.direction = direction
	c.page = 0
	c.items = nil
	c.hasMore = true
	c.mu.Unlock()
	return c.fetch(ctx, true)
}

func (c *Cursor) Items() []*model.TransactionRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*model.TransactionRecord, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cursor) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

func (c *Cursor) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Cursor) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}
