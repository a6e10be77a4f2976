package chainapi

import (
	"context"
	"sync"

	"github.com/bitzlabs/wallet-ledger/src/model"
)

// MockSource is an in-memory Source for tests and the daemon's mock mode.
type MockSource struct {
	mu sync.Mutex

	Snapshot     *model.BalanceSnapshot
	Transactions []*model.RawTransaction
	Addresses    *model.AddressBook
	TipHeight    uint64
	TipErr       error

	TipCalls int
}

func NewMockSource() *MockSource {
	return &MockSource{
		Addresses: &model.AddressBook{},
	}
}

func (m *MockSource) GetBalanceSnapshot(ctx context.Context) (*model.BalanceSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Snapshot, nil
}

func (m *MockSource) GetRawTransactions(ctx context.Context) ([]*model.RawTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Transactions, nil
}

func (m *MockSource) GetOwnAddresses(ctx context.Context) (*model.AddressBook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Addresses, nil
}

func (m *MockSource) GetChainTipHeight(ctx context.Context) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TipCalls++
	if m.TipErr != nil {
		return 0, m.TipErr
	}
	return m.TipHeight, nil
}

func (m *MockSource) SetTip(height uint64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TipHeight = height
	m.TipErr = err
}
