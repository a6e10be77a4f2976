package reconciler

import (
	"context"
	"testing"

	"github.com/bitzlabs/wallet-ledger/src/balance"
	"github.com/bitzlabs/wallet-ledger/src/chainapi"
	"github.com/bitzlabs/wallet-ledger/src/model"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func testReconciler(source chainapi.Source) *Reconciler {
	oracle := chainapi.NewConfirmationOracle(source, 0, zap.NewNop())
	return New(Config{}, source, oracle, balance.NewState(), nil, zap.NewNop())
}

func TestRefreshBalancesInstallsSnapshot(t *testing.T) {
	source := chainapi.NewMockSource()
	source.Snapshot = &model.BalanceSnapshot{
		Transparent: model.PoolBalance{Total: 100, Verified: 100, Spendable: 100},
	}
	r := testReconciler(source)

	if err := r.refreshBalances(context.Background(), zap.NewNop()); err != nil {
		t.Fatal(err)
	}
	if got := r.Balances().Current(); got == nil || got.TotalBalance() != 100 {
		t.Fatalf("snapshot not installed: %+v", got)
	}
}

func TestRefreshBalancesKeepsPriorStateOnIncoherence(t *testing.T) {
	source := chainapi.NewMockSource()
	source.Snapshot = &model.BalanceSnapshot{
		Transparent: model.PoolBalance{Total: 100, Verified: 100, Spendable: 100},
	}
	r := testReconciler(source)
	ctx := context.Background()
	if err := r.refreshBalances(ctx, zap.NewNop()); err != nil {
		t.Fatal(err)
	}

	// torn snapshot: spendable above verified
	source.Snapshot = &model.BalanceSnapshot{
		Transparent: model.PoolBalance{Total: 200, Verified: 100, Spendable: 150},
	}
	err := r.refreshBalances(ctx, zap.NewNop())
	if !errors.Is(err, balance.ErrIncoherentSnapshot) {
		t.Fatalf("expected ErrIncoherentSnapshot, got %v", err)
	}
	if got := r.Balances().Current(); got.TotalBalance() != 100 {
		t.Fatalf("prior snapshot must be retained, got total %d", got.TotalBalance())
	}
}

func TestDedupeWithoutRedisPassesThrough(t *testing.T) {
	r := testReconciler(chainapi.NewMockSource())
	records := []*model.TransactionRecord{{TxId: "a"}, {TxId: "b"}}
	changed := r.dedupe(context.Background(), zap.NewNop(), records)
	if len(changed) != 2 {
		t.Fatalf("without redis every record must pass through, got %d", len(changed))
	}
}
