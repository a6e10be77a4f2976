package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/bitzlabs/wallet-ledger/src/model"
	"github.com/google/go-cmp/cmp"
)

// requires a local dockerized postgres, see ConfigureDockerConnection

const schema = `
	CREATE TABLE IF NOT EXISTS transactions (
		tx_id        TEXT PRIMARY KEY,
		amount       BIGINT NOT NULL,
		block_height BIGINT NOT NULL,
		unconfirmed  BOOLEAN NOT NULL,
		timestamp    TIMESTAMPTZ NOT NULL,
		memo         TEXT NOT NULL DEFAULT '',
		address      TEXT NOT NULL DEFAULT '',
		fee          BIGINT NOT NULL DEFAULT 0,
		direction    TEXT NOT NULL,
		filtered     BOOLEAN NOT NULL DEFAULT false
	);
	CREATE TABLE IF NOT EXISTS own_addresses (
		address TEXT PRIMARY KEY,
		pool    TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS balance_audit (
		id             BIGSERIAL PRIMARY KEY,
		fetched_at     TIMESTAMPTZ NOT NULL,
		total          BIGINT NOT NULL,
		transparent    BIGINT NOT NULL,
		shielded       BIGINT NOT NULL,
		unconfirmed    BIGINT NOT NULL,
		verified       BIGINT NOT NULL,
		spendable      BIGINT NOT NULL,
		pending_change BIGINT NOT NULL,
		accepted       BOOLEAN NOT NULL
	);`

func TestMain(m *testing.M) {
	ConfigureDockerConnection()
	DoExecOrDie(context.Background(), schema)
	m.Run()
}

func testRecords() []*model.TransactionRecord {
	return []*model.TransactionRecord{
		{
			TxId:      "aa11",
			Amount:    500000000,
			Timestamp: time.Date(2023, 1, 10, 12, 0, 0, 0, time.UTC),
			Memo:      "salary january",
			Direction: model.TxDirectionReceived,
		},
		{
			TxId:               "bb22",
			Amount:             -50000000,
			Timestamp:          time.Date(2023, 1, 12, 9, 0, 0, 0, time.UTC),
			Memo:               "coffee",
			CounterpartAddress: "t1somewhere",
			Fee:                1000,
			Direction:          model.TxDirectionSent,
		},
		{
			TxId:      "cc33",
			Amount:    -10000000,
			Timestamp: time.Date(2023, 1, 13, 9, 0, 0, 0, time.UTC),
			Direction: model.TxDirectionSent,
			Filtered:  true,
		},
	}
}

func TestTransactionRoundtrip(t *testing.T) {
	ctx := context.Background()
	DoExecOrDie(ctx, "DELETE from transactions")

	records := testRecords()
	if err := PutTransactions(ctx, records); err != nil {
		t.Fatal(err)
	}

	fetched, err := GetAllTransactions(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(fetched) != 3 {
		t.Fatalf("expected 3 stored transactions, got %d", len(fetched))
	}
	byId := model.TransactionArrayToMap(fetched)
	want := records[0]
	got := byId["aa11"]
	if d := cmp.Diff(want, got); d != "" {
		t.Fatalf("stored transaction mismatch: %s", d)
	}
}

func TestPageExcludesFilteredAndSearches(t *testing.T) {
	ctx := context.Background()
	DoExecOrDie(ctx, "DELETE from transactions")
	if err := PutTransactions(ctx, testRecords()); err != nil {
		t.Fatal(err)
	}

	page, err := GetTransactionsPage(ctx, "", "", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 {
		t.Fatalf("filtered record must be excluded, got %d rows", len(page))
	}
	if page[0].TxId != "bb22" {
		t.Fatalf("expected newest first, got %s", page[0].TxId)
	}

	page, err = GetTransactionsPage(ctx, "", "coffee", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 1 || page[0].TxId != "bb22" {
		t.Fatalf("memo search failed: %+v", page)
	}

	page, err = GetTransactionsPage(ctx, string(model.TxDirectionReceived), "", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 1 || page[0].TxId != "aa11" {
		t.Fatalf("direction filter failed: %+v", page)
	}
}

func TestUpsertRefreshesHeight(t *testing.T) {
	ctx := context.Background()
	DoExecOrDie(ctx, "DELETE from transactions")

	records := testRecords()[:1]
	records[0].Unconfirmed = true
	if err := PutTransactions(ctx, records); err != nil {
		t.Fatal(err)
	}

	// mempool to block
	records[0].Unconfirmed = false
	records[0].BlockHeight = 1500
	if err := PutTransactions(ctx, records); err != nil {
		t.Fatal(err)
	}

	fetched, err := GetAllTransactions(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(fetched) != 1 {
		t.Fatalf("upsert must not duplicate, got %d rows", len(fetched))
	}
	if fetched[0].BlockHeight != 1500 || fetched[0].Unconfirmed {
		t.Fatalf("upsert must refresh height and flag: %+v", fetched[0])
	}
}

func TestOwnAddressRoundtrip(t *testing.T) {
	ctx := context.Background()
	DoExecOrDie(ctx, "DELETE from own_addresses")

	book := &model.AddressBook{
		Transparent: []string{"t1a", "t1b"},
		Shielded:    []string{"zs1a"},
	}
	if err := PutOwnAddresses(ctx, book); err != nil {
		t.Fatal(err)
	}
	// re-put is a no-op, the set only grows
	if err := PutOwnAddresses(ctx, book); err != nil {
		t.Fatal(err)
	}

	fetched, err := GetOwnAddresses(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(fetched.Transparent) != 2 || len(fetched.Shielded) != 1 {
		t.Fatalf("address book mismatch: %+v", fetched)
	}
	if !fetched.Contains("zs1a") || fetched.Contains("t1unknown") {
		t.Fatal("Contains lookup mismatch")
	}
}
