package analytics

import (
	"strings"
	"testing"
	"time"

	"github.com/bitzlabs/wallet-ledger/src/model"
	"github.com/google/go-cmp/cmp"
)

func ts(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func fullYear() Window {
	return Window{Start: ts("2023-01-01"), End: ts("2024-01-01")}
}

var testHistory = []*model.TransactionRecord{
	{TxId: "salary1", Amount: 500000000, Direction: model.TxDirectionReceived, Memo: "salary payment", Timestamp: ts("2023-01-15")},
	{TxId: "salary2", Amount: 600000000, Direction: model.TxDirectionReceived, Memo: "salary payment", Timestamp: ts("2023-03-15")},
	{TxId: "coffee", Amount: -50000000, Direction: model.TxDirectionSent, Memo: "coffee", Timestamp: ts("2023-01-20")},
	{TxId: "rent", Amount: -200000000, Direction: model.TxDirectionSent, Memo: "rent for january", Timestamp: ts("2023-01-31")},
	{TxId: "rent2", Amount: -250000000, Direction: model.TxDirectionSent, Memo: "rent for march", Timestamp: ts("2023-03-31")},
	{TxId: "noise", Amount: -10000000, Direction: model.TxDirectionSent, Filtered: true, Timestamp: ts("2023-02-01")},
	{TxId: "outside", Amount: 900000000, Direction: model.TxDirectionReceived, Timestamp: ts("2022-06-01")},
}

func TestSnapshotTotals(t *testing.T) {
	a := NewAggregator(nil)
	snap := a.Snapshot(fullYear(), testHistory, nil)

	if snap.Count != 5 {
		t.Fatalf("expected 5 transactions in window (filtered and out-of-window excluded), got %d", snap.Count)
	}
	if snap.TotalIncome != 1100000000 {
		t.Fatalf("incorrect income %d", snap.TotalIncome)
	}
	if snap.TotalExpense != 500000000 {
		t.Fatalf("incorrect expense %d", snap.TotalExpense)
	}
	if snap.NetFlow != 600000000 {
		t.Fatalf("incorrect net flow %d", snap.NetFlow)
	}
	if snap.AverageAmount != 320000000 {
		t.Fatalf("incorrect average %d", snap.AverageAmount)
	}
	// netFlow / income * 100
	if snap.SavingsRate < 54.5 || snap.SavingsRate > 54.6 {
		t.Fatalf("incorrect savings rate %f", snap.SavingsRate)
	}
}

func TestSavingsRateZeroIncome(t *testing.T) {
	a := NewAggregator(nil)
	expenseOnly := []*model.TransactionRecord{
		{TxId: "a", Amount: -100, Direction: model.TxDirectionSent, Timestamp: ts("2023-01-10")},
	}
	snap := a.Snapshot(fullYear(), expenseOnly, nil)
	if snap.SavingsRate != 0 {
		t.Fatalf("savings rate must be 0 with zero income, got %f", snap.SavingsRate)
	}
}

func TestBucketKeys(t *testing.T) {
	a := NewAggregator(nil)
	one := []*model.TransactionRecord{
		{TxId: "a", Amount: 100, Direction: model.TxDirectionReceived, Timestamp: ts("2023-02-05")},
	}
	snap := a.Snapshot(fullYear(), one, nil)

	if len(snap.Daily) != 1 || snap.Daily[0].Key != "2023-02-05" {
		t.Fatalf("incorrect daily buckets: %+v", snap.Daily)
	}
	if len(snap.Monthly) != 1 || snap.Monthly[0].Key != "2023-02" {
		t.Fatalf("incorrect monthly buckets: %+v", snap.Monthly)
	}
	// Feb 5 is day 36 of the year; ceil(36/7) = 6
	if len(snap.Weekly) != 1 || snap.Weekly[0].Key != "2023-W06" {
		t.Fatalf("incorrect weekly buckets: %+v", snap.Weekly)
	}
}

func TestMonthlySeriesOrderedAndSummed(t *testing.T) {
	a := NewAggregator(nil)
	snap := a.Snapshot(fullYear(), testHistory, nil)

	want := []model.BucketTotal{
		{Key: "2023-01", Income: 500000000, Expense: 250000000},
		{Key: "2023-03", Income: 600000000, Expense: 250000000},
	}
	if d := cmp.Diff(want, snap.Monthly); d != "" {
		t.Fatalf("incorrect monthly series: %s", d)
	}
}

func TestGrowthRates(t *testing.T) {
	a := NewAggregator(nil)
	snap := a.Snapshot(fullYear(), testHistory, nil)

	// income: (600-500)/500 = +20%, expense: (250-250)/250 = 0%
	if snap.IncomeGrowth < 19.9 || snap.IncomeGrowth > 20.1 {
		t.Fatalf("incorrect income growth %f", snap.IncomeGrowth)
	}
	if snap.ExpenseGrowth != 0 {
		t.Fatalf("incorrect expense growth %f", snap.ExpenseGrowth)
	}
}

func TestGrowthNeedsTwoMonthlyBuckets(t *testing.T) {
	a := NewAggregator(nil)
	one := []*model.TransactionRecord{
		{TxId: "a", Amount: 100, Direction: model.TxDirectionReceived, Timestamp: ts("2023-01-10")},
		{TxId: "b", Amount: -50, Direction: model.TxDirectionSent, Timestamp: ts("2023-01-20")},
	}
	snap := a.Snapshot(fullYear(), one, nil)
	if snap.IncomeGrowth != 0 || snap.ExpenseGrowth != 0 {
		t.Fatalf("growth must be 0 with a single monthly bucket, got %f / %f",
			snap.IncomeGrowth, snap.ExpenseGrowth)
	}
}

func TestTopCategories(t *testing.T) {
	a := NewAggregator(nil)
	snap := a.Snapshot(fullYear(), testHistory, nil)

	if snap.TopIncomeCategory != "Salary" {
		t.Fatalf("expected top income Salary, got %s", snap.TopIncomeCategory)
	}
	if snap.TopExpenseCategory != "Bills & Rent" {
		t.Fatalf("expected top expense Bills & Rent, got %s", snap.TopExpenseCategory)
	}
}

func TestCategoryPercentagesSumToHundred(t *testing.T) {
	a := NewAggregator(nil)
	snap := a.Snapshot(fullYear(), testHistory, nil)

	total := 0.0
	for _, ct := range snap.Categories {
		total += ct.Percent
	}
	if total < 99.9 || total > 100.1 {
		t.Fatalf("category percentages should sum to ~100, got %f", total)
	}
}

func TestCSVExport(t *testing.T) {
	a := NewAggregator(nil)
	snap := a.Snapshot(fullYear(), testHistory, nil)

	categories, err := CategoryTableCSV(snap)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(categories), "\n")
	if lines[0] != "category,type,amount_btcz,percent,count" {
		t.Fatalf("incorrect category csv header: %s", lines[0])
	}
	if len(lines) != len(snap.Categories)+1 {
		t.Fatalf("expected %d category rows, got %d", len(snap.Categories), len(lines)-1)
	}

	monthly, err := MonthlyTableCSV(snap)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(monthly, "2023-01,5.00000000,2.50000000,2.50000000") {
		t.Fatalf("incorrect monthly csv:\n%s", monthly)
	}
}

func TestWindowForPeriod(t *testing.T) {
	now := ts("2023-06-15")
	month := WindowForPeriod(PeriodMonth, now)
	if month.Start != ts("2023-05-15") || month.End != now {
		t.Fatalf("incorrect month window: %+v", month)
	}
	all := WindowForPeriod(PeriodAll, now)
	if !all.Start.Before(ts("1971-01-01")) {
		t.Fatalf("all window should start at the epoch: %+v", all)
	}
}
