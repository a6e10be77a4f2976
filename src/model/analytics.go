package model

import "time"

// CategoryTotal is one row of the per-category breakdown within a window.
type CategoryTotal struct {
	Type    CategoryType
	Name    string
	Amount  int64 // absolute zatoshis
	Percent float64
	Count   int
}

// BucketTotal sums income and expense for one calendar bucket. Key is the
// zero-padded calendar key (day, week, or month) the bucket belongs to.
type BucketTotal struct {
	Key     string
	Income  int64
	Expense int64
}

// AnalyticsSnapshot is a read-only aggregate over a [Start, End) window,
// recomputed fresh on every request.
type AnalyticsSnapshot struct {
	Start time.Time
	End   time.Time

	TotalIncome   int64
	TotalExpense  int64
	NetFlow       int64
	AverageAmount int64
	Count         int
	SavingsRate   float64 // netFlow / income * 100, 0 when income is 0

	Categories []CategoryTotal // sorted by amount descending
	Daily      []BucketTotal
	Weekly     []BucketTotal
	Monthly    []BucketTotal

	// Two-point growth between the first and last monthly bucket, percent.
	IncomeGrowth  float64
	ExpenseGrowth float64

	TopIncomeCategory  string
	TopExpenseCategory string

	Balance *BalanceSnapshot
}
