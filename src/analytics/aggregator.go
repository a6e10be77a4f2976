package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/bitzlabs/wallet-ledger/src/model"
)

type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
	PeriodAll     Period = "all"
)

// Window is a [Start, End) time range.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// WindowForPeriod resolves a named period against now.
func WindowForPeriod(p Period, now time.Time) Window {
	end := now
	switch p {
	case PeriodWeek:
		return Window{Start: end.AddDate(0, 0, -7), End: end}
	case PeriodMonth:
		return Window{Start: end.AddDate(0, -1, 0), End: end}
	case PeriodQuarter:
		return Window{Start: end.AddDate(0, -3, 0), End: end}
	case PeriodYear:
		return Window{Start: end.AddDate(-1, 0, 0), End: end}
	default:
		return Window{Start: time.Unix(0, 0).UTC(), End: end}
	}
}

func dailyKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func monthlyKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// weeklyKey buckets by day-of-year ceiling-divided by 7, zero-padded.
func weeklyKey(t time.Time) string {
	u := t.UTC()
	week := (u.YearDay() + 6) / 7
	return fmt.Sprintf("%04d-W%02d", u.Year(), week)
}

// Aggregator produces read-only analytics snapshots. Everything is
// recomputed fresh each call; history sizes in this domain stay small enough
// that incremental state isn't worth its consistency problems.
type Aggregator struct {
	categorizer *Categorizer
}

func NewAggregator(categorizer *Categorizer) *Aggregator {
	if categorizer == nil {
		categorizer = NewCategorizer(nil)
	}
	return &Aggregator{categorizer: categorizer}
}

// Snapshot aggregates the filtered, classified transactions inside win.
// Records flagged as internal consolidation are excluded.
func (a *Aggregator) Snapshot(win Window, txs []*model.TransactionRecord, bal *model.BalanceSnapshot) *model.AnalyticsSnapshot {
	snap := &model.AnalyticsSnapshot{
		Start:   win.Start,
		End:     win.End,
		Balance: bal,
	}

	byCategory := map[string]*model.CategoryTotal{}
	daily := map[string]*model.BucketTotal{}
	weekly := map[string]*model.BucketTotal{}
	monthly := map[string]*model.BucketTotal{}
	var order []string

	for _, t := range txs {
		if t.Filtered || !win.contains(t.Timestamp) {
			continue
		}
		assignment := a.categorizer.Classify(t)
		t.Category = &assignment

		abs := t.AbsAmount()
		snap.Count++
		if t.Direction == model.TxDirectionReceived {
			snap.TotalIncome += abs
		} else {
			snap.TotalExpense += abs
		}

		ct, ok := byCategory[assignment.Name]
		if !ok {
			ct = &model.CategoryTotal{Type: assignment.Type, Name: assignment.Name}
			byCategory[assignment.Name] = ct
			order = append(order, assignment.Name)
		}
		ct.Amount += abs
		ct.Count++

		accumulate(daily, dailyKey(t.Timestamp), t.Direction, abs)
		accumulate(weekly, weeklyKey(t.Timestamp), t.Direction, abs)
		accumulate(monthly, monthlyKey(t.Timestamp), t.Direction, abs)
	}

	snap.NetFlow = snap.TotalIncome - snap.TotalExpense
	if snap.Count > 0 {
		snap.AverageAmount = (snap.TotalIncome + snap.TotalExpense) / int64(snap.Count)
	}
	if snap.TotalIncome > 0 {
		snap.SavingsRate = float64(snap.NetFlow) / float64(snap.TotalIncome) * 100
	}

	totalFlow := snap.TotalIncome + snap.TotalExpense
	for _, name := range order {
		ct := byCategory[name]
		if totalFlow > 0 {
			ct.Percent = float64(ct.Amount) / float64(totalFlow) * 100
		}
		snap.Categories = append(snap.Categories, *ct)
	}
	// stable: equal amounts keep encounter order
	sort.SliceStable(snap.Categories, func(i, j int) bool {
		return snap.Categories[i].Amount > snap.Categories[j].Amount
	})

	snap.Daily = sortedBuckets(daily)
	snap.Weekly = sortedBuckets(weekly)
	snap.Monthly = sortedBuckets(monthly)

	snap.IncomeGrowth, snap.ExpenseGrowth = growthRates(snap.Monthly)

	for _, ct := range snap.Categories {
		if snap.TopIncomeCategory == "" && ct.Type == model.CategoryTypeIncome {
			snap.TopIncomeCategory = ct.Name
		}
		if snap.TopExpenseCategory == "" && ct.Type == model.CategoryTypeExpense {
			snap.TopExpenseCategory = ct.Name
		}
	}

	return snap
}

func accumulate(buckets map[string]*model.BucketTotal, key string, direction model.TxDirection, abs int64) {
	b, ok := buckets[key]
	if !ok {
		b = &model.BucketTotal{Key: key}
		buckets[key] = b
	}
	if direction == model.TxDirectionReceived {
		b.Income += abs
	} else {
		b.Expense += abs
	}
}

func sortedBuckets(m map[string]*model.BucketTotal) []model.BucketTotal {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]model.BucketTotal, 0, len(keys))
	for _, k := range keys {
		out = append(out, *m[k])
	}
	return out
}

// growthRates compares the first and last monthly bucket only. A two-point
// comparison, not a regression. Fewer than two buckets, or a zero first
// bucket, yields 0.
func growthRates(monthly []model.BucketTotal) (income, expense float64) {
	if len(monthly) < 2 {
		return 0, 0
	}
	first, last := monthly[0], monthly[len(monthly)-1]
	if first.Income != 0 {
		income = float64(last.Income-first.Income) / float64(first.Income) * 100
	}
	if first.Expense != 0 {
		expense = float64(last.Expense-first.Expense) / float64(first.Expense) * 100
	}
	return income, expense
}
