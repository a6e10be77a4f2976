package analytics

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/bitzlabs/wallet-ledger/src/model"
	"github.com/pkg/errors"
)

func formatBtcz(zats int64) string {
	return fmt.Sprintf("%.8f", float64(zats)/float64(model.BtczDigitMultiplier))
}

// CategoryTableCSV flattens the per-category breakdown for export.
func CategoryTableCSV(snap *model.AnalyticsSnapshot) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"category", "type", "amount_btcz", "percent", "count"}); err != nil {
		return "", errors.Wrap(err, "failed writing category csv header")
	}
	for _, ct := range snap.Categories {
		row := []string{
			ct.Name,
			string(ct.Type),
			formatBtcz(ct.Amount),
			fmt.Sprintf("%.2f", ct.Percent),
			fmt.Sprintf("%d", ct.Count),
		}
		if err := w.Write(row); err != nil {
			return "", errors.Wrapf(err, "failed writing category row %s", ct.Name)
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

// MonthlyTableCSV flattens the monthly income/expense series for export.
func MonthlyTableCSV(snap *model.AnalyticsSnapshot) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"month", "income_btcz", "expense_btcz", "net_btcz"}); err != nil {
		return "", errors.Wrap(err, "failed writing monthly csv header")
	}
	for _, b := range snap.Monthly {
		row := []string{
			b.Key,
			formatBtcz(b.Income),
			formatBtcz(b.Expense),
			formatBtcz(b.Income - b.Expense),
		}
		if err := w.Write(row); err != nil {
			return "", errors.Wrapf(err, "failed writing monthly row %s", b.Key)
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}
