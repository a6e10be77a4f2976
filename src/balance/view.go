package balance

import "github.com/bitzlabs/wallet-ledger/src/model"

// View is the read-only shape handed to the presentation layer. Amounts are
// zatoshis; percentages are 0-100.
type View struct {
	Total              int64
	Transparent        int64
	Shielded           int64
	Spendable          int64
	EffectiveSpendable int64
	PendingChange      int64
	Unconfirmed        int64

	HasPendingFunds bool
	FullySpendable  bool
	ShieldedPercent float64
	VerifiedPercent float64
}

// BuildView flattens a snapshot into derived booleans and percentages.
// A nil snapshot (no successful refresh yet) yields the zero view.
func BuildView(s *model.BalanceSnapshot) View {
	if s == nil {
		return View{}
	}
	c := s.Combined()
	v := View{
		Total:              s.TotalBalance(),
		Transparent:        s.Transparent.Total,
		Shielded:           s.Shielded.Total,
		Spendable:          c.Spendable,
		EffectiveSpendable: s.EffectiveSpendable(),
		PendingChange:      s.PendingChange,
		Unconfirmed:        c.Unconfirmed,
	}
	v.HasPendingFunds = c.Unconfirmed > 0 || s.PendingChange > 0
	v.FullySpendable = c.Spendable == c.Total && c.Total > 0
	if v.Total > 0 {
		v.ShieldedPercent = float64(s.Shielded.Total) / float64(v.Total) * 100
		v.VerifiedPercent = float64(c.Verified) / float64(v.Total) * 100
	}
	return v
}
