package analytics

import (
	"strings"

	"github.com/bitzlabs/wallet-ledger/src/model"
)

// MiscCategoryName is the terminal fallback when no rule scores above zero.
const MiscCategoryName = "Miscellaneous"

// scoring weights and amount heuristics
const (
	directionWeight = 0.3
	transferWeight  = 0.1
	keywordWeight   = 0.4

	salaryAmountBonus   = 0.2
	purchaseAmountBonus = 0.1
	exchangeAddrBonus   = 0.1

	// a received amount at least this large biases toward Salary
	largeIncomingZats = 100 * model.BtczDigitMultiplier
	// a sent amount below this biases toward Purchases
	smallOutgoingZats = 5 * model.BtczDigitMultiplier
	// shielded addresses run ~78 chars; exchange deposit addresses are the
	// common long-address counterpart
	exchangeAddrLen = 78
)

// DefaultRules is the fixed, ordered category table. Order is part of the
// contract: score ties resolve to the earliest rule.
func DefaultRules() []model.CategoryRule {
	return []model.CategoryRule{
		{Type: model.CategoryTypeIncome, Name: "Salary", Keywords: []string{"salary", "paycheck", "payroll", "wage"}},
		{Type: model.CategoryTypeIncome, Name: "Mining Reward", Keywords: []string{"mining", "reward", "pool payout", "coinbase"}},
		{Type: model.CategoryTypeIncome, Name: "Gift Received", Keywords: []string{"gift", "present", "birthday"}},
		{Type: model.CategoryTypeExpense, Name: "Purchases", Keywords: []string{"purchase", "order", "shop", "store"}},
		{Type: model.CategoryTypeExpense, Name: "Food & Drink", Keywords: []string{"coffee", "restaurant", "food", "lunch", "dinner"}},
		{Type: model.CategoryTypeExpense, Name: "Bills & Rent", Keywords: []string{"bill", "rent", "invoice", "utility", "subscription"}},
		{Type: model.CategoryTypeExpense, Name: "Donations", Keywords: []string{"donation", "donate", "tip"}},
		{Type: model.CategoryTypeTransfer, Name: "Exchange", Keywords: []string{"exchange", "trade", "swap", "deposit", "withdrawal"}},
		{Type: model.CategoryTypeTransfer, Name: "Wallet Transfer", Keywords: []string{"shield", "consolidat", "internal", "transfer"}},
		{Type: model.CategoryTypeInvestment, Name: "Investment", Keywords: []string{"stake", "staking", "investment", "savings"}},
	}
}

// Categorizer assigns a category and confidence to a transaction. Classify is
// a pure function of the transaction and the rule table, so results can be
// recomputed on every analytics request instead of cached.
type Categorizer struct {
	rules []model.CategoryRule
}

func NewCategorizer(rules []model.CategoryRule) *Categorizer {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Categorizer{rules: rules}
}

func (c *Categorizer) score(rule model.CategoryRule, t *model.TransactionRecord) float64 {
	score := 0.0

	switch {
	case rule.Type == model.CategoryTypeIncome && t.Direction == model.TxDirectionReceived:
		score += directionWeight
	case rule.Type == model.CategoryTypeExpense && t.Direction == model.TxDirectionSent:
		score += directionWeight
	case rule.Type == model.CategoryTypeTransfer:
		// transfers are neither income nor expense; flat neutral bonus
		score += transferWeight
	}

	memo := strings.ToLower(t.Memo)
	if memo != "" {
		for _, kw := range rule.Keywords {
			if strings.Contains(memo, kw) {
				score += keywordWeight
				break // first match only, no compounding
			}
		}
	}

	abs := t.AbsAmount()
	switch rule.Name {
	case "Salary":
		if t.Direction == model.TxDirectionReceived && abs >= largeIncomingZats {
			score += salaryAmountBonus
		}
	case "Purchases":
		if t.Direction == model.TxDirectionSent && abs < smallOutgoingZats {
			score += purchaseAmountBonus
		}
	case "Exchange":
		if len(t.CounterpartAddress) >= exchangeAddrLen {
			score += exchangeAddrBonus
		}
	}

	return score
}

// Classify returns the highest-scoring category; ties resolve to table order.
// A transaction matching nothing falls back to Miscellaneous with
// confidence 0.
func (c *Categorizer) Classify(t *model.TransactionRecord) model.CategoryAssignment {
	best := model.CategoryAssignment{
		Type:       model.CategoryTypeOther,
		Name:       MiscCategoryName,
		Confidence: 0,
	}
	for _, rule := range c.rules {
		s := c.score(rule, t)
		if s > best.Confidence {
			best = model.CategoryAssignment{Type: rule.Type, Name: rule.Name, Confidence: s}
		}
	}
	if best.Confidence > 1 {
		best.Confidence = 1
	}
	return best
}
