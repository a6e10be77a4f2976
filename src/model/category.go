package model

type CategoryType string

const (
	CategoryTypeIncome     CategoryType = "income"
	CategoryTypeExpense    CategoryType = "expense"
	CategoryTypeTransfer   CategoryType = "transfer"
	CategoryTypeInvestment CategoryType = "investment"
	CategoryTypeOther      CategoryType = "other"
)

// CategoryRule is one entry of the fixed, ordered classification table.
// Table order matters: ties resolve to the earliest rule.
type CategoryRule struct {
	Type     CategoryType
	Name     string
	Keywords []string
}

// CategoryAssignment is the classification attached to a TransactionRecord.
// Confidence is a heuristic strength indicator in [0,1]; 0 means the terminal
// fallback matched nothing.
type CategoryAssignment struct {
	Type       CategoryType
	Name       string
	Confidence float64
}
