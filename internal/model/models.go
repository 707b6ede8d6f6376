package model

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/coinly/coinly/pkg/datetime"
)

func init() {
	// The Finance API is a JavaScript service and expects amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is one of the two transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is a ledger entry. Amount is always positive; the sign is implied by Type.
type Transaction struct {
	ID          string            `json:"id"`
	Type        TransactionType   `json:"type"`
	Category    string            `json:"category"`
	Amount      decimal.Decimal   `json:"amount"`
	Description string            `json:"description,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	Date        datetime.DateTime `json:"date"`
}

type GoalType string

const (
	GoalTypeSavings       GoalType = "SAVINGS"
	GoalTypeInvestment    GoalType = "INVESTMENT"
	GoalTypeEmergencyFund GoalType = "EMERGENCY_FUND"
	GoalTypeDebtPayoff    GoalType = "DEBT_PAYOFF"
	GoalTypeCustom        GoalType = "CUSTOM"
)

// GoalTypes lists goal types in the order the setup form offers them.
var GoalTypes = []GoalType{
	GoalTypeSavings,
	GoalTypeInvestment,
	GoalTypeEmergencyFund,
	GoalTypeDebtPayoff,
	GoalTypeCustom,
}

// Goal is a savings target. CurrentAmount is maintained by the server.
type Goal struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Type          GoalType          `json:"type"`
	TargetAmount  decimal.Decimal   `json:"targetAmount"`
	CurrentAmount decimal.Decimal   `json:"currentAmount"`
	EndDate       datetime.DateTime `json:"endDate"`
	Description   string            `json:"description,omitempty"`
}

// UserData is the full profile returned by GET /dashboard.
type UserData struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	CurrentBalance  decimal.Decimal `json:"currentBalance"`
	IsSetupComplete bool            `json:"isSetupComplete"`
	Transactions    []Transaction   `json:"transactions"`
	Goals           []Goal          `json:"goals"`
}

// Clone returns a deep copy so snapshots never share slices with the mirror.
func (u *UserData) Clone() *UserData {
	if u == nil {
		return nil
	}
	c := *u
	c.Transactions = slices.Clone(u.Transactions)
	c.Goals = slices.Clone(u.Goals)
	return &c
}

// Categories is the server-provided taxonomy, keyed by transaction type.
type Categories struct {
	Income  []string `json:"INCOME"`
	Expense []string `json:"EXPENSE"`
}

// For returns the ordered category tags valid for t.
func (c *Categories) For(t TransactionType) []string {
	if c == nil {
		return nil
	}
	switch t {
	case TransactionTypeIncome:
		return c.Income
	case TransactionTypeExpense:
		return c.Expense
	default:
		return nil
	}
}

// Contains reports whether category belongs to the subset matching t.
func (c *Categories) Contains(t TransactionType, category string) bool {
	return category != "" && slices.Contains(c.For(t), category)
}

// Clone returns a deep copy of the taxonomy.
func (c *Categories) Clone() *Categories {
	if c == nil {
		return nil
	}
	return &Categories{
		Income:  slices.Clone(c.Income),
		Expense: slices.Clone(c.Expense),
	}
}
