package model

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/coinly/coinly/pkg/datetime"
)

type Frequency string

const (
	FrequencyWeekly    Frequency = "WEEKLY"
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
	FrequencyYearly    Frequency = "YEARLY"
)

// Frequencies lists the recurrence options offered for fixed incomes and expenses.
var Frequencies = []Frequency{FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly}

// DefaultExpenseCategory is preselected for a new fixed expense row.
const DefaultExpenseCategory = "RENT"

type FixedIncome struct {
	Title     string          `json:"title" yaml:"title"`
	Amount    decimal.Decimal `json:"amount" yaml:"amount"`
	Frequency Frequency       `json:"frequency" yaml:"frequency"`
}

type FixedExpense struct {
	Title     string          `json:"title" yaml:"title"`
	Amount    decimal.Decimal `json:"amount" yaml:"amount"`
	Frequency Frequency       `json:"frequency" yaml:"frequency"`
	Category  string          `json:"category" yaml:"category"`
}

type GoalDraft struct {
	Title        string          `json:"title" yaml:"title"`
	Type         GoalType        `json:"type" yaml:"type"`
	TargetAmount decimal.Decimal `json:"targetAmount" yaml:"targetAmount"`
	EndDate      datetime.Date   `json:"endDate" yaml:"endDate"`
	Description  string          `json:"description" yaml:"description"`
}

// SetupDraft is the client-only first-time setup form.
type SetupDraft struct {
	CurrentBalance decimal.Decimal `json:"currentBalance" yaml:"currentBalance"`
	FixedIncomes   []FixedIncome   `json:"fixedIncomes" yaml:"fixedIncomes"`
	FixedExpenses  []FixedExpense  `json:"fixedExpenses" yaml:"fixedExpenses"`
	Goals          []GoalDraft     `json:"goals" yaml:"goals"`
}

// NewFixedIncome returns a blank fixed-income row paid monthly.
func NewFixedIncome() FixedIncome {
	return FixedIncome{Frequency: FrequencyMonthly}
}

// NewFixedExpense returns a blank monthly fixed-expense row in the default category.
func NewFixedExpense() FixedExpense {
	return FixedExpense{Frequency: FrequencyMonthly, Category: DefaultExpenseCategory}
}

// NewGoalDraft returns a blank savings goal.
func NewGoalDraft() GoalDraft {
	return GoalDraft{Type: GoalTypeSavings}
}

// NewSetupDraft returns the form as first shown: one blank row in each list.
func NewSetupDraft() SetupDraft {
	return SetupDraft{
		FixedIncomes:  []FixedIncome{NewFixedIncome()},
		FixedExpenses: []FixedExpense{NewFixedExpense()},
		Goals:         []GoalDraft{NewGoalDraft()},
	}
}

// Clone returns a deep copy of the draft.
func (d SetupDraft) Clone() SetupDraft {
	d.FixedIncomes = slices.Clone(d.FixedIncomes)
	d.FixedExpenses = slices.Clone(d.FixedExpenses)
	d.Goals = slices.Clone(d.Goals)
	return d
}

// SetupGoal is a goal as sent to POST /setup, with the end date coerced to a timestamp.
type SetupGoal struct {
	Title        string            `json:"title"`
	Type         GoalType          `json:"type"`
	TargetAmount decimal.Decimal   `json:"targetAmount"`
	EndDate      datetime.DateTime `json:"endDate"`
	Description  string            `json:"description"`
}

// SetupPayload is the body of POST /setup.
type SetupPayload struct {
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	FixedIncomes   []FixedIncome   `json:"fixedIncomes"`
	FixedExpenses  []FixedExpense  `json:"fixedExpenses"`
	Goals          []SetupGoal     `json:"goals"`
}

// Payload serializes the draft for submission.
func (d SetupDraft) Payload() SetupPayload {
	goals := make([]SetupGoal, len(d.Goals))
	for i, g := range d.Goals {
		goals[i] = SetupGoal{
			Title:        g.Title,
			Type:         g.Type,
			TargetAmount: g.TargetAmount,
			EndDate:      g.EndDate.ToDateTime(),
			Description:  g.Description,
		}
	}
	return SetupPayload{
		CurrentBalance: d.CurrentBalance,
		FixedIncomes:   nonNil(d.FixedIncomes),
		FixedExpenses:  nonNil(d.FixedExpenses),
		Goals:          goals,
	}
}

// TransactionForm is the draft behind the "add transaction" dialog.
type TransactionForm struct {
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Notes       string          `json:"notes"`
}

// NewTransactionForm returns the form defaults: an expense with everything else empty.
func NewTransactionForm() TransactionForm {
	return TransactionForm{Type: TransactionTypeExpense}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
