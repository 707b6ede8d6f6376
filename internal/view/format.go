// Package view formats dashboard snapshots for display.
package view

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/coinly/coinly/internal/model"
	"github.com/coinly/coinly/pkg/currency"
)

var hundred = decimal.NewFromInt(100)

// CategoryLabel turns a category or goal type tag into a display label:
// "EMERGENCY_FUND" becomes "Emergency Fund".
func CategoryLabel(tag string) string {
	words := strings.Fields(strings.ReplaceAll(tag, "_", " "))
	for i, w := range words {
		w = strings.ToLower(w)
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// GoalProgress is a goal's completion as shown on the dashboard.
type GoalProgress struct {
	// Percent is current/target*100 and may exceed 100.
	Percent decimal.Decimal
	// BarWidth is Percent clamped to [0, 100].
	BarWidth decimal.Decimal
	Label    string
}

// Progress computes a goal's completion. A goal without a positive target is at 0%.
func Progress(goal model.Goal) GoalProgress {
	percent := decimal.Zero
	if goal.TargetAmount.IsPositive() {
		percent = goal.CurrentAmount.Div(goal.TargetAmount).Mul(hundred)
	}

	bar := percent
	if bar.GreaterThan(hundred) {
		bar = hundred
	}
	if bar.IsNegative() {
		bar = decimal.Zero
	}

	return GoalProgress{
		Percent:  percent,
		BarWidth: bar,
		Label:    fmt.Sprintf("%s%% complete", percent.StringFixed(1)),
	}
}

// SignedAmount formats a transaction amount with "+" for income and "-" for expenses.
func SignedAmount(tx model.Transaction, curr currency.Currency) string {
	sign := "-"
	if tx.Type == model.TransactionTypeIncome {
		sign = "+"
	}
	return sign + currency.NewMoney(tx.Amount.Abs(), curr).Format()
}

// Amount formats a plain amount, such as the balance.
func Amount(amount decimal.Decimal, curr currency.Currency) string {
	return currency.NewMoney(amount, curr).Format()
}

// Bar draws a text progress bar of width cells for a clamped percentage.
func Bar(p GoalProgress, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(p.BarWidth.Mul(decimal.NewFromInt(int64(width))).Div(hundred).IntPart())
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
