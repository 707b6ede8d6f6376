// Package currency formats monetary amounts for display.
// All amounts are decimal.Decimal to avoid floating-point errors.
package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency represents an ISO 4217 currency code.
type Currency string

// Supported currencies.
const (
	INR Currency = "INR" // Indian Rupee
	USD Currency = "USD" // US Dollar
	EUR Currency = "EUR" // Euro
	GBP Currency = "GBP" // British Pound
	JPY Currency = "JPY" // Japanese Yen
)

// DefaultCurrency is the currency the dashboard shows when none is configured.
const DefaultCurrency = INR

// CurrencyInfo contains metadata about a currency.
type CurrencyInfo struct {
	Code          Currency
	Name          string
	Symbol        string
	DecimalPlaces int    // Number of decimal places (e.g., 2 for INR, 0 for JPY)
	SymbolBefore  bool   // Whether symbol appears before amount
	ThousandsSep  string // Thousands separator
	DecimalSep    string // Decimal separator
}

var currencies = map[Currency]CurrencyInfo{
	INR: {Code: INR, Name: "Indian Rupee", Symbol: "₹", DecimalPlaces: 2, SymbolBefore: true, ThousandsSep: ",", DecimalSep: "."},
	USD: {Code: USD, Name: "US Dollar", Symbol: "$", DecimalPlaces: 2, SymbolBefore: true, ThousandsSep: ",", DecimalSep: "."},
	EUR: {Code: EUR, Name: "Euro", Symbol: "€", DecimalPlaces: 2, SymbolBefore: false, ThousandsSep: ".", DecimalSep: ","},
	GBP: {Code: GBP, Name: "British Pound", Symbol: "£", DecimalPlaces: 2, SymbolBefore: true, ThousandsSep: ",", DecimalSep: "."},
	JPY: {Code: JPY, Name: "Japanese Yen", Symbol: "¥", DecimalPlaces: 0, SymbolBefore: true, ThousandsSep: ",", DecimalSep: "."},
}

// IsValid checks if a currency code is supported.
func IsValid(code string) bool {
	_, ok := currencies[Currency(code)]
	return ok
}

// GetInfo returns metadata for a currency code.
func GetInfo(code Currency) (CurrencyInfo, bool) {
	info, ok := currencies[code]
	return info, ok
}

// Parse returns the Currency for code, or DefaultCurrency if code is unknown.
func Parse(code string) Currency {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	if _, ok := currencies[c]; ok {
		return c
	}
	return DefaultCurrency
}

// Money represents a monetary amount with currency.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
}

// NewMoney creates a new Money value.
func NewMoney(amount decimal.Decimal, curr Currency) Money {
	if curr == "" {
		curr = DefaultCurrency
	}
	return Money{Amount: amount, Currency: curr}
}

// IsNegative returns true if the amount is negative.
func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

// Abs returns the absolute value.
func (m Money) Abs() Money {
	return NewMoney(m.Amount.Abs(), m.Currency)
}

// Format returns the amount with symbol and grouped thousands, e.g. "₹125,000.50".
// Negative amounts carry a leading minus.
func (m Money) Format() string {
	info, ok := GetInfo(m.Currency)
	if !ok {
		return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), m.Currency)
	}

	sign := ""
	if m.Amount.IsNegative() {
		sign = "-"
	}
	body := group(m.Amount.Abs().StringFixed(int32(info.DecimalPlaces)), info)

	if info.SymbolBefore {
		return sign + info.Symbol + body
	}
	return sign + body + info.Symbol
}

// String returns the amount as a plain string.
func (m Money) String() string {
	info, ok := GetInfo(m.Currency)
	if !ok {
		return m.Amount.String()
	}
	return m.Amount.Round(int32(info.DecimalPlaces)).String()
}

// group inserts thousands separators into a non-negative fixed-point string.
func group(fixed string, info CurrencyInfo) string {
	intPart, fracPart, hasFrac := strings.Cut(fixed, ".")

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteString(info.ThousandsSep)
		}
		b.WriteString(intPart[i : i+3])
	}

	if hasFrac {
		b.WriteString(info.DecimalSep)
		b.WriteString(fracPart)
	}
	return b.String()
}
