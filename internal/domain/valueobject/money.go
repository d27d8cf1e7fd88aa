// Package valueobject contains domain value objects for the reconciliation service.
package valueobject

import "github.com/shopspring/decimal"

// MoneyFormatter renders amounts for reports and audit events. The
// currency is injected from configuration; there is no package-level
// default.
type MoneyFormatter struct {
	currency string
}

// NewMoneyFormatter creates a formatter for the given ISO currency code.
func NewMoneyFormatter(currency string) MoneyFormatter {
	return MoneyFormatter{currency: currency}
}

// Currency returns the configured currency code.
func (f MoneyFormatter) Currency() string {
	return f.currency
}

// Format renders an amount with two fractional digits and the currency
// code, e.g. "-25.00 EUR".
func (f MoneyFormatter) Format(amount decimal.Decimal) string {
	return amount.StringFixed(2) + " " + f.currency
}
