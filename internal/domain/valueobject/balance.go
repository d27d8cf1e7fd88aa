// Package valueobject contains domain value objects for the reconciliation service.
package valueobject

import "github.com/shopspring/decimal"

// BalanceReport holds the balance arithmetic of a reconciliation session.
// Variance is the signed difference between the claimed statement ending
// balance and the computed balance; a non-zero variance is a reported
// fact, never a failure.
type BalanceReport struct {
	OpeningBalance   decimal.Decimal
	MatchedSum       decimal.Decimal
	AdjustmentSum    decimal.Decimal
	ComputedBalance  decimal.Decimal
	StatementBalance decimal.Decimal
	Variance         decimal.Decimal
}

// ComputeBalanceReport performs the session balance arithmetic:
//
//	computedBalance = openingBalance + matchedSum + adjustmentSum
//	variance        = statementBalance - computedBalance
func ComputeBalanceReport(openingBalance, matchedSum, adjustmentSum, statementBalance decimal.Decimal) BalanceReport {
	computed := openingBalance.Add(matchedSum).Add(adjustmentSum)
	return BalanceReport{
		OpeningBalance:   openingBalance,
		MatchedSum:       matchedSum,
		AdjustmentSum:    adjustmentSum,
		ComputedBalance:  computed,
		StatementBalance: statementBalance,
		Variance:         statementBalance.Sub(computed),
	}
}

// SumAmounts sums a slice of decimal amounts.
func SumAmounts(amounts []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a)
	}
	return sum
}
