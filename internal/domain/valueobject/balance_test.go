// Package valueobject contains domain value objects for the reconciliation service.
package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeBalanceReport(t *testing.T) {
	dec := decimal.RequireFromString

	tests := []struct {
		name             string
		opening          string
		matchedSum       string
		adjustmentSum    string
		statementBalance string
		wantComputed     string
		wantVariance     string
	}{
		{
			name:    "fully reconciled session has zero variance",
			opening: "100.00", matchedSum: "50.00", adjustmentSum: "0",
			statementBalance: "150.00",
			wantComputed:     "150.00", wantVariance: "0.00",
		},
		{
			name:    "statement above computed yields positive variance",
			opening: "100.00", matchedSum: "40.00", adjustmentSum: "0",
			statementBalance: "150.00",
			wantComputed:     "140.00", wantVariance: "10.00",
		},
		{
			name:    "statement below computed yields negative variance",
			opening: "100.00", matchedSum: "60.00", adjustmentSum: "0",
			statementBalance: "150.00",
			wantComputed:     "160.00", wantVariance: "-10.00",
		},
		{
			name:    "adjustments enter the computed balance",
			opening: "100.00", matchedSum: "0", adjustmentSum: "-10.00",
			statementBalance: "90.00",
			wantComputed:     "90.00", wantVariance: "0.00",
		},
		{
			name:    "exact decimal arithmetic survives cent amounts",
			opening: "0.10", matchedSum: "0.20", adjustmentSum: "0",
			statementBalance: "0.30",
			wantComputed:     "0.30", wantVariance: "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := ComputeBalanceReport(dec(tt.opening), dec(tt.matchedSum), dec(tt.adjustmentSum), dec(tt.statementBalance))

			if got := report.ComputedBalance.StringFixed(2); got != tt.wantComputed {
				t.Errorf("expected computed balance %s, got %s", tt.wantComputed, got)
			}
			if got := report.Variance.StringFixed(2); got != tt.wantVariance {
				t.Errorf("expected variance %s, got %s", tt.wantVariance, got)
			}
		})
	}
}

func TestSumAmounts(t *testing.T) {
	amounts := []decimal.Decimal{
		decimal.RequireFromString("10.50"),
		decimal.RequireFromString("-4.25"),
		decimal.RequireFromString("0.75"),
	}

	if got := SumAmounts(amounts).StringFixed(2); got != "7.00" {
		t.Errorf("expected 7.00, got %s", got)
	}

	if got := SumAmounts(nil); !got.IsZero() {
		t.Errorf("expected zero for empty input, got %s", got)
	}
}

func TestMoneyFormatter(t *testing.T) {
	formatter := NewMoneyFormatter("EUR")

	if got := formatter.Format(decimal.RequireFromString("-25")); got != "-25.00 EUR" {
		t.Errorf("expected -25.00 EUR, got %s", got)
	}
	if formatter.Currency() != "EUR" {
		t.Errorf("expected currency EUR, got %s", formatter.Currency())
	}
}
