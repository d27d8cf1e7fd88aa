// Package valueobject contains domain value objects for the reconciliation service.
package valueobject

// ReferenceMatchScore is the score assigned to an exact reference-number match.
const ReferenceMatchScore = 100.0

// MatchingConfig contains the configuration for statement-to-ledger matching.
type MatchingConfig struct {
	// DateSlackDays widens the candidate window on both sides of the
	// session date range to tolerate posting-date drift.
	DateSlackDays int

	// AmountMatchScore is the base score for an exact amount match.
	AmountMatchScore float64

	// DateProximityScore is the additional score awarded at a zero day
	// gap, decaying linearly to zero as the gap reaches DateSlackDays.
	DateProximityScore float64

	// AutoAcceptThreshold is the minimum score required for an automatic
	// assignment. Pairs scoring below it stay pending for manual review.
	AutoAcceptThreshold float64
}

// DefaultMatchingConfig returns the default matching configuration.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		DateSlackDays:       3,
		AmountMatchScore:    50,
		DateProximityScore:  40,
		AutoAcceptThreshold: 60,
	}
}
