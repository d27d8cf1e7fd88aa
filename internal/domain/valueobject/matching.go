// Package valueobject contains domain value objects for the reconciliation service.
package valueobject

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/reconciliation/internal/domain/entity"
)

// MatchProposal is one automatic pairing produced by the matching engine.
type MatchProposal struct {
	StatementTransactionID uuid.UUID
	TransactionID          uuid.UUID
	Score                  float64
	DateGapDays            int
	ReferenceMatch         bool
}

// MatchRun is the outcome of one automatic matching pass.
type MatchRun struct {
	Proposals []MatchProposal
	// PendingStatementIDs are statement transactions left for manual
	// resolution. They are not errors.
	PendingStatementIDs []uuid.UUID
}

// candidateScore is a scored (statement line, ledger transaction) pair.
type candidateScore struct {
	line  *entity.StatementTransaction
	txn   *entity.Transaction
	score float64
	gap   int
	ref   bool
}

// DateGapDays returns the absolute calendar-day distance between two dates.
func DateGapDays(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	d := ad.Sub(bd)
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}

// ScoreCandidate scores a ledger transaction as a match for a statement
// line. An exact reference-number match scores ReferenceMatchScore.
// Otherwise exact amount equality is required for eligibility, with date
// proximity decaying linearly across the slack window. A zero score means
// the pair is ineligible.
func ScoreCandidate(cfg MatchingConfig, line *entity.StatementTransaction, txn *entity.Transaction) (score float64, gapDays int, referenceMatch bool) {
	gapDays = DateGapDays(line.Date, txn.Date)

	if line.ReferenceNumber != "" && txn.ReferenceNumber != "" && line.ReferenceNumber == txn.ReferenceNumber {
		return ReferenceMatchScore, gapDays, true
	}

	// Exact decimal equality, no tolerance.
	if !line.Amount.Equal(txn.Amount) {
		return 0, gapDays, false
	}
	if gapDays > cfg.DateSlackDays {
		return 0, gapDays, false
	}

	score = cfg.AmountMatchScore
	if cfg.DateSlackDays > 0 {
		score += cfg.DateProximityScore * float64(cfg.DateSlackDays-gapDays) / float64(cfg.DateSlackDays)
	} else {
		score += cfg.DateProximityScore
	}
	return score, gapDays, false
}

// ProposeMatches runs the automatic matching pass for a session.
//
// Reference-number matches short-circuit: a statement line whose reference
// uniquely identifies one candidate is assigned first. The remaining lines
// are assigned greedily in descending best-score order, each to its
// highest-scoring unassigned candidate when the score clears the
// auto-accept threshold. Ties break by smallest date gap, then by ledger
// creation order, so the pass is stable and deterministic.
//
// Lines and candidates already matched in the session must be filtered out
// by the caller before this runs.
func ProposeMatches(cfg MatchingConfig, lines []*entity.StatementTransaction, candidates []*entity.Transaction) MatchRun {
	assignedLine := make(map[uuid.UUID]bool)
	assignedTxn := make(map[uuid.UUID]bool)
	var proposals []MatchProposal

	// Pass 1: unique reference-number matches.
	for _, line := range lines {
		if line.ReferenceNumber == "" {
			continue
		}
		var hit *entity.Transaction
		unique := true
		for _, txn := range candidates {
			if assignedTxn[txn.ID] || txn.ReferenceNumber != line.ReferenceNumber {
				continue
			}
			if hit != nil {
				unique = false
				break
			}
			hit = txn
		}
		if hit == nil || !unique {
			continue
		}
		assignedLine[line.ID] = true
		assignedTxn[hit.ID] = true
		proposals = append(proposals, MatchProposal{
			StatementTransactionID: line.ID,
			TransactionID:          hit.ID,
			Score:                  ReferenceMatchScore,
			DateGapDays:            DateGapDays(line.Date, hit.Date),
			ReferenceMatch:         true,
		})
	}

	// Pass 2: score the remaining pairs.
	scoresByLine := make(map[uuid.UUID][]candidateScore)
	bestScore := make(map[uuid.UUID]float64)
	for _, line := range lines {
		if assignedLine[line.ID] {
			continue
		}
		for _, txn := range candidates {
			if assignedTxn[txn.ID] {
				continue
			}
			score, gap, ref := ScoreCandidate(cfg, line, txn)
			if score <= 0 {
				continue
			}
			scoresByLine[line.ID] = append(scoresByLine[line.ID], candidateScore{line: line, txn: txn, score: score, gap: gap, ref: ref})
			if score > bestScore[line.ID] {
				bestScore[line.ID] = score
			}
		}
	}

	// Greedy assignment in descending best-candidate-score order.
	ordered := make([]*entity.StatementTransaction, 0, len(lines))
	for _, line := range lines {
		if !assignedLine[line.ID] {
			ordered = append(ordered, line)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return bestScore[ordered[i].ID] > bestScore[ordered[j].ID]
	})

	var pending []uuid.UUID
	for _, line := range ordered {
		best := pickBestCandidate(scoresByLine[line.ID], assignedTxn)
		if best == nil || best.score < cfg.AutoAcceptThreshold {
			pending = append(pending, line.ID)
			continue
		}
		assignedLine[line.ID] = true
		assignedTxn[best.txn.ID] = true
		proposals = append(proposals, MatchProposal{
			StatementTransactionID: line.ID,
			TransactionID:          best.txn.ID,
			Score:                  best.score,
			DateGapDays:            best.gap,
			ReferenceMatch:         best.ref,
		})
	}

	return MatchRun{Proposals: proposals, PendingStatementIDs: pending}
}

// pickBestCandidate selects the highest-scoring unassigned candidate,
// breaking ties by smallest date gap, then ledger creation order, then ID.
func pickBestCandidate(scored []candidateScore, assignedTxn map[uuid.UUID]bool) *candidateScore {
	var best *candidateScore
	for i := range scored {
		c := &scored[i]
		if assignedTxn[c.txn.ID] {
			continue
		}
		if best == nil || betterCandidate(c, best) {
			best = c
		}
	}
	return best
}

func betterCandidate(a, b *candidateScore) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	if a.gap != b.gap {
		return a.gap < b.gap
	}
	if !a.txn.CreatedAt.Equal(b.txn.CreatedAt) {
		return a.txn.CreatedAt.Before(b.txn.CreatedAt)
	}
	return a.txn.ID.String() < b.txn.ID.String()
}
