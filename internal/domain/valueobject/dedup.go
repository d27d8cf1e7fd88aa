// Package valueobject contains domain value objects for the reconciliation service.
package valueobject

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/finance-tracker/reconciliation/internal/domain/entity"
)

// DedupConfig contains the configuration for duplicate detection.
type DedupConfig struct {
	// DateWindowDays is the maximum day gap between two transactions for
	// them to be considered duplicate candidates.
	DateWindowDays int

	// SimilarityThreshold is the minimum description similarity (0..1)
	// required to flag a pair. The heuristic is a normalized levenshtein
	// ratio; equal amounts and the date window are hard requirements.
	SimilarityThreshold float64
}

// DefaultDedupConfig returns the default duplicate-detection configuration.
func DefaultDedupConfig() DedupConfig {
	return DedupConfig{
		DateWindowDays:      2,
		SimilarityThreshold: 0.6,
	}
}

// DescriptionSimilarity computes a symmetric similarity ratio between two
// descriptions: 1 minus the levenshtein distance normalized by the longer
// length, case- and whitespace-insensitive. Two empty descriptions are
// considered identical.
func DescriptionSimilarity(a, b string) float64 {
	na := strings.ToUpper(strings.Join(strings.Fields(a), " "))
	nb := strings.ToUpper(strings.Join(strings.Fields(b), " "))
	if na == nb {
		return 1
	}
	longest := len(na)
	if len(nb) > longest {
		longest = len(nb)
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(na, nb)
	return 1 - float64(dist)/float64(longest)
}

// DuplicateCandidate is a scored potential duplicate of a transaction.
type DuplicateCandidate struct {
	Transaction *entity.Transaction
	Similarity  float64
	DateGapDays int
}

// IsDuplicatePair reports whether two transactions qualify as duplicate
// candidates under the config. The check is symmetric and ignores merged
// transactions and pairs covered by a duplicate exclusion.
func IsDuplicatePair(cfg DedupConfig, a, b *entity.Transaction) (similarity float64, ok bool) {
	if a.ID == b.ID {
		return 0, false
	}
	if a.IsMerged || b.IsMerged {
		return 0, false
	}
	if a.AccountID != b.AccountID {
		return 0, false
	}
	if a.ExcludesDuplicate(b.ID) || b.ExcludesDuplicate(a.ID) {
		return 0, false
	}
	if !a.Amount.Equal(b.Amount) {
		return 0, false
	}
	if DateGapDays(a.Date, b.Date) > cfg.DateWindowDays {
		return 0, false
	}
	similarity = DescriptionSimilarity(a.Description, b.Description)
	return similarity, similarity >= cfg.SimilarityThreshold
}

// FindDuplicateCandidates returns the duplicate candidates for target
// among pool, sorted by descending similarity, then smallest date gap,
// then creation order.
func FindDuplicateCandidates(cfg DedupConfig, target *entity.Transaction, pool []*entity.Transaction) []DuplicateCandidate {
	var out []DuplicateCandidate
	for _, txn := range pool {
		sim, ok := IsDuplicatePair(cfg, target, txn)
		if !ok {
			continue
		}
		out = append(out, DuplicateCandidate{
			Transaction: txn,
			Similarity:  sim,
			DateGapDays: DateGapDays(target.Date, txn.Date),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		if out[i].DateGapDays != out[j].DateGapDays {
			return out[i].DateGapDays < out[j].DateGapDays
		}
		return out[i].Transaction.CreatedAt.Before(out[j].Transaction.CreatedAt)
	})
	return out
}
