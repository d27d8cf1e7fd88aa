// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/finance-tracker/reconciliation/internal/application/usecase/merge"
)

// MergeTransactionsRequest represents the request body for merging two transactions.
type MergeTransactionsRequest struct {
	SourceID string `json:"source_id" binding:"required"`
	TargetID string `json:"target_id" binding:"required"`
}

// MergeTransactionsResponse represents the response body for a merge.
type MergeTransactionsResponse struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	MergedAt string `json:"merged_at"`
}

// UnmergeTransactionResponse represents the response body for reversing a merge.
type UnmergeTransactionResponse struct {
	SourceID string `json:"source_id"`
	Success  bool   `json:"success"`
}

// MarkNotDuplicateRequest represents the request body for excluding a pair
// from duplicate detection.
type MarkNotDuplicateRequest struct {
	TransactionAID string `json:"transaction_a_id" binding:"required"`
	TransactionBID string `json:"transaction_b_id" binding:"required"`
}

// MarkNotDuplicateResponse represents the response body for recording an exclusion.
type MarkNotDuplicateResponse struct {
	TransactionAID string `json:"transaction_a_id"`
	TransactionBID string `json:"transaction_b_id"`
}

// DuplicatePairResponse is one proposed duplicate pair.
type DuplicatePairResponse struct {
	TransactionAID string  `json:"transaction_a_id"`
	TransactionBID string  `json:"transaction_b_id"`
	Amount         string  `json:"amount"`
	Similarity     float64 `json:"similarity"`
	DateGapDays    int     `json:"date_gap_days"`
}

// FindDuplicatesResponse represents the response body for a duplicate scan.
type FindDuplicatesResponse struct {
	Pairs []DuplicatePairResponse `json:"pairs"`
}

// ToMergeTransactionsResponse converts a merge output to its API representation.
func ToMergeTransactionsResponse(output *merge.MergeTransactionsOutput) MergeTransactionsResponse {
	return MergeTransactionsResponse{
		SourceID: output.SourceID.String(),
		TargetID: output.TargetID.String(),
		MergedAt: output.MergedAt.Format(time.RFC3339),
	}
}

// ToFindDuplicatesResponse converts a duplicate scan output to its API representation.
func ToFindDuplicatesResponse(output *merge.FindDuplicatesOutput) FindDuplicatesResponse {
	pairs := make([]DuplicatePairResponse, len(output.Pairs))
	for i, pair := range output.Pairs {
		pairs[i] = DuplicatePairResponse{
			TransactionAID: pair.TransactionAID.String(),
			TransactionBID: pair.TransactionBID.String(),
			Amount:         pair.Amount.StringFixed(2),
			Similarity:     pair.Similarity,
			DateGapDays:    pair.DateGapDays,
		}
	}
	return FindDuplicatesResponse{Pairs: pairs}
}
