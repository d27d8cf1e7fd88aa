// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/finance-tracker/reconciliation/internal/application/usecase/reconciliation"
	"github.com/finance-tracker/reconciliation/internal/domain/valueobject"
)

// DateOnly is the wire format for statement and session dates.
const DateOnly = "2006-01-02"

// StartSessionRequest represents the request body for starting a session.
type StartSessionRequest struct {
	AccountID        string `json:"account_id" binding:"required"`
	StartDate        string `json:"start_date" binding:"required"`
	EndDate          string `json:"end_date" binding:"required"`
	StatementBalance string `json:"statement_balance" binding:"required"`
	Notes            string `json:"notes,omitempty" binding:"omitempty,max=1000"`
}

// StartSessionResponse represents the response body for session creation.
type StartSessionResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// StatementLineRequest is one uploaded statement transaction.
type StatementLineRequest struct {
	Amount          string `json:"amount" binding:"required"`
	Date            string `json:"date" binding:"required"`
	Description     string `json:"description" binding:"required"`
	ReferenceNumber string `json:"reference_number,omitempty"`
}

// UploadStatementRequest represents the request body for a statement upload.
type UploadStatementRequest struct {
	Transactions []StatementLineRequest `json:"transactions" binding:"required,min=1"`
}

// UploadStatementResponse represents the response body for a statement upload.
type UploadStatementResponse struct {
	Uploaded         int `json:"uploaded"`
	MatchedPreserved int `json:"matched_preserved"`
}

// AutoMatchedPairResponse is one automatically recorded match.
type AutoMatchedPairResponse struct {
	StatementTransactionID string  `json:"statement_transaction_id"`
	TransactionID          string  `json:"transaction_id"`
	Score                  float64 `json:"score"`
	DateGapDays            int     `json:"date_gap_days"`
	ReferenceMatch         bool    `json:"reference_match"`
}

// AutoMatchResponse represents the response body for the auto-match pass.
type AutoMatchResponse struct {
	Matched             []AutoMatchedPairResponse `json:"matched"`
	PendingStatementIDs []string                  `json:"pending_statement_ids"`
}

// MatchRequest represents the request body for recording a match.
// IsManual defaults to true when omitted.
type MatchRequest struct {
	StatementTransactionID string `json:"statement_transaction_id" binding:"required"`
	TransactionID          string `json:"transaction_id" binding:"required"`
	IsManual               *bool  `json:"is_manual,omitempty"`
	Notes                  string `json:"notes,omitempty" binding:"omitempty,max=1000"`
}

// MatchResponse represents the response body for recording a match.
type MatchResponse struct {
	MatchID                string `json:"match_id"`
	StatementTransactionID string `json:"statement_transaction_id"`
	TransactionID          string `json:"transaction_id"`
}

// UnmatchResponse represents the response body for removing a match.
type UnmatchResponse struct {
	StatementTransactionID string `json:"statement_transaction_id"`
	Success                bool   `json:"success"`
}

// AdjustmentRequest is one completion adjustment. Type is free form
// ("bank_fee", "rounding", ...) and validated as non-empty by the use case.
type AdjustmentRequest struct {
	Type   string `json:"type"`
	Amount string `json:"amount"`
	Reason string `json:"reason,omitempty" binding:"omitempty,max=500"`
}

// CompleteSessionRequest represents the request body for completing a session.
type CompleteSessionRequest struct {
	Notes       string              `json:"notes,omitempty" binding:"omitempty,max=1000"`
	Adjustments []AdjustmentRequest `json:"adjustments,omitempty"`
	Force       bool                `json:"force,omitempty"`
}

// BalanceReportResponse is the balance arithmetic of a session.
type BalanceReportResponse struct {
	OpeningBalance   string `json:"opening_balance"`
	MatchedSum       string `json:"matched_sum"`
	AdjustmentSum    string `json:"adjustment_sum"`
	ComputedBalance  string `json:"computed_balance"`
	StatementBalance string `json:"statement_balance"`
	Variance         string `json:"variance"`
}

// CompleteSessionResponse represents the response body for completing a session.
type CompleteSessionResponse struct {
	SessionID   string                `json:"session_id"`
	Status      string                `json:"status"`
	Balance     BalanceReportResponse `json:"balance"`
	CompletedAt string                `json:"completed_at"`
	Forced      bool                  `json:"forced"`
}

// AbortSessionRequest represents the request body for aborting a session.
type AbortSessionRequest struct {
	Reason string `json:"reason,omitempty" binding:"omitempty,max=500"`
}

// AbortSessionResponse represents the response body for aborting a session.
type AbortSessionResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

// SessionLineResponse is one statement transaction with its match state.
type SessionLineResponse struct {
	ID                   string `json:"id"`
	Amount               string `json:"amount"`
	Date                 string `json:"date"`
	Description          string `json:"description"`
	ReferenceNumber      string `json:"reference_number,omitempty"`
	MatchedTransactionID string `json:"matched_transaction_id,omitempty"`
	IsManualMatch        bool   `json:"is_manual_match"`
}

// AdjustmentResponse is one persisted completion adjustment.
type AdjustmentResponse struct {
	Type   string `json:"type"`
	Amount string `json:"amount"`
	Reason string `json:"reason,omitempty"`
}

// GetSessionResponse represents the response body for reading a session.
type GetSessionResponse struct {
	SessionID        string                `json:"session_id"`
	AccountID        string                `json:"account_id"`
	StartDate        string                `json:"start_date"`
	EndDate          string                `json:"end_date"`
	StatementBalance string                `json:"statement_balance"`
	Status           string                `json:"status"`
	Notes            string                `json:"notes,omitempty"`
	Transactions     []SessionLineResponse `json:"transactions"`
	Adjustments      []AdjustmentResponse  `json:"adjustments"`
	Balance          BalanceReportResponse `json:"balance"`
	CreatedAt        string                `json:"created_at"`
	CompletedAt      string                `json:"completed_at,omitempty"`
}

// ToBalanceReportResponse converts a balance report to its API representation.
func ToBalanceReportResponse(report valueobject.BalanceReport) BalanceReportResponse {
	return BalanceReportResponse{
		OpeningBalance:   report.OpeningBalance.StringFixed(2),
		MatchedSum:       report.MatchedSum.StringFixed(2),
		AdjustmentSum:    report.AdjustmentSum.StringFixed(2),
		ComputedBalance:  report.ComputedBalance.StringFixed(2),
		StatementBalance: report.StatementBalance.StringFixed(2),
		Variance:         report.Variance.StringFixed(2),
	}
}

// ToGetSessionResponse converts a session read output to its API representation.
func ToGetSessionResponse(output *reconciliation.GetSessionOutput) GetSessionResponse {
	session := output.Session

	lines := make([]SessionLineResponse, len(output.Lines))
	for i, line := range output.Lines {
		resp := SessionLineResponse{
			ID:              line.ID.String(),
			Amount:          line.Amount.StringFixed(2),
			Date:            line.Date.Format(DateOnly),
			Description:     line.Description,
			ReferenceNumber: line.ReferenceNumber,
			IsManualMatch:   line.IsManualMatch,
		}
		if line.MatchedTransactionID != nil {
			resp.MatchedTransactionID = line.MatchedTransactionID.String()
		}
		lines[i] = resp
	}

	adjustments := make([]AdjustmentResponse, len(output.Adjustments))
	for i, adj := range output.Adjustments {
		adjustments[i] = AdjustmentResponse{
			Type:   adj.Type,
			Amount: adj.Amount.StringFixed(2),
			Reason: adj.Reason,
		}
	}

	response := GetSessionResponse{
		SessionID:        session.ID.String(),
		AccountID:        session.AccountID.String(),
		StartDate:        session.StartDate.Format(DateOnly),
		EndDate:          session.EndDate.Format(DateOnly),
		StatementBalance: session.StatementBalance.StringFixed(2),
		Status:           string(session.Status),
		Notes:            session.Notes,
		Transactions:     lines,
		Adjustments:      adjustments,
		Balance:          ToBalanceReportResponse(output.Balance),
		CreatedAt:        session.CreatedAt.Format(time.RFC3339),
	}
	if session.CompletedAt != nil {
		response.CompletedAt = session.CompletedAt.Format(time.RFC3339)
	}
	return response
}

// ToAutoMatchResponse converts an auto-match output to its API representation.
func ToAutoMatchResponse(output *reconciliation.AutoMatchOutput) AutoMatchResponse {
	matched := make([]AutoMatchedPairResponse, len(output.Matched))
	for i, pair := range output.Matched {
		matched[i] = AutoMatchedPairResponse{
			StatementTransactionID: pair.StatementTransactionID.String(),
			TransactionID:          pair.TransactionID.String(),
			Score:                  pair.Score,
			DateGapDays:            pair.DateGapDays,
			ReferenceMatch:         pair.ReferenceMatch,
		}
	}
	pending := make([]string, len(output.PendingStatementIDs))
	for i, id := range output.PendingStatementIDs {
		pending[i] = id.String()
	}
	return AutoMatchResponse{Matched: matched, PendingStatementIDs: pending}
}
