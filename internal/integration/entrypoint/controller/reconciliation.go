// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/reconciliation/internal/application/usecase/reconciliation"
	domainerror "github.com/finance-tracker/reconciliation/internal/domain/error"
	"github.com/finance-tracker/reconciliation/internal/integration/entrypoint/dto"
)

// ReconciliationController handles reconciliation session endpoints.
type ReconciliationController struct {
	startUseCase     *reconciliation.StartSessionUseCase
	uploadUseCase    *reconciliation.UploadStatementUseCase
	autoMatchUseCase *reconciliation.AutoMatchUseCase
	matchUseCase     *reconciliation.MatchTransactionUseCase
	unmatchUseCase   *reconciliation.UnmatchTransactionUseCase
	getUseCase       *reconciliation.GetSessionUseCase
	completeUseCase  *reconciliation.CompleteSessionUseCase
	abortUseCase     *reconciliation.AbortSessionUseCase
}

// NewReconciliationController creates a new reconciliation controller instance.
func NewReconciliationController(
	startUseCase *reconciliation.StartSessionUseCase,
	uploadUseCase *reconciliation.UploadStatementUseCase,
	autoMatchUseCase *reconciliation.AutoMatchUseCase,
	matchUseCase *reconciliation.MatchTransactionUseCase,
	unmatchUseCase *reconciliation.UnmatchTransactionUseCase,
	getUseCase *reconciliation.GetSessionUseCase,
	completeUseCase *reconciliation.CompleteSessionUseCase,
	abortUseCase *reconciliation.AbortSessionUseCase,
) *ReconciliationController {
	return &ReconciliationController{
		startUseCase:     startUseCase,
		uploadUseCase:    uploadUseCase,
		autoMatchUseCase: autoMatchUseCase,
		matchUseCase:     matchUseCase,
		unmatchUseCase:   unmatchUseCase,
		getUseCase:       getUseCase,
		completeUseCase:  completeUseCase,
		abortUseCase:     abortUseCase,
	}
}

// Start handles POST /reconciliation/sessions requests.
func (c *ReconciliationController) Start(ctx *gin.Context) {
	var req dto.StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid account ID format",
		})
		return
	}

	startDate, err := time.Parse(dto.DateOnly, req.StartDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid start date format. Use YYYY-MM-DD",
			Code:  string(domainerror.ErrCodeInvalidDateRange),
		})
		return
	}
	endDate, err := time.Parse(dto.DateOnly, req.EndDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid end date format. Use YYYY-MM-DD",
			Code:  string(domainerror.ErrCodeInvalidDateRange),
		})
		return
	}

	balance, err := decimal.NewFromString(req.StatementBalance)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid statement balance format",
		})
		return
	}

	output, err := c.startUseCase.Execute(ctx.Request.Context(), reconciliation.StartSessionInput{
		AccountID:        accountID,
		StartDate:        startDate,
		EndDate:          endDate,
		StatementBalance: balance,
		Notes:            req.Notes,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.StartSessionResponse{
		SessionID: output.SessionID.String(),
		Status:    string(output.Status),
		CreatedAt: output.CreatedAt.Format(time.RFC3339),
	})
}

// UploadStatement handles POST /reconciliation/sessions/:id/statement requests.
func (c *ReconciliationController) UploadStatement(ctx *gin.Context) {
	sessionID, ok := c.parseSessionID(ctx)
	if !ok {
		return
	}

	var req dto.UploadStatementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	lines := make([]reconciliation.StatementLineInput, len(req.Transactions))
	for i, line := range req.Transactions {
		amount, err := decimal.NewFromString(line.Amount)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid amount format in statement transaction",
				Code:  string(domainerror.ErrCodeInvalidStatementLine),
			})
			return
		}
		date, err := time.Parse(dto.DateOnly, line.Date)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid date format in statement transaction. Use YYYY-MM-DD",
				Code:  string(domainerror.ErrCodeInvalidStatementLine),
			})
			return
		}
		lines[i] = reconciliation.StatementLineInput{
			Amount:          amount,
			Date:            date,
			Description:     line.Description,
			ReferenceNumber: line.ReferenceNumber,
		}
	}

	output, err := c.uploadUseCase.Execute(ctx.Request.Context(), reconciliation.UploadStatementInput{
		SessionID: sessionID,
		Lines:     lines,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.UploadStatementResponse{
		Uploaded:         output.Uploaded,
		MatchedPreserved: output.MatchedPreserved,
	})
}

// AutoMatch handles POST /reconciliation/sessions/:id/auto-match requests.
func (c *ReconciliationController) AutoMatch(ctx *gin.Context) {
	sessionID, ok := c.parseSessionID(ctx)
	if !ok {
		return
	}

	output, err := c.autoMatchUseCase.Execute(ctx.Request.Context(), reconciliation.AutoMatchInput{
		SessionID: sessionID,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToAutoMatchResponse(output))
}

// Match handles POST /reconciliation/sessions/:id/matches requests.
func (c *ReconciliationController) Match(ctx *gin.Context) {
	sessionID, ok := c.parseSessionID(ctx)
	if !ok {
		return
	}

	var req dto.MatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	statementID, err := uuid.Parse(req.StatementTransactionID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid statement transaction ID format",
		})
		return
	}
	transactionID, err := uuid.Parse(req.TransactionID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid transaction ID format",
		})
		return
	}

	isManual := true
	if req.IsManual != nil {
		isManual = *req.IsManual
	}

	output, err := c.matchUseCase.Execute(ctx.Request.Context(), reconciliation.MatchTransactionInput{
		SessionID:              sessionID,
		StatementTransactionID: statementID,
		TransactionID:          transactionID,
		IsManual:               isManual,
		Notes:                  req.Notes,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.MatchResponse{
		MatchID:                output.MatchID.String(),
		StatementTransactionID: output.StatementTransactionID.String(),
		TransactionID:          output.TransactionID.String(),
	})
}

// Unmatch handles DELETE /reconciliation/sessions/:id/matches/:statementId requests.
func (c *ReconciliationController) Unmatch(ctx *gin.Context) {
	sessionID, ok := c.parseSessionID(ctx)
	if !ok {
		return
	}

	statementID, err := uuid.Parse(ctx.Param("statementId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid statement transaction ID format",
		})
		return
	}

	output, err := c.unmatchUseCase.Execute(ctx.Request.Context(), reconciliation.UnmatchTransactionInput{
		SessionID:              sessionID,
		StatementTransactionID: statementID,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.UnmatchResponse{
		StatementTransactionID: output.StatementTransactionID.String(),
		Success:                true,
	})
}

// Get handles GET /reconciliation/sessions/:id requests.
func (c *ReconciliationController) Get(ctx *gin.Context) {
	sessionID, ok := c.parseSessionID(ctx)
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), reconciliation.GetSessionInput{
		SessionID: sessionID,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToGetSessionResponse(output))
}

// Complete handles POST /reconciliation/sessions/:id/complete requests.
func (c *ReconciliationController) Complete(ctx *gin.Context) {
	sessionID, ok := c.parseSessionID(ctx)
	if !ok {
		return
	}

	var req dto.CompleteSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	adjustments := make([]reconciliation.AdjustmentInput, len(req.Adjustments))
	for i, adj := range req.Adjustments {
		amount, err := decimal.NewFromString(adj.Amount)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid adjustment amount format",
				Code:  string(domainerror.ErrCodeInvalidAdjustment),
			})
			return
		}
		adjustments[i] = reconciliation.AdjustmentInput{
			Type:   adj.Type,
			Amount: amount,
			Reason: adj.Reason,
		}
	}

	output, err := c.completeUseCase.Execute(ctx.Request.Context(), reconciliation.CompleteSessionInput{
		SessionID:   sessionID,
		Notes:       req.Notes,
		Adjustments: adjustments,
		Force:       req.Force,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.CompleteSessionResponse{
		SessionID:   output.SessionID.String(),
		Status:      string(output.Status),
		Balance:     dto.ToBalanceReportResponse(output.Balance),
		CompletedAt: output.CompletedAt.Format(time.RFC3339),
		Forced:      output.Forced,
	})
}

// Abort handles POST /reconciliation/sessions/:id/abort requests.
func (c *ReconciliationController) Abort(ctx *gin.Context) {
	sessionID, ok := c.parseSessionID(ctx)
	if !ok {
		return
	}

	var req dto.AbortSessionRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid request body: " + err.Error(),
			})
			return
		}
	}

	output, err := c.abortUseCase.Execute(ctx.Request.Context(), reconciliation.AbortSessionInput{
		SessionID: sessionID,
		Reason:    req.Reason,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AbortSessionResponse{
		SessionID: output.SessionID.String(),
		Status:    string(output.Status),
	})
}

func (c *ReconciliationController) parseSessionID(ctx *gin.Context) (uuid.UUID, bool) {
	sessionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid session ID format",
		})
		return uuid.Nil, false
	}
	return sessionID, true
}

// handleReconciliationError maps domain errors to HTTP responses.
func (c *ReconciliationController) handleReconciliationError(ctx *gin.Context, err error) {
	var recErr *domainerror.ReconciliationError
	if errors.As(err, &recErr) {
		ctx.JSON(c.getStatusCodeForReconciliationError(recErr.Code), dto.ErrorResponse{
			Error: recErr.Message,
			Code:  string(recErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
		Code:  string(domainerror.ErrCodeInternalError),
	})
}

// getStatusCodeForReconciliationError maps reconciliation error codes to
// HTTP status codes.
func (c *ReconciliationController) getStatusCodeForReconciliationError(code domainerror.ReconciliationErrorCode) int {
	switch code {
	case domainerror.ErrCodeSessionNotFound,
		domainerror.ErrCodeStatementTxnNotFound,
		domainerror.ErrCodeMatchNotFound,
		domainerror.ErrCodeRecAccountNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidDateRange,
		domainerror.ErrCodeInvalidStatementLine,
		domainerror.ErrCodeInvalidAdjustment:
		return http.StatusBadRequest
	case domainerror.ErrCodeConflictingSession,
		domainerror.ErrCodeInvalidSessionState,
		domainerror.ErrCodeAlreadyMatched,
		domainerror.ErrCodeAccountMismatch:
		return http.StatusConflict
	case domainerror.ErrCodeUnresolvedTransactions:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
