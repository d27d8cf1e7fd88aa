// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finance-tracker/reconciliation/internal/application/usecase/merge"
	domainerror "github.com/finance-tracker/reconciliation/internal/domain/error"
	"github.com/finance-tracker/reconciliation/internal/integration/entrypoint/dto"
)

// MergeController handles transaction merge and duplicate detection endpoints.
type MergeController struct {
	mergeUseCase          *merge.MergeTransactionsUseCase
	unmergeUseCase        *merge.UnmergeTransactionUseCase
	markNotDupUseCase     *merge.MarkNotDuplicateUseCase
	findDuplicatesUseCase *merge.FindDuplicatesUseCase
}

// NewMergeController creates a new merge controller instance.
func NewMergeController(
	mergeUseCase *merge.MergeTransactionsUseCase,
	unmergeUseCase *merge.UnmergeTransactionUseCase,
	markNotDupUseCase *merge.MarkNotDuplicateUseCase,
	findDuplicatesUseCase *merge.FindDuplicatesUseCase,
) *MergeController {
	return &MergeController{
		mergeUseCase:          mergeUseCase,
		unmergeUseCase:        unmergeUseCase,
		markNotDupUseCase:     markNotDupUseCase,
		findDuplicatesUseCase: findDuplicatesUseCase,
	}
}

// Merge handles POST /merge requests.
func (c *MergeController) Merge(ctx *gin.Context) {
	var req dto.MergeTransactionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	sourceID, err := uuid.Parse(req.SourceID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid source transaction ID format",
		})
		return
	}
	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid target transaction ID format",
		})
		return
	}

	output, err := c.mergeUseCase.Execute(ctx.Request.Context(), merge.MergeTransactionsInput{
		SourceID: sourceID,
		TargetID: targetID,
	})
	if err != nil {
		c.handleMergeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToMergeTransactionsResponse(output))
}

// Unmerge handles POST /merge/:id/unmerge requests.
func (c *MergeController) Unmerge(ctx *gin.Context) {
	sourceID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid transaction ID format",
		})
		return
	}

	output, err := c.unmergeUseCase.Execute(ctx.Request.Context(), merge.UnmergeTransactionInput{
		SourceID: sourceID,
	})
	if err != nil {
		c.handleMergeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.UnmergeTransactionResponse{
		SourceID: output.SourceID.String(),
		Success:  true,
	})
}

// MarkNotDuplicate handles POST /merge/exclusions requests.
func (c *MergeController) MarkNotDuplicate(ctx *gin.Context) {
	var req dto.MarkNotDuplicateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	transactionAID, err := uuid.Parse(req.TransactionAID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid transaction ID format",
		})
		return
	}
	transactionBID, err := uuid.Parse(req.TransactionBID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid transaction ID format",
		})
		return
	}

	output, err := c.markNotDupUseCase.Execute(ctx.Request.Context(), merge.MarkNotDuplicateInput{
		TransactionAID: transactionAID,
		TransactionBID: transactionBID,
	})
	if err != nil {
		c.handleMergeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MarkNotDuplicateResponse{
		TransactionAID: output.TransactionAID.String(),
		TransactionBID: output.TransactionBID.String(),
	})
}

// FindDuplicates handles GET /merge/duplicates requests. The scan covers
// the whole account unless a transaction_id query parameter narrows it
// to one transaction's candidates.
func (c *MergeController) FindDuplicates(ctx *gin.Context) {
	accountID, err := uuid.Parse(ctx.Query("account_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid or missing account_id query parameter",
		})
		return
	}

	input := merge.FindDuplicatesInput{AccountID: accountID}
	if transactionIDStr := ctx.Query("transaction_id"); transactionIDStr != "" {
		transactionID, err := uuid.Parse(transactionIDStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid transaction_id query parameter",
			})
			return
		}
		input.TransactionID = &transactionID
	}

	output, err := c.findDuplicatesUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleMergeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToFindDuplicatesResponse(output))
}

// handleMergeError maps domain errors to HTTP responses.
func (c *MergeController) handleMergeError(ctx *gin.Context, err error) {
	var mergeErr *domainerror.MergeError
	if errors.As(err, &mergeErr) {
		ctx.JSON(c.getStatusCodeForMergeError(mergeErr.Code), dto.ErrorResponse{
			Error: mergeErr.Message,
			Code:  string(mergeErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
		Code:  string(domainerror.ErrCodeInternalError),
	})
}

// getStatusCodeForMergeError maps merge error codes to HTTP status codes.
func (c *MergeController) getStatusCodeForMergeError(code domainerror.MergeErrorCode) int {
	switch code {
	case domainerror.ErrCodeMergeTransactionNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeSelfMerge,
		domainerror.ErrCodeSelfExclusion:
		return http.StatusBadRequest
	case domainerror.ErrCodeAlreadyMerged,
		domainerror.ErrCodeNotMerged,
		domainerror.ErrCodeCrossAccountMerge:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
