// Package error defines domain-specific errors for the reconciliation service.
package error

import "errors"

// Merge/deduplication domain errors.
var (
	// ErrTransactionNotFound is returned when a ledger transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrSelfMerge is returned when a transaction is merged into itself.
	ErrSelfMerge = errors.New("cannot merge a transaction into itself")

	// ErrAlreadyMerged is returned when either side of a merge is already merged.
	// Merge chains are never allowed; callers must merge into a root.
	ErrAlreadyMerged = errors.New("transaction is already merged")

	// ErrNotMerged is returned when unmerging a transaction that is not merged.
	ErrNotMerged = errors.New("transaction is not merged")

	// ErrCrossAccountMerge is returned when the two transactions belong to different accounts.
	ErrCrossAccountMerge = errors.New("cannot merge transactions across accounts")

	// ErrSelfExclusion is returned when a transaction is marked as not a duplicate of itself.
	ErrSelfExclusion = errors.New("cannot exclude a transaction from itself")
)

// MergeErrorCode defines error codes for merge errors.
// Format: MRG-XXYYYY where XX is category and YYYY is specific error.
type MergeErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeMergeTransactionNotFound MergeErrorCode = "MRG-010001"
	ErrCodeSelfMerge                MergeErrorCode = "MRG-010002"
	ErrCodeSelfExclusion            MergeErrorCode = "MRG-010003"

	// State errors (02XXXX)
	ErrCodeAlreadyMerged     MergeErrorCode = "MRG-020001"
	ErrCodeNotMerged         MergeErrorCode = "MRG-020002"
	ErrCodeCrossAccountMerge MergeErrorCode = "MRG-020003"
)

// MergeError represents a merge error with code and message.
type MergeError struct {
	Code    MergeErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *MergeError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *MergeError) Unwrap() error {
	return e.Err
}

// NewMergeError creates a new MergeError with the given code and message.
func NewMergeError(code MergeErrorCode, message string, err error) *MergeError {
	return &MergeError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
