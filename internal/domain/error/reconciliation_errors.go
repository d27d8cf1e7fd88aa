// Package error defines domain-specific errors for the reconciliation service.
package error

import "errors"

// Reconciliation domain errors.
var (
	// ErrSessionNotFound is returned when a reconciliation session is not found.
	ErrSessionNotFound = errors.New("reconciliation session not found")

	// ErrConflictingSession is returned when the account already has an open session.
	ErrConflictingSession = errors.New("account already has an open reconciliation session")

	// ErrInvalidSessionState is returned when an operation is attempted outside its legal state.
	ErrInvalidSessionState = errors.New("operation not allowed in current session state")

	// ErrInvalidDateRange is returned when the session start date is after the end date.
	ErrInvalidDateRange = errors.New("start date must not be after end date")

	// ErrInvalidStatementLine is returned when an uploaded statement line is malformed.
	ErrInvalidStatementLine = errors.New("invalid statement transaction")

	// ErrInvalidAdjustment is returned when a completion adjustment is malformed.
	ErrInvalidAdjustment = errors.New("invalid adjustment")

	// ErrAlreadyMatched is returned when either side of a match already has one in the session.
	ErrAlreadyMatched = errors.New("transaction already matched in this session")

	// ErrMatchNotFound is returned when unmatching a statement transaction that has no match.
	ErrMatchNotFound = errors.New("no match found for statement transaction")

	// ErrAccountMismatch is returned when the ledger transaction belongs to a different account.
	ErrAccountMismatch = errors.New("transaction does not belong to the session account")

	// ErrStatementTransactionNotFound is returned when the statement transaction is not in the session.
	ErrStatementTransactionNotFound = errors.New("statement transaction not found in session")

	// ErrUnresolvedTransactions is returned when completing with statement lines that are
	// neither matched nor covered by an adjustment.
	ErrUnresolvedTransactions = errors.New("session has unresolved statement transactions")

	// ErrAccountNotFound is returned when the session account does not exist.
	ErrAccountNotFound = errors.New("account not found")
)

// ReconciliationErrorCode defines error codes for reconciliation errors.
// Format: REC-XXYYYY where XX is category and YYYY is specific error.
type ReconciliationErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidDateRange        ReconciliationErrorCode = "REC-010001"
	ErrCodeInvalidStatementLine    ReconciliationErrorCode = "REC-010002"
	ErrCodeInvalidAdjustment       ReconciliationErrorCode = "REC-010003"
	ErrCodeRecAccountNotFound      ReconciliationErrorCode = "REC-010004"
	ErrCodeSessionNotFound         ReconciliationErrorCode = "REC-010005"
	ErrCodeStatementTxnNotFound    ReconciliationErrorCode = "REC-010006"

	// State errors (02XXXX)
	ErrCodeConflictingSession      ReconciliationErrorCode = "REC-020001"
	ErrCodeInvalidSessionState     ReconciliationErrorCode = "REC-020002"
	ErrCodeAlreadyMatched          ReconciliationErrorCode = "REC-020003"
	ErrCodeMatchNotFound           ReconciliationErrorCode = "REC-020004"
	ErrCodeAccountMismatch         ReconciliationErrorCode = "REC-020005"
	ErrCodeUnresolvedTransactions  ReconciliationErrorCode = "REC-020006"
)

// ReconciliationError represents a reconciliation error with code and message.
type ReconciliationError struct {
	Code    ReconciliationErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ReconciliationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ReconciliationError) Unwrap() error {
	return e.Err
}

// NewReconciliationError creates a new ReconciliationError with the given code and message.
func NewReconciliationError(code ReconciliationErrorCode, message string, err error) *ReconciliationError {
	return &ReconciliationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
