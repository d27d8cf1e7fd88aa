// Package error defines domain-specific errors for the reconciliation service.
package error

// CommonErrorCode defines error codes shared across features.
type CommonErrorCode string

const (
	ErrCodeRateLimited   CommonErrorCode = "COM-020001"
	ErrCodeInternalError CommonErrorCode = "COM-030001"
)
