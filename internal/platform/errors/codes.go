// Package errors provides structured, coded error handling shared by the
// ledger services.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Transaction errors
	CodeTransactionAmountInvalid   Code = "TRANSACTION_AMOUNT_INVALID"
	CodeTransactionTypeInvalid     Code = "TRANSACTION_TYPE_INVALID"
	CodeTransactionCategoryInvalid Code = "TRANSACTION_CATEGORY_INVALID"
	CodeTransactionEmptyAccountID  Code = "TRANSACTION_EMPTY_ACCOUNT_ID"

	// Account errors
	CodeAccountEmptyName    Code = "ACCOUNT_EMPTY_NAME"
	CodeAccountInvalidRole  Code = "ACCOUNT_INVALID_ROLE"
	CodeAccountEmptyFamily  Code = "ACCOUNT_EMPTY_FAMILY_ID"
	CodePermissionDenied    Code = "PERMISSION_DENIED"
	CodeNotFound            Code = "NOT_FOUND"
	CodeConflict            Code = "CONFLICT"
	CodeUpstreamUnavailable Code = "UPSTREAM_UNAVAILABLE"

	// Family config errors
	CodeConfigInvalidRate     Code = "CONFIG_INVALID_INTEREST_RATE"
	CodeConfigInvalidDuration Code = "CONFIG_INVALID_INTEREST_DURATION"

	// Verification errors
	CodeQuestionPoolInvalid      Code = "QUESTION_POOL_INVALID"
	CodeVerificationIndexInvalid Code = "VERIFICATION_INDEX_INVALID"
)

// HTTPStatus maps domain codes to HTTP response status codes so callers
// can distinguish validation failures from authorization failures.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeTransactionAmountInvalid,
		CodeTransactionTypeInvalid,
		CodeTransactionCategoryInvalid,
		CodeTransactionEmptyAccountID,
		CodeAccountEmptyName,
		CodeAccountInvalidRole,
		CodeAccountEmptyFamily,
		CodeConfigInvalidRate,
		CodeConfigInvalidDuration,
		CodeQuestionPoolInvalid,
		CodeVerificationIndexInvalid:
		return http.StatusBadRequest
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUpstreamUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
