package facilitator

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for the settlement pipeline. Every failure is terminal for the
// attempt and carries exactly one of these classifications.
const (
	ErrCodeInvalidRequest       = "invalid_request"
	ErrCodeMalformedTransaction = "malformed_transaction"
	ErrCodeReplayDetected       = "replay_detected"
	ErrCodeNoTransfer           = "payment_rejected_no_transfer"
	ErrCodeMemoMismatch         = "payment_rejected_memo_mismatch"
	ErrCodeSubmissionFailed     = "submission_failed"
	ErrCodeConfirmationFailed   = "confirmation_failed"
	ErrCodeUnexpectedStatus     = "unexpected_status"
)

// PaymentError is a classified pipeline failure.
type PaymentError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PaymentError) Unwrap() error {
	return e.cause
}

// NewPaymentError creates a classified error, optionally wrapping a cause.
func NewPaymentError(code, message string, cause error) *PaymentError {
	return &PaymentError{Code: code, Message: message, cause: cause}
}

// AsPaymentError extracts the classification from an error chain. Unclassified
// errors report unexpected_status: the pipeline always classifies its own
// failures, so anything else is an internal consistency violation.
func AsPaymentError(err error) *PaymentError {
	var pe *PaymentError
	if errors.As(err, &pe) {
		return pe
	}
	return NewPaymentError(ErrCodeUnexpectedStatus, err.Error(), err)
}

// HTTPStatus maps an error classification to its HTTP response class:
// 400 for input and verification failures, 409 for replay, 500 for
// infrastructure and internal failures.
func HTTPStatus(err error) int {
	switch AsPaymentError(err).Code {
	case ErrCodeInvalidRequest, ErrCodeMalformedTransaction, ErrCodeNoTransfer, ErrCodeMemoMismatch:
		return http.StatusBadRequest
	case ErrCodeReplayDetected:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
