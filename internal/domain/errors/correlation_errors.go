package errors

import "fmt"

// NewCorrelationDecodeError is returned when the provider-side correlation field cannot be decoded
func NewCorrelationDecodeError(field string, cause error) *PaymentError {
	return newError(ErrCorrelationDecode, fmt.Sprintf("cannot decode host transaction id from %q", field), cause)
}

// NewMissingCorrelationError is returned when the host transaction has no stored provider transaction id
func NewMissingCorrelationError(hostTransactionID string) *PaymentError {
	return newError(ErrMissingCorrelation, fmt.Sprintf("no provider transaction id stored for transaction %q", hostTransactionID), nil)
}

// NewCorrelationMismatchError is returned when a provider transaction decodes to a different host transaction
func NewCorrelationMismatchError(expected, actual string) *PaymentError {
	return newError(ErrCorrelationMismatch, fmt.Sprintf("provider transaction belongs to %q, not %q", actual, expected), nil)
}
