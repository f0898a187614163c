package errors

import (
	"errors"
	"fmt"
)

// Kind groups payment errors by how they propagate to callers
type Kind string

const (
	KindConfiguration Kind = "CONFIGURATION_ERROR"
	KindValidation    Kind = "VALIDATION_ERROR"
	KindProviderAPI   Kind = "PROVIDER_API_ERROR"
	KindCorrelation   Kind = "CORRELATION_ERROR"
	KindSignature     Kind = "SIGNATURE_ERROR"
	KindNetwork       Kind = "NETWORK_ERROR"
	KindInvariant     Kind = "INVARIANT_VIOLATION"
	KindState         Kind = "STATE_ERROR"
	KindHostAPI       Kind = "HOST_API_ERROR"
)

// PaymentError represents a classified failure of the payment core
type PaymentError struct {
	Kind    Kind
	Type    string
	Message string
	Cause   error
}

func (e *PaymentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s - %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *PaymentError) Unwrap() error {
	return e.Cause
}

// Is matches on Type so constructed errors compare equal to the sentinels below
func (e *PaymentError) Is(target error) bool {
	t, ok := target.(*PaymentError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// Error types
const (
	ErrTypeNoChannelSlugFound  = "NO_CHANNEL_SLUG_FOUND"
	ErrTypeNoConnectionFound   = "NO_CONNECTION_FOUND"
	ErrTypeNoProviderFound     = "NO_PROVIDER_FOUND"
	ErrTypeCorrelationDecode   = "CORRELATION_DECODE_ERROR"
	ErrTypeMissingCorrelation  = "MISSING_CORRELATION"
	ErrTypeCorrelationMismatch = "CORRELATION_MISMATCH"
	ErrTypeInvariantViolation  = "INVARIANT_VIOLATION"
	ErrTypeInvalidSignature    = "INVALID_SIGNATURE"
	ErrTypeUnexpectedStatus    = "UNEXPECTED_STATUS"
	ErrTypeValidation          = "VALIDATION_FAILED"
	ErrTypeNetwork             = "NETWORK_FAILURE"
	ErrTypeUnsupportedGateway  = "UNSUPPORTED_GATEWAY"
	ErrTypeProviderAPI         = "PROVIDER_API_ERROR"
	ErrTypeHostAPI             = "HOST_API_ERROR"
)

var (
	ErrNoChannelSlugFound  = &PaymentError{Kind: KindConfiguration, Type: ErrTypeNoChannelSlugFound, Message: "channel slug is missing"}
	ErrNoConnectionFound   = &PaymentError{Kind: KindConfiguration, Type: ErrTypeNoConnectionFound, Message: "no connection found for channel"}
	ErrNoProviderFound     = &PaymentError{Kind: KindConfiguration, Type: ErrTypeNoProviderFound, Message: "no provider found for connection"}
	ErrCorrelationDecode   = &PaymentError{Kind: KindCorrelation, Type: ErrTypeCorrelationDecode, Message: "correlation field is absent or malformed"}
	ErrMissingCorrelation  = &PaymentError{Kind: KindCorrelation, Type: ErrTypeMissingCorrelation, Message: "provider transaction id is not stored on the transaction"}
	ErrCorrelationMismatch = &PaymentError{Kind: KindCorrelation, Type: ErrTypeCorrelationMismatch, Message: "provider transaction belongs to another host transaction"}
	ErrInvariantViolation  = &PaymentError{Kind: KindInvariant, Type: ErrTypeInvariantViolation, Message: "invariant violated"}
	ErrInvalidSignature    = &PaymentError{Kind: KindSignature, Type: ErrTypeInvalidSignature, Message: "notification signature is missing or invalid"}
	ErrUnexpectedStatus    = &PaymentError{Kind: KindState, Type: ErrTypeUnexpectedStatus, Message: "unexpected provider transaction status"}
	ErrValidation          = &PaymentError{Kind: KindValidation, Type: ErrTypeValidation, Message: "payload validation failed"}
	ErrNetwork             = &PaymentError{Kind: KindNetwork, Type: ErrTypeNetwork, Message: "request to remote service failed"}
	ErrUnsupportedGateway  = &PaymentError{Kind: KindValidation, Type: ErrTypeUnsupportedGateway, Message: "unsupported gateway type"}
	ErrProviderAPI         = &PaymentError{Kind: KindProviderAPI, Type: ErrTypeProviderAPI, Message: "provider rejected the request"}
	ErrHostAPI             = &PaymentError{Kind: KindHostAPI, Type: ErrTypeHostAPI, Message: "host rejected the request"}
)

func newError(sentinel *PaymentError, message string, cause error) *PaymentError {
	if message == "" {
		message = sentinel.Message
	}
	return &PaymentError{
		Kind:    sentinel.Kind,
		Type:    sentinel.Type,
		Message: message,
		Cause:   cause,
	}
}

// KindOf returns the kind of a payment error, or "" for foreign errors
func KindOf(err error) Kind {
	var pe *PaymentError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// NewInvariantViolationError creates a precondition failure
func NewInvariantViolationError(message string) *PaymentError {
	return newError(ErrInvariantViolation, message, nil)
}

// NewInvalidSignatureError creates a signature verification failure
func NewInvalidSignatureError(message string) *PaymentError {
	return newError(ErrInvalidSignature, message, nil)
}

// NewUnexpectedStatusError creates an error for an unmapped provider status
func NewUnexpectedStatusError(status string) *PaymentError {
	return newError(ErrUnexpectedStatus, fmt.Sprintf("unexpected provider transaction status %q", status), nil)
}

// NewValidationError wraps a payload validation failure
func NewValidationError(message string, cause error) *PaymentError {
	return newError(ErrValidation, message, cause)
}

// NewNetworkError wraps a transport failure towards the provider or host
func NewNetworkError(message string, cause error) *PaymentError {
	return newError(ErrNetwork, message, cause)
}

// NewUnsupportedGatewayError creates an error for an unknown gateway tag
func NewUnsupportedGatewayError(gatewayType string) *PaymentError {
	return newError(ErrUnsupportedGateway, fmt.Sprintf("unsupported gateway type %q", gatewayType), nil)
}

// NewProviderAPIError carries the message the provider put in its error list
func NewProviderAPIError(message string, cause error) *PaymentError {
	return newError(ErrProviderAPI, message, cause)
}

// NewHostAPIError carries GraphQL or mutation errors returned by the host
func NewHostAPIError(message string, cause error) *PaymentError {
	return newError(ErrHostAPI, message, cause)
}
