package errors

import "fmt"

// NewNoChannelSlugFoundError is returned when an event carries no channel
func NewNoChannelSlugFoundError() *PaymentError {
	return newError(ErrNoChannelSlugFound, "", nil)
}

// NewNoConnectionFoundError is returned when no connection is bound to the channel
func NewNoConnectionFoundError(channelSlug string) *PaymentError {
	return newError(ErrNoConnectionFound, fmt.Sprintf("no connection found for channel %q", channelSlug), nil)
}

// NewNoProviderFoundError is returned when a connection or lookup references a missing provider account
func NewNoProviderFoundError(providerID string) *PaymentError {
	return newError(ErrNoProviderFound, fmt.Sprintf("provider %q does not exist", providerID), nil)
}

// NewConnectionNotFoundError is returned when a connection ID does not exist
func NewConnectionNotFoundError(connectionID string) *PaymentError {
	return newError(ErrNoConnectionFound, fmt.Sprintf("connection %q does not exist", connectionID), nil)
}
