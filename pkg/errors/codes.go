package errors

// Common error codes
const (
	ErrInternal        = "INTERNAL"
	ErrNotFound        = "NOT_FOUND"
	ErrInvalidArgument = "INVALID_ARGUMENT"
	ErrUnauthenticated = "UNAUTHENTICATED"
	ErrUnauthorized    = "UNAUTHORIZED"
	ErrConflict        = "CONFLICT"
	ErrTimeout         = "TIMEOUT"
	ErrNotImplemented  = "NOT_IMPLEMENTED"

	// ErrPrecondition is a request that is well formed but cannot be served in the current state
	ErrPrecondition = "FAILED_PRECONDITION"
	// ErrUpstream is a failure reported by a remote dependency
	ErrUpstream = "UPSTREAM"
)
