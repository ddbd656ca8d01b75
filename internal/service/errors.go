package service

import "fmt"

// AuthError means the provider refused or failed the authentication call.
// Fatal: never retried, the caller falls back to a cached listing set.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("provider authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// QueryRejectedError means the provider turned down a compiled query.
// Diagnostic carries the provider's own wording; the compiler matches
// fragile-field tokens against it to decide whether a degraded retry is
// worth issuing.
type QueryRejectedError struct {
	Status     int
	Diagnostic string
}

func (e *QueryRejectedError) Error() string {
	return fmt.Sprintf("provider rejected query (status %d): %s", e.Status, e.Diagnostic)
}

// RetryExhaustedError means the degraded retry failed too. Both diagnostics
// ride along; there is never a third attempt.
type RetryExhaustedError struct {
	DroppedField string
	First        error
	Second       error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("query failed after dropping %q: first: %v; retry: %v",
		e.DroppedField, e.First, e.Second)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Second }

// MalformedResponseError means the provider answered 2xx with a body that is
// not valid JSON or not the expected shape. Fatal.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed provider response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
