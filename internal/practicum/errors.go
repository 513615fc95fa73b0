package practicum

import "fmt"

// ConnectivityError wraps a transport-level failure (connection refused,
// timeout, DNS). The poll loop treats it as retryable on the next cycle.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string { return "practicum: request failed: " + e.Err.Error() }
func (e *ConnectivityError) Unwrap() error { return e.Err }

// BadStatusError reports a non-200 response. The message carries the
// endpoint and the code so the forwarded notification is actionable.
type BadStatusError struct {
	Endpoint string
	Code     int
}

func (e *BadStatusError) Error() string {
	return fmt.Sprintf("practicum: endpoint %s returned unexpected status code %d", e.Endpoint, e.Code)
}

// MissingKeyError reports a required key absent from the API response.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("practicum: missing key %q in API response", e.Key)
}

// UnknownKeyError reports a homework payload key outside the allow-list.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("practicum: unexpected key %q in homework payload", e.Key)
}

// ShapeError reports a value of the wrong JSON type.
type ShapeError struct {
	Field string
	Want  string
	Got   any
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("practicum: %s: expected %s, got %T", e.Field, e.Want, e.Got)
}

// UnknownStatusError reports a review status outside the verdict table.
type UnknownStatusError struct {
	Status string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("practicum: unexpected homework status %q", e.Status)
}
