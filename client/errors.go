package client

import "fmt"

// AuthError reports a failure within the login, code-exchange, or token
// refresh flow.
type AuthError struct {
	Message string
	Status  int    // HTTP status of the failing call, if any
	Body    string // response body of the failing call, if any
	Err     error  // optional underlying error
}

func (e *AuthError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("auth error: %s (status %d): %s", e.Message, e.Status, e.Body)
	}
	return "auth error: " + e.Message
}

func (e *AuthError) Unwrap() error { return e.Err }

// APIError reports a non-2xx response from the authenticated data API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Status, e.Body)
}

// ConnectionError reports a transport-level failure (DNS, TLS, timeout),
// as opposed to a protocol-level rejection.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }
