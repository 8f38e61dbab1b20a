package api

import "fmt"

// AuthError indicates missing or rejected credentials. Retrying without
// new credentials will not help.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// APIError indicates a non-success response other than an auth failure.
// These are transient; the next cycle retries.
type APIError struct {
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d", e.StatusCode)
}
