package msgraph

import (
	"errors"
	"net/http"
)

var (
	// ErrAuth indicates the client-credentials exchange failed after all
	// retries were exhausted.
	ErrAuth = errors.New("msgraph: token acquisition failed")

	// ErrPermission indicates the Graph API rejected the request with
	// 401/403. Usually a missing User.Read.All application grant.
	ErrPermission = errors.New("msgraph: insufficient permissions")

	// ErrRequest indicates any other non-2xx Graph response.
	ErrRequest = errors.New("msgraph: request failed")
)

// wrapStatus converts an HTTP status code to an appropriate sentinel, or
// nil for 2xx responses.
func wrapStatus(statusCode int) error {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return ErrPermission
	default:
		return ErrRequest
	}
}
