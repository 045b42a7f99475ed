// Package shared holds response helpers used by the admin and infra handlers.
package shared

import (
	"net/http"
	"unicode"

	"github.com/mandalnilabja/llamarelay/internal/types"
)

// MinAdminPasswordLength is the shortest accepted admin password.
const MinAdminPasswordLength = 8

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, data any, status int) {
	types.WriteJSON(w, status, data)
}

// WriteJSONError writes an error in the OpenAI-compatible envelope, choosing
// the error type from the status code.
func WriteJSONError(w http.ResponseWriter, message string, status int) {
	errType := types.ErrorTypeServer
	switch {
	case status == http.StatusUnauthorized:
		errType = types.ErrorTypeAuthentication
	case status == http.StatusForbidden:
		errType = types.ErrorTypePermission
	case status == http.StatusNotFound:
		errType = types.ErrorTypeNotFound
	case status < http.StatusInternalServerError:
		errType = types.ErrorTypeInvalidRequest
	}
	types.WriteError(w, status, types.NewAPIError(message, errType))
}

// IsValidAdminPassword validates the admin password format.
// Password must be ASCII letters and digits with at least MinAdminPasswordLength characters.
func IsValidAdminPassword(password string) bool {
	if len(password) < MinAdminPasswordLength {
		return false
	}
	for _, c := range password {
		if c > unicode.MaxASCII || !(unicode.IsLetter(c) || unicode.IsDigit(c)) {
			return false
		}
	}
	return true
}
