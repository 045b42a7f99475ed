package middleware

import (
	"net/http"
	"strings"

	"github.com/mandalnilabja/llamarelay/internal/auth"
	"github.com/mandalnilabja/llamarelay/internal/types"
)

// PasswordStore provides the stored admin password hash.
type PasswordStore interface {
	GetAdminPasswordHash() (string, error)
}

// AdminAuth protects admin routes using the stored argon2id password hash.
// Requires "Authorization: Bearer <admin password>".
func AdminAuth(store PasswordStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeUnauthorized(w, "authorization required")
				return
			}
			password := strings.TrimPrefix(header, "Bearer ")

			hash, err := store.GetAdminPasswordHash()
			if err != nil {
				writeUnauthorized(w, "server error")
				return
			}
			if hash == "" {
				writeUnauthorized(w, "admin not configured")
				return
			}

			if valid, err := auth.VerifySecret(password, hash); err != nil || !valid {
				writeUnauthorized(w, "invalid credentials")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	types.WriteError(w, http.StatusUnauthorized, types.ErrAuthentication(message))
}
