package rbac

import (
	"net/http"

	"github.com/milliihq/access/pkg/contextkeys"
	"github.com/milliihq/access/pkg/httputil"
	"github.com/milliihq/access/pkg/session"
)

// sessionUserFrom returns the session user resolved into the request
// context upstream, or nil.
func sessionUserFrom(r *http.Request) *session.User {
	user, ok := r.Context().Value(contextkeys.SessionUserKey).(*session.User)
	if !ok {
		return nil
	}
	return user
}

// RequireAdmin gates the override-editing surface behind an admin session.
// The session user must have been resolved into the request context
// upstream (guard.SessionMiddleware).
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := sessionUserFrom(r)
		if !user.HasID() {
			httputil.WriteUnauthorized(w, "authentication required")
			return
		}
		if !user.Role.IsAdmin() {
			httputil.WriteForbidden(w, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
