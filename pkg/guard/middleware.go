package guard

import (
	"net/http"

	"github.com/milliihq/access/pkg/contextkeys"
	"github.com/milliihq/access/pkg/httputil"
	"github.com/milliihq/access/pkg/permissions"
	"github.com/milliihq/access/pkg/session"
)

// retryAfterSeconds is the hint sent with the loading placeholder.
const retryAfterSeconds = "1"

// Require creates middleware that gates the wrapped handler behind req.
// While the store is loading it answers 202 with a Retry-After hint instead
// of deciding; denials answer 303 to the role-appropriate landing route.
func (g *Guard) Require(req permissions.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch d := g.Decide(req); d.Outcome {
			case OutcomeLoading:
				w.Header().Set("Retry-After", retryAfterSeconds)
				httputil.WriteJSON(w, http.StatusAccepted, map[string]string{
					"status": "loading",
				})
			case OutcomeDenied:
				g.log.WithFields(map[string]interface{}{
					"path":   r.URL.Path,
					"target": d.RedirectTarget,
				}).Debug("route denied, redirecting")
				http.Redirect(w, r, d.RedirectTarget, http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// RequirePermission gates the wrapped handler behind a single key.
func (g *Guard) RequirePermission(key permissions.Key) func(http.Handler) http.Handler {
	return g.Require(permissions.Single(key))
}

// RequireAnyOf gates the wrapped handler behind at least one of keys.
func (g *Guard) RequireAnyOf(keys ...permissions.Key) func(http.Handler) http.Handler {
	return g.Require(permissions.AnyOf(keys...))
}

// RequireAllOf gates the wrapped handler behind all of keys.
func (g *Guard) RequireAllOf(keys ...permissions.Key) func(http.Handler) http.Handler {
	return g.Require(permissions.AllOf(keys...))
}

// SessionMiddleware resolves the persisted session record and annotates the
// request context with the current user, so downstream handlers and logs can
// attribute requests. Requests proceed whether or not a session exists; the
// guard, not this middleware, decides access.
func SessionMiddleware(records session.RecordStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := records.Load()
			if err == nil && user.HasID() {
				ctx := contextkeys.WithSessionUser(r.Context(), user)
				ctx = contextkeys.WithUserID(ctx, user.ID)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionUser returns the session user resolved by SessionMiddleware, or
// nil when the request carries no session.
func SessionUser(r *http.Request) *session.User {
	user, ok := r.Context().Value(contextkeys.SessionUserKey).(*session.User)
	if !ok {
		return nil
	}
	return user
}
