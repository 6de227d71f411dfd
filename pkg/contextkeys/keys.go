// Package contextkeys provides centralized context key definitions
//
// IMPORTANT: All context keys used across the application must be defined here.
// This prevents typos, documents dependencies, and makes key usage discoverable.
//
// USAGE PATTERN:
//   import "github.com/milliihq/access/pkg/contextkeys"
//   ctx = context.WithValue(ctx, contextkeys.SessionUserKey, user)
//   user := ctx.Value(contextkeys.SessionUserKey).(*session.User)
package contextkeys

import "context"

// Key is the type for context keys to prevent collisions
type Key string

const (
	// SessionUserKey contains *session.User
	// Set by: guard.SessionMiddleware (pkg/guard/middleware.go)
	// Required by: route guard redirect targeting, rbac admin gating
	// Type: *session.User
	SessionUserKey Key = "session_user"

	// RequestIDKey contains request ID string (UUID)
	// Set by: httputil.RequestIDMiddleware
	// Used by: logger, request logging
	// Type: string
	RequestIDKey Key = "request_id"

	// UserIDKey contains the authenticated user's id
	// Set by: guard.SessionMiddleware after the session record is resolved
	// Used by: logger, rbac handlers
	// Type: string
	UserIDKey Key = "user_id"
)

// Helper functions for type-safe context operations

// WithSessionUser adds the session user to the context
func WithSessionUser(ctx context.Context, user interface{}) context.Context {
	return context.WithValue(ctx, SessionUserKey, user)
}

// WithRequestID adds request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithUserID adds user ID to the context
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// GetUserID retrieves user ID from context
func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(UserIDKey).(string); ok {
		return userID
	}
	return ""
}
