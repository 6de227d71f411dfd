// Package httputil provides HTTP utilities for standardized request/response handling.
//
// # Overview
//
// This package offers helper functions for JSON encoding/decoding, error
// responses, path-parameter parsing, and the middleware shared by the
// permission service: request ids, structured request logging, panic
// recovery, and no-store cache headers.
//
// # Response Helpers
//
//	httputil.WriteJSON(w, http.StatusOK, data)
//	httputil.WriteBadRequest(w, "invalid input")
//	httputil.WriteForbidden(w, "insufficient permissions")
//
// # Request Helpers
//
//	var req OverrideRequest
//	if !httputil.ParseJSONOrError(w, r, &req) {
//		return
//	}
//	userID, ok := httputil.ParsePathStringOrError(w, r, "id")
//
// # Middleware
//
//	router.Use(httputil.RequestIDMiddleware)
//	router.Use(httputil.LoggingMiddleware(logger))
//	router.Use(httputil.RecoveryMiddleware(logger))
//	router.Use(httputil.NoStoreMiddleware)
package httputil
