// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (request_id, method, path, remote) and completion
(status, duration_ms). Responses carry the id in X-Request-ID; an incoming
X-Request-ID is reused. 5xx completions are logged at warn level.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, OPTIONS with headers Content-Type, Authorization,
X-Organizer-Email, X-Organizer-Key.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

ParseJSONBody returns ErrEmptyBody for an empty body so callers with
optional bodies can tell it apart from malformed JSON:

	var req models.GenerateItineraryRequest
	err := middleware.ParseJSONBody(r, &req)
	if err != nil && !errors.Is(err, middleware.ErrEmptyBody) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Checks X-Forwarded-For, then X-Real-IP, then RemoteAddr. The result is
hashed with auth.HashIP before it is stored with a response.
*/
package middleware
