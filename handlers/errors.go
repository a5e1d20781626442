// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/tripsync/polls"
)

// statusFor maps a domain error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, polls.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, polls.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, polls.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, polls.ErrInsufficientResponses), errors.Is(err, polls.ErrPollNotActive):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage drops the "polls.Op: " prefix so callers see only the
// domain message. Internal errors are never echoed back.
func errorMessage(status int, err error) string {
	if status == http.StatusInternalServerError {
		return "Internal server error"
	}
	msg := err.Error()
	if strings.HasPrefix(msg, "polls.") {
		if i := strings.Index(msg, ": "); i >= 0 {
			msg = msg[i+2:]
		}
	}
	return msg
}

func logIfInternal(status int, err error, op string) {
	if status == http.StatusInternalServerError {
		slog.Error(op+" failed", "error", err)
	}
}
