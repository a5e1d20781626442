// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/tripsync/middleware"
	"github.com/danielhkuo/tripsync/models"
	"github.com/danielhkuo/tripsync/polls"
)

type ProfileHandler struct {
	lc *polls.Lifecycle
}

func NewProfileHandler(lc *polls.Lifecycle) *ProfileHandler {
	return &ProfileHandler{lc: lc}
}

// ActivePoll handles GET /profiles/active-poll
// Returns the poll the organizer in X-Organizer-Email is running, if any.
func (h *ProfileHandler) ActivePoll(w http.ResponseWriter, r *http.Request) {
	email := r.Header.Get("X-Organizer-Email")

	active, err := h.lc.ActivePoll(r.Context(), email)
	if err != nil {
		status := statusFor(err)
		logIfInternal(status, err, "get active poll")
		middleware.ErrorResponse(w, status, errorMessage(status, err))
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ActivePollResponse{
		Email:        models.NormalizeEmail(email),
		ActivePollID: active,
	})
}
