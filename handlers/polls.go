// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/tripsync/middleware"
	"github.com/danielhkuo/tripsync/models"
	"github.com/danielhkuo/tripsync/polls"
)

type PollHandler struct {
	lc *polls.Lifecycle
}

func NewPollHandler(lc *polls.Lifecycle) *PollHandler {
	return &PollHandler{lc: lc}
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	res, err := h.lc.CreatePoll(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		logIfInternal(status, err, "create poll")
		middleware.ErrorResponse(w, status, errorMessage(status, err))
		return
	}

	slog.Info("poll created", "poll_id", res.PollID, "invitations_sent", res.InvitationsSent)

	middleware.JSONResponse(w, http.StatusCreated, res)
}

// GetPoll handles GET /polls/{id}
// Public: returns the poll and its questions for the response form.
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	poll, err := h.lc.GetPoll(r.Context(), pollID)
	if err != nil {
		status := statusFor(err)
		logIfInternal(status, err, "get poll")
		middleware.ErrorResponse(w, status, errorMessage(status, err))
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// GetStatus handles GET /polls/{id}/status
func (h *PollHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	res, err := h.lc.GetStatus(r.Context(), pollID)
	if err != nil {
		status := statusFor(err)
		logIfInternal(status, err, "get status")
		middleware.ErrorResponse(w, status, errorMessage(status, err))
		return
	}

	middleware.JSONResponse(w, http.StatusOK, res)
}

// GenerateItinerary handles POST /polls/{id}/itinerary
// Requires X-Organizer-Email and X-Organizer-Key. A fallback itinerary is
// still a 200; clients check its error markers.
func (h *PollHandler) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	var req models.GenerateItineraryRequest
	// The body is optional; an empty one means default options.
	if err := middleware.ParseJSONBody(r, &req); err != nil && !errors.Is(err, middleware.ErrEmptyBody) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	res, err := h.lc.RequestItineraryGeneration(r.Context(), polls.GenerateInput{
		PollID:                   pollID,
		OrganizerEmail:           r.Header.Get("X-Organizer-Email"),
		OrganizerKey:             r.Header.Get("X-Organizer-Key"),
		GenerateItineraryRequest: req,
	})
	if err != nil {
		status := statusFor(err)
		logIfInternal(status, err, "generate itinerary")
		middleware.ErrorResponse(w, status, errorMessage(status, err))
		return
	}

	middleware.JSONResponse(w, http.StatusOK, res)
}
