// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/tripsync/auth"
	"github.com/danielhkuo/tripsync/middleware"
	"github.com/danielhkuo/tripsync/models"
	"github.com/danielhkuo/tripsync/polls"
)

const maxFormBytes = 64 << 10

type ResponseHandler struct {
	col    *polls.Collector
	lc     *polls.Lifecycle
	ipSalt string
}

func NewResponseHandler(col *polls.Collector, lc *polls.Lifecycle, ipSalt string) *ResponseHandler {
	return &ResponseHandler{col: col, lc: lc, ipSalt: ipSalt}
}

// SubmitResponse handles POST /polls/{id}/responses
func (h *ResponseHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	var req models.SubmitResponseRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	answers := make(map[string]string, len(req.Responses))
	for _, a := range req.Responses {
		answers[a.QuestionID] = a.Value
	}

	res, err := h.col.SubmitResponse(r.Context(), polls.SubmitInput{
		PollID:         pollID,
		ResponderEmail: req.ResponderEmail,
		Answers:        answers,
		IPHash:         auth.HashIP(middleware.GetClientIP(r), h.ipSalt),
	})
	if err != nil {
		status := statusFor(err)
		logIfInternal(status, err, "submit response")
		middleware.ErrorResponse(w, status, errorMessage(status, err))
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitResponseResponse{
		Success:      true,
		SubmissionID: res.SubmissionID,
		Credited:     res.Credited,
		Message:      submitMessage(res.Credited),
	})
}

// ShowForm handles GET /poll/{id}
// Renders the HTML form members reach from their invitation link.
func (h *ResponseHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	poll, err := h.lc.GetPoll(r.Context(), r.PathValue("id"))
	if err != nil {
		status := statusFor(err)
		logIfInternal(status, err, "show form")
		renderPage(w, status, errorPage, pageData{Message: errorMessage(status, err)})
		return
	}

	data := pageData{Poll: poll, Email: r.URL.Query().Get("email")}
	if poll.Poll.Status != models.StatusActive {
		data.Message = "This poll is no longer accepting responses."
	}
	renderPage(w, http.StatusOK, formPage, data)
}

// SubmitForm handles POST /poll/{id}
func (h *ResponseHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		renderPage(w, http.StatusBadRequest, errorPage, pageData{Message: "Invalid form submission"})
		return
	}

	poll, err := h.lc.GetPoll(r.Context(), pollID)
	if err != nil {
		status := statusFor(err)
		logIfInternal(status, err, "submit form")
		renderPage(w, status, errorPage, pageData{Message: errorMessage(status, err)})
		return
	}

	answers := make(map[string]string, len(poll.Questions))
	for _, q := range poll.Questions {
		values := r.PostForm["q_"+q.ID]
		if len(values) == 0 {
			continue
		}
		answers[q.ID] = strings.Join(values, ",")
	}

	email := r.PostFormValue("email")
	res, err := h.col.SubmitResponse(r.Context(), polls.SubmitInput{
		PollID:         pollID,
		ResponderEmail: email,
		Answers:        answers,
		IPHash:         auth.HashIP(middleware.GetClientIP(r), h.ipSalt),
	})
	if err != nil {
		status := statusFor(err)
		logIfInternal(status, err, "submit form")
		renderPage(w, status, formPage, pageData{Poll: poll, Email: email, Message: errorMessage(status, err)})
		return
	}

	slog.Info("form response recorded", "poll_id", pollID, "submission_id", res.SubmissionID)
	renderPage(w, http.StatusOK, donePage, pageData{Poll: poll, Message: submitMessage(res.Credited)})
}

func submitMessage(credited bool) string {
	if credited {
		return "Thanks! Your preferences have been recorded."
	}
	return "Thanks! Your preferences were recorded, but this email is not on the invite list."
}

type pageData struct {
	Poll    models.PollWithQuestions
	Email   string
	Message string
}

func renderPage(w http.ResponseWriter, status int, t *template.Template, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.Execute(w, data); err != nil {
		slog.Error("failed to render page", "template", t.Name(), "error", err)
	}
}
