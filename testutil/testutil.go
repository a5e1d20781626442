// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/tripsync/cliparse"
	"github.com/danielhkuo/tripsync/db"
	"github.com/danielhkuo/tripsync/models"
	"github.com/danielhkuo/tripsync/store"
)

// SetupTestDB creates a fresh SQLite database file with the full schema.
// The file lives in t.TempDir and is removed with it.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tripsync_test.db")
	conn, err := db.Open("sqlite", "file:"+path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Env:               cliparse.EnvLocal,
		Port:              3318,
		DatabaseURL:       "file::memory:",
		DatabaseType:      "sqlite",
		BaseURL:           "https://trips.example",
		PollTTL:           7 * 24 * time.Hour,
		OrganizerKeySalt:  "test-organizer-salt",
		ItineraryCacheTTL: time.Minute,
	}
}

// CreateTestPoll inserts an active poll with one single-choice and one
// multiple-choice question and the given members. It returns the poll and
// its questions in position order.
func CreateTestPoll(t *testing.T, conn *sql.DB, organizer string, members ...string) (models.Poll, []models.PollQuestion) {
	t.Helper()

	now := time.Now().UTC()
	poll := models.Poll{
		ID:             uuid.NewString(),
		Destination:    "Lisbon",
		TripType:       "leisure",
		GroupType:      "friends",
		GroupSize:      len(members) + 1,
		DepartDate:     "2026-06-01",
		ReturnDate:     "2026-06-07",
		Budget:         "Moderate",
		OrganizerEmail: models.NormalizeEmail(organizer),
		Status:         models.StatusActive,
		ExpiresAt:      now.Add(7 * 24 * time.Hour),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	questions := []models.PollQuestion{
		{
			ID:       uuid.NewString(),
			PollID:   poll.ID,
			Position: 0,
			Category: models.CategoryAccommodation,
			Text:     "Where should we stay?",
			Type:     models.SingleChoice,
			Options:  []string{"Hostels", "Hotels", "Luxury Hotels"},
		},
		{
			ID:       uuid.NewString(),
			PollID:   poll.ID,
			Position: 1,
			Category: models.CategoryActivities,
			Text:     "What should we do?",
			Type:     models.MultipleChoice,
			Options:  []string{"Sightseeing", "Nightlife", "Relaxation"},
		},
	}

	var rows []models.PollMember
	for _, email := range members {
		rows = append(rows, models.PollMember{
			ID:        uuid.NewString(),
			PollID:    poll.ID,
			Email:     models.NormalizeEmail(email),
			InvitedAt: now,
		})
	}

	if err := store.New(conn).CreatePoll(context.Background(), poll, questions, rows); err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return poll, questions
}

// SubmitTestResponse stores one answer per question for email, bypassing
// validation, and credits the member if registered.
func SubmitTestResponse(t *testing.T, conn *sql.DB, pollID, email string, answers map[string]string, at time.Time) bool {
	t.Helper()

	submissionID := uuid.NewString()
	email = models.NormalizeEmail(email)

	var responses []models.PollResponse
	for questionID, value := range answers {
		responses = append(responses, models.PollResponse{
			ID:             uuid.NewString(),
			PollID:         pollID,
			QuestionID:     questionID,
			SubmissionID:   submissionID,
			ResponderEmail: email,
			Value:          value,
			SubmittedAt:    at,
		})
	}

	credited, err := store.New(conn).RecordSubmission(context.Background(), pollID, email, responses, at)
	if err != nil {
		t.Fatalf("Failed to submit test response: %v", err)
	}
	return credited
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
