// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/tripsync/itinerary"
	"github.com/danielhkuo/tripsync/models"
	"github.com/danielhkuo/tripsync/polls"
	"github.com/danielhkuo/tripsync/testutil"
)

func (e *testEnv) createPoll(t *testing.T) models.CreatePollResponse {
	t.Helper()

	req := testutil.MakeRequest("POST", "/polls", models.CreatePollRequest{
		Destination:    "Lisbon",
		DepartDate:     "2026-06-01",
		ReturnDate:     "2026-06-03",
		Budget:         "Moderate",
		OrganizerEmail: "org@x.com",
		MemberEmails:   []string{"a@x.com", "b@x.com"},
	}, nil)
	w := httptest.NewRecorder()
	e.polls.CreatePoll(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res models.CreatePollResponse
	testutil.AssertJSON(t, w, &res)
	return res
}

func TestCreatePoll(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{
			name: "valid poll",
			body: models.CreatePollRequest{
				Destination:    "Lisbon",
				OrganizerEmail: "org@x.com",
				MemberEmails:   []string{"a@x.com"},
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "missing organizer",
			body: models.CreatePollRequest{
				Destination:  "Lisbon",
				MemberEmails: []string{"a@x.com"},
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "missing members",
			body: models.CreatePollRequest{
				Destination:    "Lisbon",
				OrganizerEmail: "org@x.com",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			body:           "not json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			env.polls.CreatePoll(w, testutil.MakeRequest("POST", "/polls", tt.body, nil))

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var res models.CreatePollResponse
				testutil.AssertJSON(t, w, &res)
				assert.NotEmpty(t, res.PollID)
				assert.NotEmpty(t, res.OrganizerKey)
				assert.Equal(t, "https://trips.example/poll/"+res.PollID, res.PollURL)
				assert.Equal(t, 1, res.InvitationsSent)
			} else {
				var errResp models.ErrorResponse
				testutil.AssertJSON(t, w, &errResp)
				assert.NotEmpty(t, errResp.Message)
			}
		})
	}
}

func TestGetPollAndStatus(t *testing.T) {
	env := newTestEnv(t)
	created := env.createPoll(t)

	req := httptest.NewRequest("GET", "/polls/"+created.PollID, nil)
	req.SetPathValue("id", created.PollID)
	w := httptest.NewRecorder()
	env.polls.GetPoll(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var poll models.PollWithQuestions
	testutil.AssertJSON(t, w, &poll)
	assert.Equal(t, "Lisbon", poll.Poll.Destination)
	assert.Len(t, poll.Questions, 5)

	req = httptest.NewRequest("GET", "/polls/"+created.PollID+"/status", nil)
	req.SetPathValue("id", created.PollID)
	w = httptest.NewRecorder()
	env.polls.GetStatus(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var status models.AggregateResult
	testutil.AssertJSON(t, w, &status)
	assert.Equal(t, 2, status.PollStatus.TotalMembers)
	assert.Equal(t, models.NoPreference, status.Preferences.Accommodation)
	assert.Len(t, status.ResultsByCategory, 5)
}

func TestGetStatusNotFound(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("GET", "/polls/missing/status", nil)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()
	env.polls.GetStatus(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestGenerateItinerary(t *testing.T) {
	env := newTestEnv(t)
	created := env.createPoll(t)

	call := func(force bool, headers map[string]string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/polls/"+created.PollID+"/itinerary", models.GenerateItineraryRequest{ForceEarly: force}, headers)
		req.SetPathValue("id", created.PollID)
		w := httptest.NewRecorder()
		env.polls.GenerateItinerary(w, req)
		return w
	}
	organizer := map[string]string{
		"X-Organizer-Email": "org@x.com",
		"X-Organizer-Key":   created.OrganizerKey,
	}

	t.Run("missing identity", func(t *testing.T) {
		testutil.AssertStatus(t, call(true, nil), http.StatusUnauthorized)
	})

	t.Run("wrong key", func(t *testing.T) {
		w := call(true, map[string]string{"X-Organizer-Email": "org@x.com", "X-Organizer-Key": "forged"})
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("no responses without override", func(t *testing.T) {
		testutil.AssertStatus(t, call(false, organizer), http.StatusConflict)
	})

	t.Run("fallback is still a success", func(t *testing.T) {
		env.gen.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req itinerary.Request) itinerary.Itinerary {
			return itinerary.Fallback(req, polls.ErrExternalService)
		})

		w := call(true, organizer)
		testutil.AssertStatus(t, w, http.StatusOK)

		var res polls.GenerateResult
		testutil.AssertJSON(t, w, &res)
		assert.False(t, res.Itinerary.Usable())
		assert.NotEmpty(t, res.Itinerary.Warning)
	})

	t.Run("forced generation", func(t *testing.T) {
		env.gen.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(itinerary.Itinerary{
			Destination: "Lisbon",
			Days:        []itinerary.Day{{Day: 1, Theme: "Belém"}},
		})

		w := call(true, organizer)
		testutil.AssertStatus(t, w, http.StatusOK)

		var res polls.GenerateResult
		testutil.AssertJSON(t, w, &res)
		assert.True(t, res.Itinerary.Usable())
		assert.Equal(t, models.DefaultPreferences(), res.Preferences)
	})
}

func TestActivePoll(t *testing.T) {
	env := newTestEnv(t)
	created := env.createPoll(t)

	w := httptest.NewRecorder()
	env.profiles.ActivePoll(w, testutil.MakeRequest("GET", "/profiles/active-poll", nil, map[string]string{"X-Organizer-Email": "ORG@x.com"}))
	testutil.AssertStatus(t, w, http.StatusOK)

	var res models.ActivePollResponse
	testutil.AssertJSON(t, w, &res)
	assert.Equal(t, "org@x.com", res.Email)
	require.NotNil(t, res.ActivePollID)
	assert.Equal(t, created.PollID, *res.ActivePollID)

	w = httptest.NewRecorder()
	env.profiles.ActivePoll(w, testutil.MakeRequest("GET", "/profiles/active-poll", nil, nil))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}
