// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/tripsync/middleware"
	"github.com/danielhkuo/tripsync/models"
)

func TestFormatStatus(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	res := models.AggregateResult{
		Poll:       models.Poll{Destination: "Lisbon", Status: models.StatusActive, ExpiresAt: now.Add(72 * time.Hour)},
		PollStatus: models.PollStatus{TotalMembers: 4, RespondedMembers: 2, ResponseRate: 50, IsComplete: true},
	}
	assert.Equal(t, "Lisbon: 2/4 responded (50%), ready for itinerary, expires 3 days from now", formatStatus(res, now))

	res.Poll.Status = models.StatusClosed
	assert.Equal(t, "Lisbon: 2/4 responded (50%), poll closed", formatStatus(res, now))
}

func TestRun_Once(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/polls/p1/status", r.URL.Path)
		middleware.JSONResponse(w, http.StatusOK, models.AggregateResult{
			Poll:       models.Poll{Destination: "Rome", Status: models.StatusExpired},
			PollStatus: models.PollStatus{TotalMembers: 3},
		})
	}))
	defer srv.Close()

	var out bytes.Buffer
	require.NoError(t, run([]string{"-url", srv.URL, "-poll", "p1", "-once"}, &out))
	assert.Equal(t, "Rome: 0/3 responded (0%), poll expired\n", out.String())
}

func TestRun_RequiresPoll(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run([]string{"-once"}, &out))
}
