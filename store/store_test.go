// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/tripsync/models"
	"github.com/danielhkuo/tripsync/store"
	"github.com/danielhkuo/tripsync/testutil"
)

func TestStore_CreateAndLoadPoll(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	ctx := context.Background()

	poll, questions := testutil.CreateTestPoll(t, conn, "Org@X.com", "a@x.com", "b@x.com")

	got, err := s.GetPoll(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", got.Destination)
	assert.Equal(t, "org@x.com", got.OrganizerEmail)
	assert.Equal(t, models.StatusActive, got.Status)
	assert.WithinDuration(t, poll.ExpiresAt, got.ExpiresAt, time.Second)

	qs, err := s.ListQuestions(ctx, poll.ID)
	require.NoError(t, err)
	require.Len(t, qs, len(questions))
	assert.Equal(t, questions[0].ID, qs[0].ID)
	assert.Equal(t, []string{"Hostels", "Hotels", "Luxury Hotels"}, qs[0].Options)
	assert.Equal(t, models.MultipleChoice, qs[1].Type)

	members, err := s.ListMembers(ctx, poll.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "a@x.com", members[0].Email)
	assert.False(t, members[0].HasResponded)
	assert.Nil(t, members[0].RespondedAt)
}

func TestStore_GetPollNotFound(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	_, err := store.New(conn).GetPoll(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrPollNotFound)
}

func TestStore_DuplicateMemberRejected(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	now := time.Now().UTC()

	poll := models.Poll{ID: "p1", Destination: "Rome", OrganizerEmail: "o@x.com", Status: models.StatusActive, ExpiresAt: now, CreatedAt: now, UpdatedAt: now}
	members := []models.PollMember{
		{ID: "m1", Email: "a@x.com", InvitedAt: now},
		{ID: "m2", Email: "a@x.com", InvitedAt: now},
	}

	err := s.CreatePoll(context.Background(), poll, nil, members)
	require.Error(t, err)

	// The transaction rolled back, so the poll is not half-created.
	_, err = s.GetPoll(context.Background(), "p1")
	assert.ErrorIs(t, err, store.ErrPollNotFound)
}

func TestStore_RecordSubmission(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	ctx := context.Background()

	poll, qs := testutil.CreateTestPoll(t, conn, "org@x.com", "a@x.com")
	at := time.Now().UTC()

	credited := testutil.SubmitTestResponse(t, conn, poll.ID, "a@x.com", map[string]string{qs[0].ID: "Hostels"}, at)
	assert.True(t, credited)

	// Unregistered email: rows stored, nobody credited.
	credited = testutil.SubmitTestResponse(t, conn, poll.ID, "stranger@x.com", map[string]string{qs[0].ID: "Hotels"}, at)
	assert.False(t, credited)

	responses, err := s.ListResponses(ctx, poll.ID)
	require.NoError(t, err)
	assert.Len(t, responses, 2)

	members, err := s.ListMembers(ctx, poll.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.True(t, members[0].HasResponded)
	require.NotNil(t, members[0].RespondedAt)
}

func TestStore_UpsertResultOverwrites(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	ctx := context.Background()

	poll, _ := testutil.CreateTestPoll(t, conn, "org@x.com", "a@x.com")

	for _, choice := range []string{"Hostels", "Hotels"} {
		err := s.UpsertResult(ctx, models.PollResult{
			PollID:           poll.ID,
			Category:         models.CategoryAccommodation,
			ResultSummary:    []byte(`{}`),
			MajorityChoice:   choice,
			VoteDistribution: []byte(`{}`),
			CalculatedAt:     time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	results, err := s.ListResults(ctx, poll.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Hotels", results[0].MajorityChoice)
}

func TestStore_ActivePoll(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := s.GetProfile(ctx, "org@x.com")
	assert.ErrorIs(t, err, store.ErrProfileNotFound)

	require.NoError(t, s.SetActivePoll(ctx, "org@x.com", "p1", now))
	require.NoError(t, s.SetActivePoll(ctx, "org@x.com", "p2", now))

	// Clearing a stale poll leaves the newer association alone.
	require.NoError(t, s.ClearActivePoll(ctx, "org@x.com", "p1", now))
	p, err := s.GetProfile(ctx, "org@x.com")
	require.NoError(t, err)
	require.NotNil(t, p.ActivePollID)
	assert.Equal(t, "p2", *p.ActivePollID)

	require.NoError(t, s.ClearActivePoll(ctx, "org@x.com", "p2", now))
	p, err = s.GetProfile(ctx, "org@x.com")
	require.NoError(t, err)
	assert.Nil(t, p.ActivePollID)
}

func TestStore_ResponsesKeepRecordingOrder(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	ctx := context.Background()

	poll, qs := testutil.CreateTestPoll(t, conn, "org@x.com", "a@x.com")
	at := time.Now().UTC()

	for _, id := range []string{"zzz", "mmm", "aaa"} {
		_, err := s.RecordSubmission(ctx, poll.ID, "a@x.com", []models.PollResponse{{
			ID:             id,
			QuestionID:     qs[0].ID,
			SubmissionID:   "sub-" + id,
			ResponderEmail: "a@x.com",
			Value:          "Hotels",
			SubmittedAt:    at,
		}}, at)
		require.NoError(t, err)
	}

	responses, err := s.ListResponses(ctx, poll.ID)
	require.NoError(t, err)
	require.Len(t, responses, 3)
	for i, id := range []string{"zzz", "mmm", "aaa"} {
		assert.Equal(t, id, responses[i].ID)
		assert.Equal(t, int64(i+1), responses[i].Seq)
	}
}

func TestStore_CreatePollRejectsInvalidQuestion(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	now := time.Now().UTC()

	poll := models.Poll{ID: "p1", Destination: "Rome", OrganizerEmail: "o@x.com", Status: models.StatusActive, ExpiresAt: now, CreatedAt: now, UpdatedAt: now}
	bad := models.PollQuestion{ID: "q1", Category: models.CategoryFood, Text: "Food?", Type: models.SingleChoice, Options: []string{"Only"}}

	err := s.CreatePoll(context.Background(), poll, []models.PollQuestion{bad}, nil)
	assert.ErrorIs(t, err, models.ErrInvalidQuestion)

	_, err = s.GetPoll(context.Background(), "p1")
	assert.ErrorIs(t, err, store.ErrPollNotFound)
}
