// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/tripsync/models"
	"github.com/danielhkuo/tripsync/store"
)

type SubmitInput struct {
	PollID         string
	ResponderEmail string
	// Answers maps question id to the raw answer. Multiple choice answers
	// are comma separated.
	Answers map[string]string
	IPHash  string
}

type SubmitResult struct {
	SubmissionID string `json:"submissionId"`
	// Credited is false when the email is not a registered member. The
	// answers are still stored and tallied.
	Credited bool `json:"credited"`
}

// Collector validates and records member submissions.
type Collector struct {
	store *store.Store
	log   *slog.Logger
	now   func() time.Time
	newID func() string
}

func NewCollector(s *store.Store, log *slog.Logger) *Collector {
	return &Collector{store: s, log: log, now: time.Now, newID: uuid.NewString}
}

func (c *Collector) SubmitResponse(ctx context.Context, in SubmitInput) (SubmitResult, error) {
	const op = "polls.SubmitResponse"

	email := models.NormalizeEmail(in.ResponderEmail)
	if email == "" {
		return SubmitResult{}, fmt.Errorf("%s: %w: responder email is required", op, ErrValidation)
	}

	now := c.now().UTC()
	poll, err := loadPoll(ctx, c.store, c.log, in.PollID, now)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if poll.Status != models.StatusActive {
		return SubmitResult{}, fmt.Errorf("%s: %w: poll is %s", op, ErrPollNotActive, poll.Status)
	}

	questions, err := c.store.ListQuestions(ctx, poll.ID)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("%s: %w", op, err)
	}

	known := make(map[string]bool, len(questions))
	for _, q := range questions {
		known[q.ID] = true
	}
	for id := range in.Answers {
		if !known[id] {
			return SubmitResult{}, fmt.Errorf("%s: %w: unknown question %s", op, ErrValidation, id)
		}
	}

	submissionID := c.newID()
	var missing []string
	responses := make([]models.PollResponse, 0, len(questions))
	for _, q := range questions {
		raw, ok := in.Answers[q.ID]
		if !ok || strings.TrimSpace(raw) == "" {
			missing = append(missing, string(q.Category))
			continue
		}
		value, err := q.NormalizeAnswer(raw)
		if err != nil {
			return SubmitResult{}, fmt.Errorf("%s: %w: %w", op, ErrValidation, err)
		}

		r := models.PollResponse{
			ID:             c.newID(),
			PollID:         poll.ID,
			QuestionID:     q.ID,
			SubmissionID:   submissionID,
			ResponderEmail: email,
			Value:          value,
			SubmittedAt:    now,
		}
		if in.IPHash != "" {
			h := in.IPHash
			r.IPHash = &h
		}
		responses = append(responses, r)
	}
	if len(missing) > 0 {
		return SubmitResult{}, fmt.Errorf("%s: %w: missing %s", op, ErrIncompleteResponse, strings.Join(missing, ", "))
	}

	credited, err := c.store.RecordSubmission(ctx, poll.ID, email, responses, now)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("%s: %w", op, err)
	}

	log := c.log.With(slog.String("poll_id", poll.ID), slog.String("submission_id", submissionID))
	if !credited {
		log.Warn("response from unregistered email recorded without member credit", slog.String("email", email))
	} else {
		log.Info("response recorded", slog.Int("answers", len(responses)))
	}

	return SubmitResult{SubmissionID: submissionID, Credited: credited}, nil
}
