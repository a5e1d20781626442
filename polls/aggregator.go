// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/danielhkuo/tripsync/models"
	"github.com/danielhkuo/tripsync/store"
)

// CompletionThreshold is the response rate, in percent, at which a poll
// counts as complete.
const CompletionThreshold = 50

// Aggregator computes tallies, majorities and completion for a poll and
// caches the per-category results.
type Aggregator struct {
	store *store.Store
	log   *slog.Logger
	now   func() time.Time
}

func NewAggregator(s *store.Store, log *slog.Logger) *Aggregator {
	return &Aggregator{store: s, log: log, now: time.Now}
}

func (a *Aggregator) Aggregate(ctx context.Context, pollID string) (models.AggregateResult, error) {
	const op = "polls.Aggregate"

	poll, err := loadPoll(ctx, a.store, a.log, pollID, a.now())
	if err != nil {
		return models.AggregateResult{}, fmt.Errorf("%s: %w", op, err)
	}

	questions, err := a.store.ListQuestions(ctx, pollID)
	if err != nil {
		return models.AggregateResult{}, fmt.Errorf("%s: %w", op, err)
	}
	responses, err := a.store.ListResponses(ctx, pollID)
	if err != nil {
		return models.AggregateResult{}, fmt.Errorf("%s: %w", op, err)
	}
	members, err := a.store.ListMembers(ctx, pollID)
	if err != nil {
		return models.AggregateResult{}, fmt.Errorf("%s: %w", op, err)
	}

	byCategory := tallyByCategory(questions, latestAnswers(responses))

	calculatedAt := a.now().UTC()
	for _, category := range models.Categories {
		cr, ok := byCategory[category]
		if !ok {
			continue
		}
		row, err := resultRow(pollID, category, cr, calculatedAt)
		if err != nil {
			return models.AggregateResult{}, fmt.Errorf("%s: %w", op, err)
		}
		if err := a.store.UpsertResult(ctx, row); err != nil {
			return models.AggregateResult{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	return models.AggregateResult{
		Poll:              poll,
		PollStatus:        pollStatus(members),
		ResultsByCategory: byCategory,
		Preferences:       preferencesFrom(byCategory),
	}, nil
}

// loadPoll fetches a poll and marks it expired if it is active but past
// its expiry. A failed status write is logged; the returned poll still
// shows the expired status.
func loadPoll(ctx context.Context, s *store.Store, log *slog.Logger, pollID string, now time.Time) (models.Poll, error) {
	poll, err := s.GetPoll(ctx, pollID)
	if errors.Is(err, store.ErrPollNotFound) {
		return models.Poll{}, ErrNotFound
	}
	if err != nil {
		return models.Poll{}, err
	}

	if poll.Expired(now) {
		poll.Status = models.StatusExpired
		poll.UpdatedAt = now.UTC()
		if err := s.UpdatePollStatus(ctx, poll.ID, models.StatusExpired, poll.UpdatedAt); err != nil {
			log.Warn("failed to mark poll expired", slog.String("poll_id", poll.ID), slog.Any("error", err))
		} else {
			log.Info("poll expired", slog.String("poll_id", poll.ID))
		}
	}

	return poll, nil
}

// latestAnswers keeps one response per (question, responder): the most
// recent one. Equal timestamps resolve to the later submission by Seq.
func latestAnswers(responses []models.PollResponse) []models.PollResponse {
	type key struct{ question, email string }

	index := make(map[key]int, len(responses))
	out := make([]models.PollResponse, 0, len(responses))
	for _, r := range responses {
		k := key{r.QuestionID, r.ResponderEmail}
		if i, ok := index[k]; ok {
			prev := out[i]
			if r.SubmittedAt.After(prev.SubmittedAt) || (r.SubmittedAt.Equal(prev.SubmittedAt) && r.Seq >= prev.Seq) {
				out[i] = r
			}
			continue
		}
		index[k] = len(out)
		out = append(out, r)
	}
	return out
}

func tallyByCategory(questions []models.PollQuestion, responses []models.PollResponse) map[models.Category]models.CategoryResult {
	byQuestion := make(map[string][]models.PollResponse)
	for _, r := range responses {
		byQuestion[r.QuestionID] = append(byQuestion[r.QuestionID], r)
	}

	out := make(map[models.Category]models.CategoryResult)
	for _, q := range questions {
		qr := tallyQuestion(q, byQuestion[q.ID])

		cr, ok := out[q.Category]
		if !ok {
			cr = models.CategoryResult{Questions: []models.QuestionResult{}, MajorityChoices: []string{}}
		}
		cr.Questions = append(cr.Questions, qr)
		if qr.MajorityChoice != nil {
			cr.MajorityChoices = append(cr.MajorityChoices, *qr.MajorityChoice)
		}
		out[q.Category] = cr
	}
	return out
}

// tallyQuestion counts whole stored values, so a multiple choice answer
// "A, B" is one bucket, distinct from "A".
func tallyQuestion(q models.PollQuestion, responses []models.PollResponse) models.QuestionResult {
	counts := make(map[string]int)
	for _, r := range responses {
		counts[r.Value]++
	}

	qr := models.QuestionResult{
		QuestionID:     q.ID,
		QuestionText:   q.Text,
		QuestionType:   q.Type,
		Options:        q.Options,
		ResponseCounts: counts,
		TotalResponses: len(responses),
	}
	if choice, count, ok := majority(counts); ok {
		qr.MajorityChoice = &choice
		qr.MajorityCount = count
	}
	return qr
}

// majority picks the highest count. Ties go to the lexically smallest value
// so the result does not depend on map or row order.
func majority(counts map[string]int) (string, int, bool) {
	var best string
	bestCount := 0
	for value, n := range counts {
		if n > bestCount || (n == bestCount && value < best) {
			best, bestCount = value, n
		}
	}
	return best, bestCount, bestCount > 0
}

func pollStatus(members []models.PollMember) models.PollStatus {
	responded := 0
	for _, m := range members {
		if m.HasResponded {
			responded++
		}
	}
	rate := responseRate(responded, len(members))
	return models.PollStatus{
		TotalMembers:     len(members),
		RespondedMembers: responded,
		ResponseRate:     rate,
		IsComplete:       rate >= CompletionThreshold,
	}
}

// responseRate is a whole percentage, halves rounded away from zero.
func responseRate(responded, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(responded) / float64(total)))
}

func preferencesFrom(byCategory map[models.Category]models.CategoryResult) models.PreferenceSet {
	prefs := models.DefaultPreferences()

	first := func(c models.Category) (string, bool) {
		cr, ok := byCategory[c]
		if !ok || len(cr.MajorityChoices) == 0 {
			return "", false
		}
		return cr.MajorityChoices[0], true
	}

	if v, ok := first(models.CategoryAccommodation); ok {
		prefs.Accommodation = v
	}
	if v, ok := first(models.CategoryBudget); ok {
		prefs.Budget = v
	}
	if v, ok := first(models.CategoryTransport); ok {
		prefs.Transport = v
	}
	if v, ok := first(models.CategoryActivities); ok {
		prefs.Activities = models.SplitValues(v)
	}
	if v, ok := first(models.CategoryFood); ok {
		prefs.Food = models.SplitValues(v)
	}
	return prefs
}

func resultRow(pollID string, category models.Category, cr models.CategoryResult, at time.Time) (models.PollResult, error) {
	summary, err := json.Marshal(cr)
	if err != nil {
		return models.PollResult{}, fmt.Errorf("encode summary: %w", err)
	}

	distribution := make(map[string]map[string]int, len(cr.Questions))
	for _, q := range cr.Questions {
		distribution[q.QuestionID] = q.ResponseCounts
	}
	dist, err := json.Marshal(distribution)
	if err != nil {
		return models.PollResult{}, fmt.Errorf("encode distribution: %w", err)
	}

	var choice string
	if len(cr.MajorityChoices) > 0 {
		choice = cr.MajorityChoices[0]
	}

	return models.PollResult{
		PollID:           pollID,
		Category:         category,
		ResultSummary:    summary,
		MajorityChoice:   choice,
		VoteDistribution: dist,
		CalculatedAt:     at,
	}, nil
}
