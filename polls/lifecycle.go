// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/danielhkuo/tripsync/auth"
	"github.com/danielhkuo/tripsync/itinerary"
	"github.com/danielhkuo/tripsync/models"
	"github.com/danielhkuo/tripsync/notify"
	"github.com/danielhkuo/tripsync/store"
)

const (
	DefaultPollTTL       = 7 * 24 * time.Hour
	DefaultNotifyTimeout = 30 * time.Second
	dateLayout           = "2006-01-02"
)

// Notifier delivers poll invitations. *notify.Dispatcher implements it.
type Notifier interface {
	SendInvitations(ctx context.Context, inv notify.Invitation) notify.Result
}

type Config struct {
	BaseURL          string
	OrganizerKeySalt string
	PollTTL          time.Duration
	// NotifyTimeout bounds invitation dispatch during CreatePoll.
	NotifyTimeout time.Duration
}

type GenerateInput struct {
	PollID         string
	OrganizerEmail string
	OrganizerKey   string
	models.GenerateItineraryRequest
}

type GenerateResult struct {
	Itinerary   itinerary.Itinerary  `json:"itinerary"`
	PollStatus  models.PollStatus    `json:"pollStatus"`
	Preferences models.PreferenceSet `json:"preferences"`
}

// Lifecycle creates polls, reports their status and turns the aggregated
// preferences into an itinerary.
type Lifecycle struct {
	store     *store.Store
	agg       *Aggregator
	notifier  Notifier
	generator itinerary.Generator
	cfg       Config
	log       *slog.Logger
	now       func() time.Time
	newID     func() string
}

func NewLifecycle(s *store.Store, agg *Aggregator, n Notifier, g itinerary.Generator, cfg Config, log *slog.Logger) *Lifecycle {
	if cfg.PollTTL <= 0 {
		cfg.PollTTL = DefaultPollTTL
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = DefaultNotifyTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Lifecycle{
		store:     s,
		agg:       agg,
		notifier:  n,
		generator: g,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// PollURL is the member-facing link for a poll.
func (l *Lifecycle) PollURL(pollID string) string {
	return l.cfg.BaseURL + "/poll/" + pollID
}

func (l *Lifecycle) CreatePoll(ctx context.Context, req models.CreatePollRequest) (models.CreatePollResponse, error) {
	const op = "polls.CreatePoll"

	organizer := models.NormalizeEmail(req.OrganizerEmail)
	if organizer == "" {
		return models.CreatePollResponse{}, fmt.Errorf("%s: %w: organizer email is required", op, ErrAuth)
	}

	destination := strings.TrimSpace(req.Destination)
	if destination == "" {
		return models.CreatePollResponse{}, fmt.Errorf("%s: %w: destination is required", op, ErrValidation)
	}
	if strings.ContainsFunc(destination, unicode.IsControl) {
		return models.CreatePollResponse{}, fmt.Errorf("%s: %w: destination contains control characters", op, ErrValidation)
	}
	if err := validateDates(req.DepartDate, req.ReturnDate); err != nil {
		return models.CreatePollResponse{}, fmt.Errorf("%s: %w: %w", op, ErrValidation, err)
	}

	emails := memberEmails(req.MemberEmails)
	if len(emails) == 0 {
		return models.CreatePollResponse{}, fmt.Errorf("%s: %w: at least one member email is required", op, ErrValidation)
	}

	groupSize := req.GroupSize
	if groupSize <= 0 {
		groupSize = len(emails)
		if !slices.Contains(emails, organizer) {
			groupSize++
		}
	}

	now := l.now().UTC()
	poll := models.Poll{
		ID:             l.newID(),
		Destination:    destination,
		TripType:       strings.TrimSpace(req.TripType),
		GroupType:      strings.TrimSpace(req.GroupType),
		GroupSize:      groupSize,
		DepartDate:     strings.TrimSpace(req.DepartDate),
		ReturnDate:     strings.TrimSpace(req.ReturnDate),
		Budget:         strings.TrimSpace(req.Budget),
		NeedsFlights:   req.NeedsFlights,
		OrganizerEmail: organizer,
		Status:         models.StatusActive,
		ExpiresAt:      now.Add(l.cfg.PollTTL),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	questions := TemplateQuestions(poll.ID, poll.Budget, l.newID)

	members := make([]models.PollMember, 0, len(emails))
	for _, email := range emails {
		members = append(members, models.PollMember{
			ID:        l.newID(),
			PollID:    poll.ID,
			Email:     email,
			InvitedAt: now,
		})
	}

	if err := l.store.CreatePoll(ctx, poll, questions, members); err != nil {
		return models.CreatePollResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	log := l.log.With(slog.String("poll_id", poll.ID))
	log.Info("poll created", slog.String("destination", poll.Destination), slog.Int("members", len(members)))

	if err := l.store.SetActivePoll(ctx, organizer, poll.ID, now); err != nil {
		log.Warn("failed to set organizer's active poll", slog.Any("error", err))
	}

	// The poll is committed; a slow relay or a dropped client must not
	// keep the organizer from getting the key.
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.cfg.NotifyTimeout)
	defer cancel()

	pollURL := l.PollURL(poll.ID)
	sent := l.notifier.SendInvitations(nctx, notify.Invitation{
		PollID:         poll.ID,
		PollURL:        pollURL,
		Destination:    poll.Destination,
		OrganizerEmail: organizer,
		MemberEmails:   emails,
		ExpiresAt:      poll.ExpiresAt,
	})

	return models.CreatePollResponse{
		PollID:            poll.ID,
		PollURL:           pollURL,
		OrganizerKey:      auth.GenerateOrganizerKey(poll.ID, l.cfg.OrganizerKeySalt),
		InvitationsSent:   sent.Sent,
		InvitationsFailed: sent.Failed,
	}, nil
}

// GetPoll returns a poll and its questions for rendering the response form.
func (l *Lifecycle) GetPoll(ctx context.Context, pollID string) (models.PollWithQuestions, error) {
	const op = "polls.GetPoll"

	poll, err := loadPoll(ctx, l.store, l.log, pollID, l.now())
	if err != nil {
		return models.PollWithQuestions{}, fmt.Errorf("%s: %w", op, err)
	}
	questions, err := l.store.ListQuestions(ctx, pollID)
	if err != nil {
		return models.PollWithQuestions{}, fmt.Errorf("%s: %w", op, err)
	}
	return models.PollWithQuestions{Poll: poll, Questions: questions}, nil
}

func (l *Lifecycle) GetStatus(ctx context.Context, pollID string) (models.AggregateResult, error) {
	const op = "polls.GetStatus"

	res, err := l.agg.Aggregate(ctx, pollID)
	if err != nil {
		return models.AggregateResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// RequestItineraryGeneration hands the group's preferences to the
// generator. Generation is allowed once anyone has responded, or at any
// time with ForceEarly. A fallback itinerary is returned without error and
// leaves the poll open so the organizer can retry.
func (l *Lifecycle) RequestItineraryGeneration(ctx context.Context, in GenerateInput) (GenerateResult, error) {
	const op = "polls.RequestItineraryGeneration"

	organizer := models.NormalizeEmail(in.OrganizerEmail)
	if organizer == "" {
		return GenerateResult{}, fmt.Errorf("%s: %w: organizer email is required", op, ErrAuth)
	}

	// Authenticate against the raw row before anything is written.
	stored, err := l.store.GetPoll(ctx, in.PollID)
	if errors.Is(err, store.ErrPollNotFound) {
		return GenerateResult{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return GenerateResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if stored.OrganizerEmail != organizer {
		return GenerateResult{}, fmt.Errorf("%s: %w: not the poll organizer", op, ErrAuth)
	}
	if err := auth.ValidateOrganizerKey(stored.ID, in.OrganizerKey, l.cfg.OrganizerKeySalt); err != nil {
		return GenerateResult{}, fmt.Errorf("%s: %w: %w", op, ErrAuth, err)
	}

	agg, err := l.agg.Aggregate(ctx, in.PollID)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("%s: %w", op, err)
	}
	poll := agg.Poll

	// Any credited response unlocks generation, however small the rounded rate.
	if !in.ForceEarly && agg.PollStatus.RespondedMembers == 0 {
		return GenerateResult{}, fmt.Errorf("%s: %w", op, ErrInsufficientResponses)
	}

	prefs := agg.Preferences
	it := l.generator.Generate(ctx, itinerary.Request{
		Destination:    poll.Destination,
		TripType:       poll.TripType,
		GroupType:      poll.GroupType,
		GroupSize:      poll.GroupSize,
		DepartDate:     poll.DepartDate,
		ReturnDate:     poll.ReturnDate,
		Budget:         poll.Budget,
		NeedsFlights:   poll.NeedsFlights,
		SourceLocation: in.SourceLocation,
		ReturnLocation: in.ReturnLocation,
		StayType:       in.StayType,
		CustomStay:     in.CustomStay,
		SpecificPlaces: in.SpecificPlaces,
		Preferences:    &prefs,
	})

	log := l.log.With(slog.String("poll_id", poll.ID))
	if !it.Usable() {
		log.Warn("fallback itinerary returned",
			slog.Any("error", fmt.Errorf("%w: %s", ErrExternalService, it.GenerationError)))
		return GenerateResult{Itinerary: it, PollStatus: agg.PollStatus, Preferences: prefs}, nil
	}

	now := l.now().UTC()
	if err := l.store.ClearActivePoll(ctx, organizer, poll.ID, now); err != nil {
		log.Warn("failed to clear organizer's active poll", slog.Any("error", err))
	}
	if poll.Status == models.StatusActive {
		if err := l.store.UpdatePollStatus(ctx, poll.ID, models.StatusClosed, now); err != nil {
			log.Warn("failed to close poll", slog.Any("error", err))
		}
	}
	log.Info("itinerary generated",
		slog.Int("response_rate", agg.PollStatus.ResponseRate),
		slog.Bool("forced", in.ForceEarly))

	return GenerateResult{Itinerary: it, PollStatus: agg.PollStatus, Preferences: prefs}, nil
}

// ActivePoll returns the poll the organizer is currently running, or nil.
func (l *Lifecycle) ActivePoll(ctx context.Context, email string) (*string, error) {
	const op = "polls.ActivePoll"

	email = models.NormalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%s: %w: organizer email is required", op, ErrAuth)
	}

	profile, err := l.store.GetProfile(ctx, email)
	if errors.Is(err, store.ErrProfileNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return profile.ActivePollID, nil
}

// memberEmails normalizes and de-duplicates addresses, dropping blanks.
// An organizer who lists themselves becomes a member like anyone else.
func memberEmails(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		e = models.NormalizeEmail(e)
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

func validateDates(depart, ret string) error {
	depart, ret = strings.TrimSpace(depart), strings.TrimSpace(ret)

	var d, r time.Time
	var err error
	if depart != "" {
		if d, err = time.Parse(dateLayout, depart); err != nil {
			return errors.New("departDate must be YYYY-MM-DD")
		}
	}
	if ret != "" {
		if r, err = time.Parse(dateLayout, ret); err != nil {
			return errors.New("returnDate must be YYYY-MM-DD")
		}
	}
	if depart != "" && ret != "" && r.Before(d) {
		return errors.New("returnDate is before departDate")
	}
	return nil
}
