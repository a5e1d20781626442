// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Poll status constants
const (
	StatusActive  = "active"
	StatusClosed  = "closed"
	StatusExpired = "expired"
)

type Category string

const (
	CategoryAccommodation Category = "accommodation"
	CategoryActivities    Category = "activities"
	CategoryBudget        Category = "budget"
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
)

// Categories lists every category in template order.
var Categories = []Category{
	CategoryAccommodation,
	CategoryActivities,
	CategoryBudget,
	CategoryFood,
	CategoryTransport,
}

func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

type QuestionType string

const (
	SingleChoice   QuestionType = "single_choice"
	MultipleChoice QuestionType = "multiple_choice"
	FreeText       QuestionType = "text"
)

// NoPreference is used when a category has no responses yet.
const NoPreference = "No preference"

// multiValueSep joins multiple_choice selections into one stored value.
const multiValueSep = ", "

var (
	ErrInvalidQuestion = errors.New("invalid question")
	ErrInvalidAnswer   = errors.New("invalid answer")
)

type Poll struct {
	ID             string    `json:"id"`
	Destination    string    `json:"destination"`
	TripType       string    `json:"tripType"`
	GroupType      string    `json:"groupType"`
	GroupSize      int       `json:"groupSize"`
	DepartDate     string    `json:"departDate"`
	ReturnDate     string    `json:"returnDate"`
	Budget         string    `json:"budget"`
	NeedsFlights   bool      `json:"needsFlights"`
	OrganizerEmail string    `json:"organizerEmail"`
	Status         string    `json:"status"`
	ExpiresAt      time.Time `json:"expiresAt"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Expired reports whether an active poll has passed its expiry.
func (p Poll) Expired(now time.Time) bool {
	return p.Status == StatusActive && now.After(p.ExpiresAt)
}

type PollQuestion struct {
	ID       string       `json:"id"`
	PollID   string       `json:"pollId"`
	Position int          `json:"position"`
	Category Category     `json:"category"`
	Text     string       `json:"questionText"`
	Type     QuestionType `json:"questionType"`
	Options  []string     `json:"options"`
}

// Validate checks the question against its type: choice questions need
// at least two distinct comma-free options, text questions carry none.
func (q PollQuestion) Validate() error {
	if !q.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidQuestion, q.Category)
	}
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: empty question text", ErrInvalidQuestion)
	}

	switch q.Type {
	case SingleChoice, MultipleChoice:
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: %s needs at least two options", ErrInvalidQuestion, q.Type)
		}
		seen := make(map[string]bool, len(q.Options))
		for _, opt := range q.Options {
			if strings.TrimSpace(opt) == "" || strings.Contains(opt, ",") {
				return fmt.Errorf("%w: bad option %q", ErrInvalidQuestion, opt)
			}
			if seen[opt] {
				return fmt.Errorf("%w: duplicate option %q", ErrInvalidQuestion, opt)
			}
			seen[opt] = true
		}
	case FreeText:
		if len(q.Options) != 0 {
			return fmt.Errorf("%w: text question cannot have options", ErrInvalidQuestion)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidQuestion, q.Type)
	}

	return nil
}

// NormalizeAnswer checks a raw answer against the question and returns the
// value to store. Multiple choice answers are comma separated on input and
// come back in option-list order joined by ", ".
func (q PollQuestion) NormalizeAnswer(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("%w: empty answer for question %s", ErrInvalidAnswer, q.ID)
	}

	switch q.Type {
	case SingleChoice:
		if !slices.Contains(q.Options, value) {
			return "", fmt.Errorf("%w: %q is not an option", ErrInvalidAnswer, value)
		}
		return value, nil

	case MultipleChoice:
		chosen := make(map[string]bool)
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if !slices.Contains(q.Options, part) {
				return "", fmt.Errorf("%w: %q is not an option", ErrInvalidAnswer, part)
			}
			chosen[part] = true
		}
		if len(chosen) == 0 {
			return "", fmt.Errorf("%w: no options chosen", ErrInvalidAnswer)
		}
		ordered := make([]string, 0, len(chosen))
		for _, opt := range q.Options {
			if chosen[opt] {
				ordered = append(ordered, opt)
			}
		}
		return strings.Join(ordered, multiValueSep), nil

	case FreeText:
		return value, nil
	}

	return "", fmt.Errorf("%w: unknown question type %q", ErrInvalidAnswer, q.Type)
}

// SplitValues breaks a stored multiple_choice value back into options.
func SplitValues(value string) []string {
	parts := []string{}
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

type PollMember struct {
	ID           string     `json:"id"`
	PollID       string     `json:"pollId"`
	Email        string     `json:"email"`
	HasResponded bool       `json:"hasResponded"`
	InvitedAt    time.Time  `json:"invitedAt"`
	RespondedAt  *time.Time `json:"respondedAt,omitempty"`
}

type PollResponse struct {
	ID             string    `json:"id"`
	PollID         string    `json:"pollId"`
	QuestionID     string    `json:"questionId"`
	SubmissionID   string    `json:"submissionId"`
	ResponderEmail string    `json:"responderEmail"`
	Value          string    `json:"responseValue"`
	IPHash         *string   `json:"-"` // Never expose in JSON
	SubmittedAt    time.Time `json:"submittedAt"`
	// Seq orders submissions within a poll; every row of one submission
	// shares it.
	Seq int64 `json:"-"`
}

// PollResult is the cached aggregation row for one category.
type PollResult struct {
	PollID           string    `json:"pollId"`
	Category         Category  `json:"category"`
	ResultSummary    []byte    `json:"-"`
	MajorityChoice   string    `json:"majorityChoice"`
	VoteDistribution []byte    `json:"-"`
	CalculatedAt     time.Time `json:"calculatedAt"`
}

type OrganizerProfile struct {
	Email        string    `json:"email"`
	ActivePollID *string   `json:"activePollId"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NormalizeEmail lower-cases and trims an address; emails are the natural
// key for members and responders within a poll.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
