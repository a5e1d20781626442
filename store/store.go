// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/tripsync/models"
)

var (
	ErrPollNotFound    = errors.New("poll not found")
	ErrProfileNotFound = errors.New("organizer profile not found")
)

// Store is the relational PollStore. All SQL sticks to the subset shared
// by PostgreSQL and SQLite, with placeholders numbered in order.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreatePoll inserts a poll with its questions and members atomically.
func (s *Store) CreatePoll(ctx context.Context, poll models.Poll, questions []models.PollQuestion, members []models.PollMember) error {
	const op = "store.CreatePoll"

	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("%s: question %s: %w", op, q.ID, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO poll (id, destination, trip_type, group_type, group_size, depart_date, return_date,
		                  budget, needs_flights, organizer_email, status, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, poll.ID, poll.Destination, poll.TripType, poll.GroupType, poll.GroupSize, poll.DepartDate, poll.ReturnDate,
		poll.Budget, poll.NeedsFlights, poll.OrganizerEmail, poll.Status, poll.ExpiresAt, poll.CreatedAt, poll.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: insert poll: %w", op, err)
	}

	for _, q := range questions {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("%s: encode options: %w", op, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO poll_question (id, poll_id, position, category, question_text, question_type, options)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, q.ID, poll.ID, q.Position, string(q.Category), q.Text, string(q.Type), string(options))
		if err != nil {
			return fmt.Errorf("%s: insert question: %w", op, err)
		}
	}

	for _, m := range members {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO poll_member (id, poll_id, email, has_responded, invited_at)
			VALUES ($1, $2, $3, $4, $5)
		`, m.ID, poll.ID, m.Email, false, m.InvitedAt)
		if err != nil {
			return fmt.Errorf("%s: insert member %s: %w", op, m.Email, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

func (s *Store) GetPoll(ctx context.Context, id string) (models.Poll, error) {
	const op = "store.GetPoll"

	var p models.Poll
	err := s.db.QueryRowContext(ctx, `
		SELECT id, destination, trip_type, group_type, group_size, depart_date, return_date,
		       budget, needs_flights, organizer_email, status, expires_at, created_at, updated_at
		FROM poll
		WHERE id = $1
	`, id).Scan(
		&p.ID, &p.Destination, &p.TripType, &p.GroupType, &p.GroupSize, &p.DepartDate, &p.ReturnDate,
		&p.Budget, &p.NeedsFlights, &p.OrganizerEmail, &p.Status, &p.ExpiresAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Poll{}, fmt.Errorf("%s: %w", op, ErrPollNotFound)
	}
	if err != nil {
		return models.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

func (s *Store) UpdatePollStatus(ctx context.Context, id, status string, at time.Time) error {
	const op = "store.UpdatePollStatus"

	res, err := s.db.ExecContext(ctx, `
		UPDATE poll SET status = $1, updated_at = $2 WHERE id = $3
	`, status, at, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, ErrPollNotFound)
	}
	return nil
}

func (s *Store) ListQuestions(ctx context.Context, pollID string) ([]models.PollQuestion, error) {
	const op = "store.ListQuestions"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, poll_id, position, category, question_text, question_type, options
		FROM poll_question
		WHERE poll_id = $1
		ORDER BY position, id
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	questions := []models.PollQuestion{}
	for rows.Next() {
		var q models.PollQuestion
		var category, qType string
		var options []byte
		if err := rows.Scan(&q.ID, &q.PollID, &q.Position, &category, &q.Text, &qType, &options); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		q.Category = models.Category(category)
		q.Type = models.QuestionType(qType)
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return nil, fmt.Errorf("%s: decode options for %s: %w", op, q.ID, err)
		}
		questions = append(questions, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return questions, nil
}

func (s *Store) ListMembers(ctx context.Context, pollID string) ([]models.PollMember, error) {
	const op = "store.ListMembers"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, poll_id, email, has_responded, invited_at, responded_at
		FROM poll_member
		WHERE poll_id = $1
		ORDER BY email
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	members := []models.PollMember{}
	for rows.Next() {
		var m models.PollMember
		var respondedAt sql.NullTime
		if err := rows.Scan(&m.ID, &m.PollID, &m.Email, &m.HasResponded, &m.InvitedAt, &respondedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		if respondedAt.Valid {
			t := respondedAt.Time
			m.RespondedAt = &t
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return members, nil
}

// RecordSubmission appends one response row per answer and credits the
// matching member in the same transaction. It reports whether a member
// row was credited; an unregistered email still gets its rows stored.
func (s *Store) RecordSubmission(ctx context.Context, pollID, email string, responses []models.PollResponse, at time.Time) (bool, error) {
	const op = "store.RecordSubmission"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback()

	var seq int64
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) + 1 FROM poll_response WHERE poll_id = $1
	`, pollID).Scan(&seq)
	if err != nil {
		return false, fmt.Errorf("%s: next seq: %w", op, err)
	}

	for _, r := range responses {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO poll_response (id, poll_id, question_id, submission_id, responder_email, response_value, ip_hash, submitted_at, seq)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, r.ID, pollID, r.QuestionID, r.SubmissionID, r.ResponderEmail, r.Value, r.IPHash, r.SubmittedAt, seq)
		if err != nil {
			return false, fmt.Errorf("%s: insert response: %w", op, err)
		}
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE poll_member
		SET has_responded = $1, responded_at = $2
		WHERE poll_id = $3 AND email = $4
	`, true, at, pollID, email)
	if err != nil {
		return false, fmt.Errorf("%s: update member: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: rows affected: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("%s: commit: %w", op, err)
	}
	return n > 0, nil
}

// ListResponses returns every stored response in submission order. Rows
// with equal timestamps keep the order they were recorded in.
func (s *Store) ListResponses(ctx context.Context, pollID string) ([]models.PollResponse, error) {
	const op = "store.ListResponses"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, poll_id, question_id, submission_id, responder_email, response_value, ip_hash, submitted_at, seq
		FROM poll_response
		WHERE poll_id = $1
		ORDER BY submitted_at, seq, id
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	responses := []models.PollResponse{}
	for rows.Next() {
		var r models.PollResponse
		var ipHash sql.NullString
		if err := rows.Scan(&r.ID, &r.PollID, &r.QuestionID, &r.SubmissionID, &r.ResponderEmail, &r.Value, &ipHash, &r.SubmittedAt, &r.Seq); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		if ipHash.Valid {
			h := ipHash.String
			r.IPHash = &h
		}
		responses = append(responses, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return responses, nil
}

// UpsertResult overwrites the cached result for (poll, category).
func (s *Store) UpsertResult(ctx context.Context, r models.PollResult) error {
	const op = "store.UpsertResult"

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO poll_result (poll_id, category, result_summary, majority_choice, vote_distribution, calculated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (poll_id, category) DO UPDATE SET
			result_summary = EXCLUDED.result_summary,
			majority_choice = EXCLUDED.majority_choice,
			vote_distribution = EXCLUDED.vote_distribution,
			calculated_at = EXCLUDED.calculated_at
	`, r.PollID, string(r.Category), string(r.ResultSummary), r.MajorityChoice, string(r.VoteDistribution), r.CalculatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) ListResults(ctx context.Context, pollID string) ([]models.PollResult, error) {
	const op = "store.ListResults"

	rows, err := s.db.QueryContext(ctx, `
		SELECT poll_id, category, result_summary, majority_choice, vote_distribution, calculated_at
		FROM poll_result
		WHERE poll_id = $1
		ORDER BY category
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	results := []models.PollResult{}
	for rows.Next() {
		var r models.PollResult
		var category string
		if err := rows.Scan(&r.PollID, &category, &r.ResultSummary, &r.MajorityChoice, &r.VoteDistribution, &r.CalculatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		r.Category = models.Category(category)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return results, nil
}
