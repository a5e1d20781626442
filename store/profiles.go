// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/tripsync/models"
)

// SetActivePoll links an organizer to the poll they are currently running.
// Re-linking replaces any previous association.
func (s *Store) SetActivePoll(ctx context.Context, email, pollID string, at time.Time) error {
	const op = "store.SetActivePoll"

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO organizer_profile (email, active_poll_id, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET
			active_poll_id = EXCLUDED.active_poll_id,
			updated_at = EXCLUDED.updated_at
	`, email, pollID, at)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ClearActivePoll drops the association only if it still points at pollID,
// so finishing an old poll never unlinks a newer one.
func (s *Store) ClearActivePoll(ctx context.Context, email, pollID string, at time.Time) error {
	const op = "store.ClearActivePoll"

	_, err := s.db.ExecContext(ctx, `
		UPDATE organizer_profile
		SET active_poll_id = NULL, updated_at = $1
		WHERE email = $2 AND active_poll_id = $3
	`, at, email, pollID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) GetProfile(ctx context.Context, email string) (models.OrganizerProfile, error) {
	const op = "store.GetProfile"

	var p models.OrganizerProfile
	var active sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT email, active_poll_id, updated_at
		FROM organizer_profile
		WHERE email = $1
	`, email).Scan(&p.Email, &active, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.OrganizerProfile{}, fmt.Errorf("%s: %w", op, ErrProfileNotFound)
	}
	if err != nil {
		return models.OrganizerProfile{}, fmt.Errorf("%s: %w", op, err)
	}

	if active.Valid {
		id := active.String
		p.ActivePollID = &id
	}
	return p, nil
}
