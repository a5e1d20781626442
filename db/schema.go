// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the configured database and verifies the connection.
// dbType is "postgres" or "sqlite".
func Open(dbType, url string) (*sql.DB, error) {
	driver := dbType
	if dbType == "" {
		driver = "sqlite"
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serializes writers anyway; one connection avoids SQLITE_BUSY.
	if driver == "sqlite" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The schema sticks to types and syntax shared by PostgreSQL and SQLite.
// JSON columns are TEXT so both drivers scan them into []byte.
const schema = `
-- Polls
CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    destination TEXT NOT NULL,
    trip_type TEXT NOT NULL DEFAULT '',
    group_type TEXT NOT NULL DEFAULT '',
    group_size INTEGER NOT NULL DEFAULT 0,
    depart_date TEXT NOT NULL DEFAULT '',
    return_date TEXT NOT NULL DEFAULT '',
    budget TEXT NOT NULL DEFAULT '',
    needs_flights BOOLEAN NOT NULL DEFAULT FALSE,
    organizer_email TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'closed', 'expired')),
    expires_at TIMESTAMP NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_poll_status ON poll(status);
CREATE INDEX IF NOT EXISTS idx_poll_organizer ON poll(organizer_email);

-- Questions
CREATE TABLE IF NOT EXISTS poll_question (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    category TEXT NOT NULL CHECK (category IN ('accommodation', 'activities', 'budget', 'food', 'transport')),
    question_text TEXT NOT NULL,
    question_type TEXT NOT NULL CHECK (question_type IN ('single_choice', 'multiple_choice', 'text')),
    options TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_poll_question_poll_id ON poll_question(poll_id);

-- Members
CREATE TABLE IF NOT EXISTS poll_member (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    email TEXT NOT NULL,
    has_responded BOOLEAN NOT NULL DEFAULT FALSE,
    invited_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    responded_at TIMESTAMP,
    UNIQUE (poll_id, email)
);

CREATE INDEX IF NOT EXISTS idx_poll_member_poll_id ON poll_member(poll_id);

-- Responses (append-only)
CREATE TABLE IF NOT EXISTS poll_response (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    question_id TEXT NOT NULL REFERENCES poll_question(id) ON DELETE CASCADE,
    submission_id TEXT NOT NULL,
    responder_email TEXT NOT NULL,
    response_value TEXT NOT NULL,
    ip_hash TEXT,
    submitted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    seq BIGINT NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_poll_response_poll_id ON poll_response(poll_id);
CREATE INDEX IF NOT EXISTS idx_poll_response_responder ON poll_response(poll_id, responder_email);

-- Cached aggregation per category
CREATE TABLE IF NOT EXISTS poll_result (
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    category TEXT NOT NULL,
    result_summary TEXT NOT NULL,
    majority_choice TEXT NOT NULL DEFAULT '',
    vote_distribution TEXT NOT NULL,
    calculated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (poll_id, category)
);

-- Organizer profiles hold the active poll association
CREATE TABLE IF NOT EXISTS organizer_profile (
    email TEXT PRIMARY KEY,
    active_poll_id TEXT,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
