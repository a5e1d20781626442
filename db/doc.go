// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Drivers

Open registers both drivers and picks one by type:

	conn, err := db.Open("postgres", "postgres://...") // github.com/lib/pq
	conn, err := db.Open("sqlite", "file:dev.db")      // modernc.org/sqlite

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - poll: trip parameters, organizer and lifecycle state
  - poll_question: the five template questions per poll
  - poll_member: invited members, one row per (poll, email)
  - poll_response: append-only answers, one row per question per submission
  - poll_result: cached per-category tallies, keyed by (poll, category)
  - organizer_profile: the organizer's active poll

# Relationships

	poll 1──* poll_question
	poll 1──* poll_member
	poll 1──* poll_response *──1 poll_question
	poll 1──* poll_result
	organizer_profile *──1 poll (active_poll_id, nullable)
*/
package db
