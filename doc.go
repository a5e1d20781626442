// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the TripSync API server.

TripSync collects a travel group's preferences through a fixed five question
poll (accommodation, activities, budget, food, transport), aggregates the
answers by majority, and hands the result to an itinerary generator once
enough members have responded.

# Starting the Server

	DATABASE_URL=file:tripsync.db ORGANIZER_KEY_SALT=... go run .

Or against PostgreSQL with flags:

	go run . -t postgres -d "postgres://..." --organizer-salt ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite DSN or PostgreSQL connection string
  - ORGANIZER_KEY_SALT (--organizer-salt): secret for organizer key HMAC

Optional settings:

  - PORT (-p): server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - GEMINI_API_KEY: enables AI itineraries; without it they are built offline
  - SMTP_HOST: enables invitation email; without it messages are logged

# Architecture

  - handlers: HTTP request handlers (polls, responses, profiles)
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, request logging, JSON helpers
  - polls: collector, aggregator and lifecycle controller
  - store: relational persistence for polls, responses and results
  - itinerary: Gemini, offline and cached itinerary generators
  - notify: invitation email fan-out
  - auth: organizer keys and IP hashing
  - models: domain, request and response types
  - db: driver selection and schema creation
  - cliparse: configuration parsing
  - watch, cmd/pollwatch: client side status refresh

See package documentation for each component.
*/
package main
