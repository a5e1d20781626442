// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the tripsync API.

# Handler Types

Handlers are thin adapters over the poll services:

  - PollHandler: create a poll, read it, read its status, generate the itinerary
  - ResponseHandler: member submissions, as JSON or through the HTML form
  - ProfileHandler: the organizer's currently active poll

	pollHandler := handlers.NewPollHandler(lifecycle)

# Errors

Domain errors from package polls map to status codes:

	ErrValidation, ErrIncompleteResponse -> 400
	ErrAuth                              -> 401
	ErrNotFound                          -> 404
	ErrInsufficientResponses,
	ErrPollNotActive                     -> 409

Anything else is a 500 with a generic message; the cause is logged.

# Organizer Identity

Organizer operations take the caller's email from X-Organizer-Email.
Itinerary generation also requires X-Organizer-Key, the key returned when
the poll was created.
*/
package handlers
