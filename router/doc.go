// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the tripsync API.

# Route Registration

NewRouter wires the store, the poll services and the handlers, and returns
a configured http.ServeMux:

	mux := router.NewRouter(db, cfg, generator, mailer)

# Endpoints

Health:

	GET /health

Polls:

	POST /polls                - Create poll (returns organizerKey)
	GET  /polls/{id}           - Poll and questions
	GET  /polls/{id}/status    - Tallies, response rate, preferences
	POST /polls/{id}/itinerary - Generate itinerary (organizer only)

Responses:

	POST /polls/{id}/responses - Submit answers (JSON)
	GET  /poll/{id}            - HTML response form
	POST /poll/{id}            - HTML form submission

Organizer:

	GET /profiles/active-poll - Organizer's running poll

Organizer routes identify the caller with X-Organizer-Email; generation
also requires X-Organizer-Key.
*/
package router
