// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - CreatePollRequest: trip parameters, organizerEmail, memberEmails
  - SubmitResponseRequest: responderEmail, responses (questionId, value)
  - GenerateItineraryRequest: forceEarly and optional trip refinements

# Response Types

  - CreatePollResponse: pollId, pollUrl, organizerKey, invitation counts
  - SubmitResponseResponse: submissionId, credited
  - PollWithQuestions, ActivePollResponse, ErrorResponse

# Domain Types

  - Poll, PollQuestion, PollMember, PollResponse: stored rows
  - PollResult: cached tally for one (poll, category)
  - OrganizerProfile: an organizer's active poll
  - AggregateResult, CategoryResult, QuestionResult, PollStatus: tallies
  - PreferenceSet: majority choices handed to itinerary generation

# Answers

PollQuestion.NormalizeAnswer validates a raw answer against the question.
Multiple choice selections are stored as one value in option order,
joined by ", ", and split again with SplitValues.

# Constants

	StatusActive  = "active"
	StatusClosed  = "closed"
	StatusExpired = "expired"

	SingleChoice, MultipleChoice, FreeText
	CategoryAccommodation ... CategoryTransport
	NoPreference = "No preference"
*/
package models
