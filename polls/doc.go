// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package polls implements group trip polls: creation, response collection,
aggregation and itinerary generation.

# Lifecycle

	created (active) --> responses accumulate --> itinerary generated (closed)
	        |
	        +--> expires_at passes (expired)

A poll is created with a fixed set of five questions, one per category
(accommodation, activities, budget, food, transport), and one member row per
invited email. The organizer is a member only when listed. Expiry is applied lazily: an
active poll read after its expiry is marked expired.

# Aggregation

Each (question, responder) pair counts once: the latest submission wins,
with equal timestamps settled by recording order.
Multiple choice answers are tallied as the whole stored value. Ties for the
majority go to the lexically smallest value. The response rate is the
rounded percentage of members who responded; a poll is complete at 50%.

Responses from emails that are not members are stored and tallied but do
not raise the response rate.

# Generation

Generation needs the organizer's email and key, and either at least one
member response or ForceEarly. A usable itinerary closes the poll and clears
the organizer's active poll. A fallback itinerary is returned as a success
and leaves the poll open for another attempt.
*/
package polls
