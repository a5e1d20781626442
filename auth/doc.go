// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the organizer capability key and IP hashing.

# Organizer Keys

Organizer keys use HMAC-SHA256 to create deterministic, verifiable keys:

	key := auth.GenerateOrganizerKey(pollID, salt)
	err := auth.ValidateOrganizerKey(pollID, key, salt)

The key is URL-safe base64 encoded without padding. The same poll ID and
salt always produce the same key, so it is never stored in the database.
It is returned once when the poll is created and is required, together with
the organizer's email, to request itinerary generation.

# IP Hashing

Form submissions record a privacy-preserving hash of the client address:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
