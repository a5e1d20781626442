// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
)

var ErrInvalidOrganizerKey = errors.New("invalid organizer key")

// GenerateOrganizerKey creates an HMAC-based organizer key for a poll.
// This is deterministic and verifiable without storing the key.
func GenerateOrganizerKey(pollID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(pollID))
	sum := h.Sum(nil)
	// URL-safe base64 without padding so the key survives query strings
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateOrganizerKey checks a presented key against the poll's key
func ValidateOrganizerKey(pollID, key, salt string) error {
	expected := GenerateOrganizerKey(pollID, salt)
	if !hmac.Equal([]byte(key), []byte(expected)) {
		return ErrInvalidOrganizerKey
	}
	return nil
}

// HashIP creates a one-way hash of an IP address for privacy.
// Responses keep only this hash, never the raw address.
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// First 16 hex chars (64 bits) are enough to spot repeat submitters
	return hex.EncodeToString(sum[:8])
}
