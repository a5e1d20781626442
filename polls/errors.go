// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"errors"
	"fmt"
)

var (
	ErrValidation            = errors.New("validation failed")
	ErrIncompleteResponse    = fmt.Errorf("%w: every question must be answered", ErrValidation)
	ErrNotFound              = errors.New("poll not found")
	ErrInsufficientResponses = errors.New("not enough responses to generate an itinerary")
	ErrAuth                  = errors.New("organizer authentication failed")
	ErrPollNotActive         = errors.New("poll is not accepting responses")
	ErrExternalService       = errors.New("external service failed")
)
