// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package watch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danielhkuo/tripsync/models"
)

// DefaultInterval is how often a poll's status is refreshed.
const DefaultInterval = 30 * time.Second

var ErrUnexpectedStatus = errors.New("unexpected status code")

// Update is one refresh. Exactly one of Result or Err is set.
type Update struct {
	At     time.Time
	Result models.AggregateResult
	Err    error
}

// Watcher refreshes a poll's status on a fixed interval until its
// context is cancelled. There is no push channel; clients poll.
type Watcher struct {
	client   *http.Client
	baseURL  string
	pollID   string
	interval time.Duration
	log      *slog.Logger
}

type Option func(*Watcher)

func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(w *Watcher) { w.client = c }
}

func WithLogger(log *slog.Logger) Option {
	return func(w *Watcher) { w.log = log }
}

func New(baseURL, pollID string, opts ...Option) *Watcher {
	w := &Watcher{
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  strings.TrimRight(baseURL, "/"),
		pollID:   pollID,
		interval: DefaultInterval,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Fetch performs a single status request.
func (w *Watcher) Fetch(ctx context.Context) (models.AggregateResult, error) {
	const op = "watch.Fetch"

	endpoint := w.baseURL + "/polls/" + url.PathEscape(w.pollID) + "/status"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.AggregateResult{}, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return models.AggregateResult{}, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body models.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return models.AggregateResult{}, fmt.Errorf("%s: %w: %d %s", op, ErrUnexpectedStatus, resp.StatusCode, body.Message)
	}

	var res models.AggregateResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return models.AggregateResult{}, fmt.Errorf("%s: decode: %w", op, err)
	}
	return res, nil
}

// Run fetches immediately and then once per interval, passing every
// refresh to fn. It returns ctx.Err() once the context is done. Failed
// refreshes are reported and the loop keeps going.
func (w *Watcher) Run(ctx context.Context, fn func(Update)) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		res, err := w.Fetch(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			w.log.Warn("status refresh failed", "poll_id", w.pollID, "error", err)
		}
		fn(Update{At: time.Now(), Result: res, Err: err})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
