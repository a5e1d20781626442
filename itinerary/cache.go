// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package itinerary

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
)

// Cached remembers usable itineraries per identical request so an
// organizer retrying generation does not pay for a second model call.
// Fallback results are never cached.
type Cached struct {
	next  Generator
	cache *cache.Cache
	log   *slog.Logger
}

func NewCached(next Generator, ttl time.Duration, log *slog.Logger) *Cached {
	return &Cached{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
		log:   log,
	}
}

func (c *Cached) Generate(ctx context.Context, req Request) Itinerary {
	key := cacheKey(req)

	if cached, found := c.cache.Get(key); found {
		if it, ok := cached.(Itinerary); ok {
			c.log.Info("itinerary cache hit", slog.String("cache_key", key))
			return it
		}
	}

	it := c.next.Generate(ctx, req)
	if it.Usable() {
		c.cache.Set(key, it, cache.DefaultExpiration)
	}
	return it
}

func cacheKey(req Request) string {
	b, err := json.Marshal(req)
	if err != nil {
		// Request is plain data; Marshal cannot fail on it.
		return req.Destination
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
