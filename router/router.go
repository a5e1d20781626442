// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/tripsync/cliparse"
	"github.com/danielhkuo/tripsync/handlers"
	"github.com/danielhkuo/tripsync/itinerary"
	"github.com/danielhkuo/tripsync/middleware"
	"github.com/danielhkuo/tripsync/notify"
	"github.com/danielhkuo/tripsync/polls"
	"github.com/danielhkuo/tripsync/store"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, gen itinerary.Generator, mailer notify.Mailer) *http.ServeMux {
	mux := http.NewServeMux()
	log := slog.Default()

	// Domain services
	s := store.New(db)
	agg := polls.NewAggregator(s, log)
	col := polls.NewCollector(s, log)
	lc := polls.NewLifecycle(s, agg, notify.NewDispatcher(mailer, log), gen, polls.Config{
		BaseURL:          cfg.BaseURL,
		OrganizerKeySalt: cfg.OrganizerKeySalt,
		PollTTL:          cfg.PollTTL,
	}, log)

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(lc)
	responseHandler := handlers.NewResponseHandler(col, lc, cfg.OrganizerKeySalt)
	profileHandler := handlers.NewProfileHandler(lc)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Poll lifecycle
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.GetPoll))
	mux.HandleFunc("GET /polls/{id}/status", middleware.WithLogging(pollHandler.GetStatus))
	mux.HandleFunc("POST /polls/{id}/itinerary", middleware.WithLogging(pollHandler.GenerateItinerary))

	// Member responses
	mux.HandleFunc("POST /polls/{id}/responses", middleware.WithLogging(responseHandler.SubmitResponse))
	mux.HandleFunc("GET /poll/{id}", middleware.WithLogging(responseHandler.ShowForm))
	mux.HandleFunc("POST /poll/{id}", middleware.WithLogging(responseHandler.SubmitForm))

	// Organizer profile
	mux.HandleFunc("GET /profiles/active-poll", middleware.WithLogging(profileHandler.ActivePoll))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tripsync API v1"))
	})

	return mux
}
