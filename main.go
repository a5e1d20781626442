// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/tripsync/cliparse"
	"github.com/danielhkuo/tripsync/db"
	"github.com/danielhkuo/tripsync/itinerary"
	"github.com/danielhkuo/tripsync/middleware"
	"github.com/danielhkuo/tripsync/notify"
	"github.com/danielhkuo/tripsync/router"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Env)
	slog.SetDefault(logger)

	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gen, err := newGenerator(ctx, cfg, logger)
	cancel()
	if err != nil {
		slog.Error("itinerary generator setup failed", "error", err)
		os.Exit(1)
	}

	mux := router.NewRouter(dbConn, cfg, gen, newMailer(cfg, logger))

	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
		}
	}()

	slog.Info("Listening", "port", cfg.Port, "base_url", cfg.BaseURL)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

func newLogger(env string) *slog.Logger {
	if env == cliparse.EnvLocal {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// newGenerator uses Gemini when a key is configured and the offline
// builder otherwise. Either way results are cached.
func newGenerator(ctx context.Context, cfg cliparse.Config, log *slog.Logger) (itinerary.Generator, error) {
	var gen itinerary.Generator = itinerary.Offline{}
	if cfg.GeminiAPIKey != "" {
		g, err := itinerary.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
		if err != nil {
			return nil, err
		}
		gen = g
		log.Info("itinerary generation enabled", "model", cfg.GeminiModel)
	} else {
		log.Warn("GEMINI_API_KEY not set, itineraries are generated offline")
	}
	return itinerary.NewCached(gen, cfg.ItineraryCacheTTL, log), nil
}

func newMailer(cfg cliparse.Config, log *slog.Logger) notify.Mailer {
	if cfg.SMTPHost == "" {
		log.Warn("SMTP_HOST not set, invitations are only logged")
		return notify.LogMailer{Log: log}
	}
	return notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
}
