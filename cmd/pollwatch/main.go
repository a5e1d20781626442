// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command pollwatch prints a poll's response progress until interrupted.
//
//	pollwatch -poll 7d1c... -url https://trips.example -interval 30s
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/tripsync/models"
	"github.com/danielhkuo/tripsync/watch"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil && err != context.Canceled {
		slog.Error("pollwatch failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("pollwatch", flag.ContinueOnError)
	baseURL := fs.String("url", envOr("TRIPSYNC_URL", "http://localhost:3318"), "API base URL")
	pollID := fs.String("poll", "", "Poll id to watch")
	interval := fs.Duration("interval", watch.DefaultInterval, "Refresh interval")
	once := fs.Bool("once", false, "Print the status once and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *pollID == "" {
		return fmt.Errorf("-poll is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := watch.New(*baseURL, *pollID, watch.WithInterval(*interval))
	if *once {
		res, err := w.Fetch(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, formatStatus(res, time.Now()))
		return nil
	}

	return w.Run(ctx, func(u watch.Update) {
		if u.Err != nil {
			fmt.Fprintf(out, "%s  refresh failed: %v\n", u.At.Format(time.Kitchen), u.Err)
			return
		}
		fmt.Fprintf(out, "%s  %s\n", u.At.Format(time.Kitchen), formatStatus(u.Result, u.At))
	})
}

func formatStatus(res models.AggregateResult, now time.Time) string {
	st := res.PollStatus
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d/%d responded (%d%%)", res.Poll.Destination, st.RespondedMembers, st.TotalMembers, st.ResponseRate)

	switch {
	case res.Poll.Status != models.StatusActive:
		fmt.Fprintf(&b, ", poll %s", res.Poll.Status)
	case st.IsComplete:
		b.WriteString(", ready for itinerary")
	}
	if res.Poll.Status == models.StatusActive && !res.Poll.ExpiresAt.IsZero() {
		fmt.Fprintf(&b, ", expires %s", humanize.RelTime(res.Poll.ExpiresAt, now, "ago", "from now"))
	}
	return b.String()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
