// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

var (
	invitationTmpl = template.Must(template.New("invitation").Parse(`<h2>You're invited to plan a trip to {{.Destination}}</h2>
<p>{{.OrganizerEmail}} wants to know what the group prefers.</p>
<p><a href="{{.PollURL}}">Answer the poll</a></p>
<p>The poll closes {{.ExpiresIn}}.</p>
`))

	confirmationTmpl = template.Must(template.New("confirmation").Parse(`<h2>Your poll for {{.Destination}} is live</h2>
<p>{{.Invited}} people were invited.</p>
<p>Share link: <a href="{{.PollURL}}">{{.PollURL}}</a></p>
<p>The poll closes {{.ExpiresIn}}. You can generate the itinerary at any time once someone has answered.</p>
`))
)

type Invitation struct {
	PollID         string
	PollURL        string
	Destination    string
	OrganizerEmail string
	MemberEmails   []string
	ExpiresAt      time.Time
}

// Result counts member invitations. The organizer confirmation is not
// included in either count.
type Result struct {
	Sent   int
	Failed int
}

// Dispatcher sends poll emails, one independent attempt per recipient.
type Dispatcher struct {
	mailer Mailer
	log    *slog.Logger
	limit  int
	now    func() time.Time
}

func NewDispatcher(mailer Mailer, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		mailer: mailer,
		log:    log,
		limit:  defaultConcurrency,
		now:    time.Now,
	}
}

// SendInvitations mails every member and then the organizer. Failures are
// logged per recipient and counted, never returned.
func (d *Dispatcher) SendInvitations(ctx context.Context, inv Invitation) Result {
	log := d.log.With(slog.String("poll_id", inv.PollID))

	data := struct {
		Invitation
		ExpiresIn string
		Invited   int
	}{
		Invitation: inv,
		ExpiresIn:  humanize.RelTime(inv.ExpiresAt, d.now(), "ago", "from now"),
		Invited:    len(inv.MemberEmails),
	}

	invite, err := render(invitationTmpl, data)
	if err != nil {
		log.Error("failed to render invitation", slog.Any("error", err))
		return Result{Failed: len(inv.MemberEmails)}
	}

	errs := make([]error, len(inv.MemberEmails))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.limit)
	for i, email := range inv.MemberEmails {
		g.Go(func() error {
			errs[i] = d.mailer.Send(gctx, Message{
				To:      email,
				Subject: fmt.Sprintf("Help plan the trip to %s", inv.Destination),
				HTML:    invite,
			})
			// One failed recipient must not cancel the others.
			return nil
		})
	}
	_ = g.Wait()

	var res Result
	for i, err := range errs {
		if err != nil {
			res.Failed++
			log.Warn("invitation not delivered", slog.String("to", inv.MemberEmails[i]), slog.Any("error", err))
			continue
		}
		res.Sent++
	}

	if inv.OrganizerEmail != "" {
		d.sendConfirmation(ctx, log, inv, data)
	}

	log.Info("invitations dispatched", slog.Int("sent", res.Sent), slog.Int("failed", res.Failed))
	return res
}

func (d *Dispatcher) sendConfirmation(ctx context.Context, log *slog.Logger, inv Invitation, data any) {
	body, err := render(confirmationTmpl, data)
	if err != nil {
		log.Error("failed to render confirmation", slog.Any("error", err))
		return
	}

	err = d.mailer.Send(ctx, Message{
		To:      inv.OrganizerEmail,
		Subject: fmt.Sprintf("Your trip poll for %s is live", inv.Destination),
		HTML:    body,
	})
	if err != nil {
		log.Warn("organizer confirmation not delivered", slog.String("to", inv.OrganizerEmail), slog.Any("error", err))
	}
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
