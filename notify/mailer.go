// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
)

// DefaultSendTimeout bounds one SMTP session when ctx has no deadline.
const DefaultSendTimeout = 15 * time.Second

type Message struct {
	To      string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer delivers mail through a single SMTP relay. Every Send opens
// its own connection whose read and write deadline is taken from ctx.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	timeout  time.Duration
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		timeout:  DefaultSendTimeout,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	const op = "notify.SMTPMailer.Send"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(m.timeout)
	}
	if time.Until(deadline) <= 0 {
		return fmt.Errorf("%s: %w", op, context.DeadlineExceeded)
	}

	email, err := m.compose(msg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	opts := []mail.Option{
		mail.WithPort(m.port),
		mail.WithTimeout(time.Until(deadline)),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
		mail.WithDialContextFunc(deadlineDialer(deadline)),
	}
	if m.username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.username),
			mail.WithPassword(m.password),
		)
	}

	client, err := mail.NewClient(m.host, opts...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := client.DialAndSendWithContext(ctx, email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// deadlineDialer pins the whole SMTP session, greeting included, to deadline.
func deadlineDialer(deadline time.Time) mail.DialContextFunc {
	return func(ctx context.Context, network, address string) (net.Conn, error) {
		var d net.Dialer
		conn, err := d.DialContext(ctx, network, address)
		if err != nil {
			return nil, err
		}
		if err := conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return nil, err
		}
		return conn, nil
	}
}

func (m *SMTPMailer) compose(msg Message) (*mail.Msg, error) {
	email := mail.NewMsg()
	if err := email.From(m.from); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if err := email.To(msg.To); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	email.Subject(headerSafe(msg.Subject))
	email.SetBodyString(mail.TypeTextHTML, msg.HTML)
	return email, nil
}

// headerSafe folds control characters to spaces so a value can never
// start a new header line.
func headerSafe(s string) string {
	return strings.Map(func(r rune) rune {
		if r < ' ' || r == 0x7f {
			return ' '
		}
		return r
	}, s)
}

// LogMailer only logs messages. Used when no SMTP host is configured.
type LogMailer struct {
	Log *slog.Logger
}

func (m LogMailer) Send(_ context.Context, msg Message) error {
	m.Log.Info("email not sent, no SMTP configured",
		slog.String("to", msg.To),
		slog.String("subject", headerSafe(msg.Subject)),
	)
	return nil
}
