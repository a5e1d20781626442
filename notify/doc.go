// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify sends poll invitations and organizer confirmations.

A Dispatcher renders the HTML bodies and hands each recipient to a Mailer
concurrently, bounded by a small limit:

	d := notify.NewDispatcher(notify.NewSMTPMailer(host, 587, user, pass, from), logger)
	res := d.SendInvitations(ctx, inv)

Delivery is best effort. A failure for one recipient is logged and counted
in Result.Failed; it never affects the other recipients or the caller.
LogMailer stands in for SMTP during local development.

SMTPMailer sends through github.com/wneessen/go-mail. Each message uses its
own connection, and the whole session, greeting included, ends at the ctx
deadline or after DefaultSendTimeout. Subjects are folded onto one line
before they reach the header.
*/
package notify
