// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded before flags are parsed.
Values already present in the process environment win over the file.

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type (sqlite or postgres)
	--base-url        Public base URL for poll links
	--env             Environment (local or prod)
	--organizer-salt  Organizer key salt

# Environment Variables

	PORT                → -p (default 3318)
	DATABASE_URL        → -d
	DATABASE_TYPE       → -t (default sqlite)
	BASE_URL            → --base-url (default http://localhost:<port>)
	APP_ENV             → --env (default local)
	ORGANIZER_KEY_SALT  → --organizer-salt
	POLL_TTL            poll lifetime (default 168h)
	GEMINI_API_KEY      enables AI itinerary generation
	GEMINI_MODEL        default gemini-2.0-flash
	ITINERARY_CACHE_TTL default 1h
	SMTP_HOST           enables email delivery
	SMTP_PORT           default 587
	SMTP_USERNAME, SMTP_PASSWORD, MAIL_FROM

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if DATABASE_URL or ORGANIZER_KEY_SALT is
missing, or if a numeric or duration variable does not parse.
*/
package cliparse
