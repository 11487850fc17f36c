// Package app wires the funding dashboard together and manages its lifecycle.
//
// New loads nothing from the environment itself: it takes a validated
// config.Config and a logger, initializes OpenTelemetry, prepares the
// configured funding CSV once and builds the chi router with the
// middleware chain
//
//	RequestID → RealIP → StripSlashes → OTel → Logger → Recoverer → SecurityHeaders → CORS → RateLimit → Timeout
//
// A file that cannot be prepared (absent, empty, or missing a required
// column) makes New fail, so the server never starts on bad data.
//
// Run serves until the context is cancelled or SIGINT/SIGTERM arrives and
// then shuts the server and telemetry down. SIGHUP re-prepares the input
// file; a failed reload keeps the previous data.
package app
