// Package devserver provides a scripted stand-in for the SDR agent server.
//
// It serves the same endpoints and streams the same event sequence as the
// real server, with replies produced by a Responder instead of a model. It
// backs "sdr serve dev" and the client tests.
package devserver

import (
	"log/slog"
	"time"
)

// Config is the development server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":5001")
	ListenAddr string

	// Delay is the pause between streamed events. Zero streams as fast as
	// the client reads.
	Delay time.Duration

	// Responder scripts the replies. Defaults to ScriptedResponder.
	Responder Responder

	Logger *slog.Logger
}
