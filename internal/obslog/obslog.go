// Package obslog wires zerolog's global logger the way the rest of this
// family of tools does: a human-readable console writer in the
// foreground, switchable to structured JSON, with per-session fields
// attached once at startup rather than threaded through every call site.
package obslog

import (
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. console selects the
// ConsoleWriter pretty-printer (for interactive use); when false, raw JSON
// lines go to stdout (for piping into a log collector).
func Init(console bool, level zerolog.Level) {
	zerolog.SetGlobalLevel(level)

	if console {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
		return
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// SessionLogger returns a logger tagged with a fresh session id, so log
// lines from one peer connection's handshake and event traffic can be
// grepped out of a multi-connection process's output.
func SessionLogger(role string) zerolog.Logger {
	return log.With().Str("role", role).Str("session", uuid.NewString()).Logger()
}
