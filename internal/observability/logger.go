package observability

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// NewLogger builds the service logger writing JSON lines to w at the given level.
// Unknown levels fall back to info.
func NewLogger(w io.Writer, level, service, env string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}

	return zerolog.New(w).
		Level(parsed).
		With().
		Timestamp().
		Str("service", service).
		Str("env", env).
		Logger()
}
