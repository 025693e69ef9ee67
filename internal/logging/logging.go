// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup points the global logger at w.
// Level is a zerolog level name; empty means "info". When jsonOutput is
// false, records are written in human-readable console form.
func Setup(w io.Writer, level string, jsonOutput bool) error {
	lvl := zerolog.InfoLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return errors.Wrapf(err, "invalid log level %q", level)
		}
		lvl = parsed
	}
	zerolog.SetGlobalLevel(lvl)

	out := w
	if !jsonOutput {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return nil
}

// Leveled adapts a zerolog logger to retryablehttp's leveled logger.
type Leveled struct {
	logger zerolog.Logger
}

var _ retryablehttp.LeveledLogger = Leveled{}

// NewLeveled wraps logger, tagging every record with the given component.
func NewLeveled(logger zerolog.Logger, component string) Leveled {
	return Leveled{logger: logger.With().Str("component", component).Logger()}
}

func (l Leveled) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l Leveled) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}

// Info is demoted to debug; retryablehttp reports every attempt at this level.
func (l Leveled) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l Leveled) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}
