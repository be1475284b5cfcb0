package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup builds the process logger.
//   - level: trace, debug, info, warn, error, fatal, panic (invalid → info)
//   - format: "pretty" for console output during development, anything else emits JSON
//
// The returned logger is also installed as zerolog's default context logger,
// so zerolog.Ctx on a context without a logger falls back to it.
func Setup(level, format string) zerolog.Logger {
	return New(os.Stdout, level, format)
}

// New builds a logger writing to w. Tests pass a buffer.
func New(w io.Writer, level, format string) zerolog.Logger {
	if format == "pretty" {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	log := zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Str("service", "college-erp").
		Logger()

	zerolog.DefaultContextLogger = &log
	return log
}
