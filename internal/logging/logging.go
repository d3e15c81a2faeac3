// Package logging builds the process logger: a text handler on stderr fanned
// out to an optional JSON file and the systemd journal.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

var level = new(slog.LevelVar)

// Options selects the log sinks.
type Options struct {
	Level   string    // debug, info, warn or error
	File    string    // JSON log file, empty for none
	Journal bool      // also send records to the systemd journal
	Stderr  io.Writer // text handler output, os.Stderr when nil
}

// ParseLevel parses a level name.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// SetLevel changes the level of every logger built by New.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// Level returns the shared level.
func Level() slog.Level {
	return level.Level()
}

// New builds a logger from opts. The returned closer releases the log file
// and is never nil.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	l, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	level.Set(l)

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}),
	}
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
		closer = f
	}

	var journalErr error
	if opts.Journal {
		h, err := slogjournal.NewHandler(&slogjournal.Options{
			Level: level,
			ReplaceGroup: func(key string) string {
				return toJournalKey(key)
			},
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			journalErr = err
		} else {
			handlers = append(handlers, h)
		}
	}

	logger := slog.New(slogmulti.Fanout(handlers...))
	if journalErr != nil {
		logger.Warn("systemd journal unavailable", "error", journalErr)
	}
	return logger, closer, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// toJournalKey maps a key to the journal field alphabet.
func toJournalKey(str string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, strings.ToUpper(str))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
