// Package logger sets up the process-wide slog logger for the dashboard and
// insightctl.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"customer-insights/internal/config"

	"gopkg.in/lumberjack.v2"
)

// secretKeys are attribute keys whose values never reach a log line.
var secretKeys = map[string]bool{
	"password":         true,
	"confirm_password": true,
	"access_token":     true,
	"token":            true,
	"authorization":    true,
}

const redacted = "[REDACTED]"

// Init installs the default slog logger. console overrides stdout when the
// caller wants logs elsewhere (the CLI sends them to stderr so stdout stays
// clean for tables).
func Init(cfg config.LogConfig, console io.Writer) {
	if console == nil {
		console = os.Stdout
	}

	var writers []io.Writer
	if cfg.Console {
		writers = append(writers, console)
	}
	if cfg.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			LocalTime:  true,
		})
	}
	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	h := slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level:       parseLevel(cfg.Level),
		ReplaceAttr: redact,
	})
	slog.SetDefault(slog.New(h))
	Debug("logger initialized", "level", cfg.Level, "file", cfg.File, "console", cfg.Console)
}

// Info logs lifecycle events: startup, sign-in, finished uploads.
func Info(msg string, args ...any) { slog.Info(msg, args...) }

// Warn logs failures the user sees as a notice.
func Warn(msg string, args ...any) { slog.Warn(msg, args...) }

// Error logs failures of this process, not of the backend.
func Error(msg string, args ...any) { slog.Error(msg, args...) }

func Debug(msg string, args ...any) { slog.Debug(msg, args...) }

func redact(groups []string, a slog.Attr) slog.Attr {
	if secretKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, redacted)
	}
	return a
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
