package slogx

import (
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
)

// Redacted replaces the value of sensitive attributes.
const Redacted = "[redacted]"

// sensitiveKeys are never written in clear, whatever the call site passes.
var sensitiveKeys = []string{
	"password",
	"otp",
	"verification_code",
	"bootstrap_token",
	"api_key",
	"authorization",
	"mfa_secret",
}

type Config struct {
	Service string
	Version string
	Env     string // e.g. "dev", "prod"
	Level   string // e.g. "debug", "info", "warn", "error"
	Format  string // e.g. "json", "text"

	// Output defaults to stdout.
	Output io.Writer

	// Redact adds attribute keys to the built-in sensitive list.
	Redact []string
}

// New builds the service logger and installs it as the process default.
// Every record carries service, version and env.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	redact := append(slices.Clone(sensitiveKeys), cfg.Redact...)
	opts := &slog.HandlerOptions{
		AddSource: cfg.Env == "dev",
		Level:     ParseLevel(cfg.Level),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if slices.Contains(redact, strings.ToLower(a.Key)) {
				return slog.String(a.Key, Redacted)
			}
			return a
		},
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	logger := slog.New(handler).With(
		slog.String("service", cfg.Service),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)
	slog.SetDefault(logger)
	return logger
}

// Discard returns a logger that drops everything, handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps LOG_LEVEL onto a slog level; unknown values are info.
func ParseLevel(lvl string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(lvl))); err != nil {
		if strings.EqualFold(lvl, "warning") {
			return slog.LevelWarn
		}
		return slog.LevelInfo
	}
	return level
}
