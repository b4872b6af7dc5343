// Package obs holds the process-wide structured logger used for operational output (run
// lifecycle, browser launches, artifact uploads). Per-scenario debug output goes through
// framework.CapturingLogger instead.
package obs

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

type correlationContextKey struct{}

// Correlation identifies the scenario attempt a log line belongs to.
type Correlation struct {
	RunID    string
	Engine   string
	Scenario string
	Attempt  int
}

var (
	loggerMu sync.RWMutex
	logger   *slog.Logger
	level    = new(slog.LevelVar)
)

// Init configures the global logger. Calling it again replaces the output.
func Init(lvl slog.Level, w io.Writer) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	level.Set(lvl)
	if w == nil {
		w = os.Stderr
	}
	logger = newLogger(w)
	slog.SetDefault(logger)
}

// ParseLevel accepts debug, info, warn or error. Anything else is info.
func ParseLevel(s string) slog.Level {
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

// SetOutputForTests overrides the global logger output for tests.
func SetOutputForTests(w io.Writer) func() {
	loggerMu.Lock()
	prev := logger
	logger = newLogger(w)
	slog.SetDefault(logger)
	loggerMu.Unlock()

	return func() {
		loggerMu.Lock()
		defer loggerMu.Unlock()
		if prev != nil {
			logger = prev
		} else {
			logger = newLogger(os.Stderr)
		}
		slog.SetDefault(logger)
	}
}

func newLogger(w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.TimeKey {
				if t, ok := attr.Value.Any().(time.Time); ok {
					return slog.String(slog.TimeKey, t.UTC().Format(time.RFC3339Nano))
				}
			}
			return attr
		},
	})
	return slog.New(handler)
}

func globalLogger() *slog.Logger {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	if l != nil {
		return l
	}
	Init(slog.LevelInfo, os.Stderr)
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// Pkg returns a logger tagged with package name.
func Pkg(pkg string) *slog.Logger {
	return globalLogger().With("pkg", pkg)
}

// From returns a logger carrying the correlation fields stored in ctx.
func From(ctx context.Context) *slog.Logger {
	l := globalLogger()
	attrs := correlationAttrs(CorrelationFromContext(ctx))
	if len(attrs) == 0 {
		return l
	}
	return l.With(attrs...)
}

// WithCorrelation stores corr in ctx, keeping any fields of the existing correlation that
// corr leaves empty.
func WithCorrelation(ctx context.Context, corr Correlation) context.Context {
	prev := CorrelationFromContext(ctx)
	if corr.RunID == "" {
		corr.RunID = prev.RunID
	}
	if corr.Engine == "" {
		corr.Engine = prev.Engine
	}
	if corr.Scenario == "" {
		corr.Scenario = prev.Scenario
	}
	if corr.Attempt == 0 {
		corr.Attempt = prev.Attempt
	}
	return context.WithValue(ctx, correlationContextKey{}, corr)
}

// CorrelationFromContext returns the stored correlation, or a zero value.
func CorrelationFromContext(ctx context.Context) Correlation {
	if ctx == nil {
		return Correlation{}
	}
	corr, _ := ctx.Value(correlationContextKey{}).(Correlation)
	return corr
}

func correlationAttrs(corr Correlation) []any {
	attrs := make([]any, 0, 8)
	if corr.RunID != "" {
		attrs = append(attrs, "run_id", corr.RunID)
	}
	if corr.Engine != "" {
		attrs = append(attrs, "engine", corr.Engine)
	}
	if corr.Scenario != "" {
		attrs = append(attrs, "scenario", corr.Scenario)
	}
	if corr.Attempt > 0 {
		attrs = append(attrs, "attempt", strconv.Itoa(corr.Attempt))
	}
	return attrs
}
