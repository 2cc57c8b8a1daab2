package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where logs go and how verbose they are.
type Options struct {
	Level     string // DEBUG, INFO, WARN, ERROR
	File      string // empty means stdout
	MaxSizeMB int
}

// OptionsFromEnv reads LOG_LEVEL, LOG_FILE and LOG_MAX_SIZE_MB.
func OptionsFromEnv() Options {
	maxSize, err := strconv.Atoi(os.Getenv("LOG_MAX_SIZE_MB"))
	if err != nil {
		maxSize = 0
	}
	return Options{
		Level:     os.Getenv("LOG_LEVEL"),
		File:      os.Getenv("LOG_FILE"),
		MaxSizeMB: maxSize,
	}
}

// Setup configures the global slog default with a JSON handler from the
// environment. ERROR-level logs automatically include a stack trace.
func Setup() io.Closer {
	return SetupWith(OptionsFromEnv())
}

// SetupWith is Setup with explicit options. When opts.File is set the log is
// rotated by size; the returned Closer releases the file.
func SetupWith(opts Options) io.Closer {
	var out io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		w := rotatingWriter(opts)
		out, closer = w, w
	}
	slog.SetDefault(slog.New(NewHandler(out, parseLevel(opts.Level))))
	return closer
}

// NewHandler returns the JSON handler Setup installs, writing to w.
func NewHandler(w io.Writer, level slog.Level) slog.Handler {
	json := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
	})
	return &stackHandler{Handler: json}
}

func rotatingWriter(opts Options) *lumberjack.Logger {
	maxSize := opts.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	return &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    maxSize,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func parseLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Fatal logs at Error level and exits with code 1.
func Fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}

// stackHandler wraps a slog.Handler and appends a stack trace for ERROR+.
type stackHandler struct {
	slog.Handler
}

func (h *stackHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		buf := make([]byte, 4096)
		n := runtime.Stack(buf, false)
		r.AddAttrs(slog.String("stacktrace", string(buf[:n])))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *stackHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &stackHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *stackHandler) WithGroup(name string) slog.Handler {
	return &stackHandler{Handler: h.Handler.WithGroup(name)}
}
