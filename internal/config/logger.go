package config

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

type ctxKey int

const (
	sessionKey ctxKey = iota
	bankKey
)

var (
	mu     sync.RWMutex
	logger = newDiscardLogger()
)

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// NewLogger builds a text logger writing to out at the given level.
// Unknown levels fall back to info.
func NewLogger(level string, out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}

// SetLogger replaces the process-wide logger.
func SetLogger(l *logrus.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// Logger returns the process-wide logger. Until SetLogger is called it
// discards everything.
func Logger() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// OpenLogFile opens (appending) the log file at path, creating its directory.
func OpenLogFile(path string) (*os.File, error) {
	if err := EnsureDir(path); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// WithSession attaches a quiz session id to ctx for log correlation.
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey, id)
}

// WithBank attaches a bank id to ctx for log correlation.
func WithBank(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, bankKey, id)
}

// WithContext returns a log entry carrying whatever correlation fields are
// attached to ctx.
func WithContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(Logger())
	if ctx == nil {
		return entry
	}
	fields := logrus.Fields{}
	if id, ok := ctx.Value(sessionKey).(string); ok && id != "" {
		fields["session_id"] = id
	}
	if id, ok := ctx.Value(bankKey).(string); ok && id != "" {
		fields["bank_id"] = id
	}
	if len(fields) == 0 {
		return entry
	}
	return entry.WithFields(fields)
}
