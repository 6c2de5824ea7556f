package mdserve

import (
	"context"
	"log"
	"sync/atomic"
	"testing"
)

// Logger can be implemented to get informed about important states.
type Logger interface {
	LogUnhandledServeError(err error)
	LogImplicitFlushError(err error)
	LogFetchError(ctx context.Context, url string, err error)
	LogTemplateFallback(ctx context.Context, style string, err error)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogUnhandledServeError(err error) {
	l.Logger.Printf("mdserve: unhandled server error: %s", err)
}

func (l stdLogger) LogImplicitFlushError(err error) {
	l.Logger.Printf("mdserve: error while flushing implicitly: %s", err)
}

func (l stdLogger) LogFetchError(_ context.Context, url string, err error) {
	l.Logger.Printf("mdserve: ignoring fetch error for %q: %s", url, err)
}

func (l stdLogger) LogTemplateFallback(_ context.Context, style string, err error) {
	l.Logger.Printf("mdserve: style %q unusable, using minimal shell: %s", style, err)
}

func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}

	return stdLogger{l}
}

type TestLogger struct {
	tb testing.TB

	NumLogUnhandledServeError int64
	NumLogImplicitFlushError  int64
	NumLogFetchError          int64
	NumLogTemplateFallback    int64
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogUnhandledServeError(err error) {
	atomic.AddInt64(&l.NumLogUnhandledServeError, 1)
	l.tb.Logf("mdserve: unhandled server error: %s", err)
}

func (l *TestLogger) LogImplicitFlushError(err error) {
	atomic.AddInt64(&l.NumLogImplicitFlushError, 1)
	l.tb.Logf("mdserve: error while flushing implicitly: %s", err)
}

func (l *TestLogger) LogFetchError(_ context.Context, url string, err error) {
	atomic.AddInt64(&l.NumLogFetchError, 1)
	l.tb.Logf("mdserve: ignoring fetch error for %q: %s", url, err)
}

func (l *TestLogger) LogTemplateFallback(_ context.Context, style string, err error) {
	atomic.AddInt64(&l.NumLogTemplateFallback, 1)
	l.tb.Logf("mdserve: style %q unusable, using minimal shell: %s", style, err)
}

var _ Logger = &TestLogger{}
