package mdapp

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/advdv/mdserve"
)

// NewLogger creates a zap logger configured from the environment.
// Uses JSON encoding suitable for CloudWatch.
func NewLogger(env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.LogLevel)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

type zapLogger struct{ *zap.Logger }

func (l zapLogger) LogUnhandledServeError(err error) {
	l.Logger.Error("unhandled server error", zap.Error(err))
}

func (l zapLogger) LogImplicitFlushError(err error) {
	l.Logger.Error("error while flushing implicitly", zap.Error(err))
}

func (l zapLogger) LogFetchError(ctx context.Context, url string, err error) {
	l.from(ctx).Warn("ignoring fetch error", zap.String("url", url), zap.Error(err))
}

func (l zapLogger) LogTemplateFallback(ctx context.Context, style string, err error) {
	l.from(ctx).Warn("style unusable, using minimal shell", zap.String("style", style), zap.Error(err))
}

// from returns the request's trace-correlated logger, or the base logger outside of a request.
func (l zapLogger) from(ctx context.Context) *zap.Logger {
	if _, ok := ctx.Value(ctxKeyRequestDep).(*requestDep); !ok {
		return l.Logger
	}
	return Log(ctx).Named("mdserve").Named("mdapp")
}

// NewServeLogger adapts l to the logger the pipeline and mux report to.
func NewServeLogger(l *zap.Logger) mdserve.Logger {
	return zapLogger{l.Named("mdserve").Named("mdapp")}
}
