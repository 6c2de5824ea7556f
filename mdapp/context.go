package mdapp

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/advdv/mdserve"
)

type ctxKey int

const (
	ctxKeyRequestDep ctxKey = iota
	ctxKeyLWAContext
)

// requestDep holds request-scoped dependencies available via context.
type requestDep struct {
	logger *zap.Logger
}

// LWAContext contains Lambda execution context from the x-amzn-lambda-context header.
type LWAContext struct {
	RequestID          string       `json:"request_id"`
	Deadline           int64        `json:"deadline"`
	InvokedFunctionARN string       `json:"invoked_function_arn"`
	XRayTraceID        string       `json:"xray_trace_id"`
	EnvConfig          LWAEnvConfig `json:"env_config"`
}

// LWAEnvConfig contains Lambda function environment configuration.
type LWAEnvConfig struct {
	FunctionName string `json:"function_name"`
	Memory       int    `json:"memory"`
	Version      string `json:"version"`
	LogGroup     string `json:"log_group"`
	LogStream    string `json:"log_stream"`
}

// DeadlineTime returns the Lambda invocation deadline as a time.Time.
func (lc *LWAContext) DeadlineTime() time.Time {
	if lc.Deadline == 0 {
		return time.Time{}
	}
	return time.UnixMilli(lc.Deadline)
}

func withRequestDep(d *requestDep) mdserve.Middleware {
	return func(next mdserve.BareHandler) mdserve.BareHandler {
		return mdserve.BareHandlerFunc(func(w mdserve.ResponseWriter, r *http.Request) error {
			ctx := context.WithValue(r.Context(), ctxKeyRequestDep, d)
			return next.ServeBareBHTTP(w, r.WithContext(ctx))
		})
	}
}

// withLWAContext parses the x-amzn-lambda-context header set by the Lambda Web Adapter. A malformed header is
// ignored.
func withLWAContext() mdserve.Middleware {
	return func(next mdserve.BareHandler) mdserve.BareHandler {
		return mdserve.BareHandlerFunc(func(w mdserve.ResponseWriter, r *http.Request) error {
			ctx := r.Context()
			if header := r.Header.Get("x-amzn-lambda-context"); header != "" {
				var lc LWAContext
				if err := json.Unmarshal([]byte(header), &lc); err == nil {
					ctx = context.WithValue(ctx, ctxKeyLWAContext, &lc)
				}
			}
			return next.ServeBareBHTTP(w, r.WithContext(ctx))
		})
	}
}

// LWA retrieves the LWAContext from the request context.
// Returns nil if not running behind the Lambda Web Adapter.
func LWA(ctx context.Context) *LWAContext {
	lc, _ := ctx.Value(ctxKeyLWAContext).(*LWAContext)
	return lc
}

// Log returns a trace-correlated zap logger from the context. Outside of a request it returns a no-op logger.
func Log(ctx context.Context) *zap.Logger {
	d, ok := ctx.Value(ctxKeyRequestDep).(*requestDep)
	if !ok {
		return zap.NewNop()
	}
	return d.logger.With(traceFields(ctx)...)
}

// Span returns the current trace span from the context.
func Span(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

func traceFields(ctx context.Context) []zap.Field {
	sc := Span(ctx).SpanContext()
	if !sc.IsValid() {
		return nil
	}
	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}
