package mdapp

import (
	"context"
	"net/http"
	"time"

	"github.com/advdv/mdserve"
)

// DefaultDeadlineBuffer is the time reserved before a deadline for writing an error response.
const DefaultDeadlineBuffer = 500 * time.Millisecond

// TimeoutConfig holds timeout configuration for the HTTP server.
//
// Server timeouts are the outer bound. Behind the Lambda Web Adapter every request also carries the invocation
// deadline, which [WithRequestDeadline] turns into a context deadline.
type TimeoutConfig struct {
	// RequestTimeout is the longest a single request may take.
	RequestTimeout time.Duration

	// DeadlineBuffer is subtracted from deadlines. Defaults to DefaultDeadlineBuffer.
	DeadlineBuffer time.Duration
}

// ServerTimeouts returns the http.Server timeouts for the request timeout minus the buffer.
func (tc TimeoutConfig) ServerTimeouts() (readHeaderTimeout, readTimeout, writeTimeout, idleTimeout time.Duration) {
	buffer := tc.DeadlineBuffer
	if buffer <= 0 {
		buffer = DefaultDeadlineBuffer
	}

	timeout := tc.RequestTimeout - buffer
	if timeout <= 0 {
		timeout = tc.RequestTimeout
	}

	readHeaderTimeout = min(timeout, 5*time.Second)
	readTimeout = timeout
	writeTimeout = timeout
	idleTimeout = timeout

	return
}

// WithRequestDeadline returns middleware that sets a context deadline based on the Lambda invocation deadline
// from LWAContext. Without such context the request passes unchanged.
func WithRequestDeadline(buffer time.Duration) mdserve.Middleware {
	if buffer <= 0 {
		buffer = DefaultDeadlineBuffer
	}

	return func(next mdserve.BareHandler) mdserve.BareHandler {
		return mdserve.BareHandlerFunc(func(w mdserve.ResponseWriter, r *http.Request) error {
			ctx := r.Context()

			if lwa := LWA(ctx); lwa != nil {
				if deadline := lwa.DeadlineTime(); !deadline.IsZero() {
					adjusted := deadline.Add(-buffer)

					if time.Until(adjusted) > 0 {
						var cancel context.CancelFunc
						ctx, cancel = context.WithDeadline(ctx, adjusted)
						defer cancel()
					}
				}
			}

			return next.ServeBareBHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestRemainingTime returns the duration until the request context deadline.
// Returns 0 if no deadline is set or if the deadline has passed.
func RequestRemainingTime(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	return max(time.Until(deadline), 0)
}
