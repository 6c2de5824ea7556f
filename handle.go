package mdserve

import (
	"context"
	"net/http"
)

// ResponseWriter implements the http.ResponseWriter but the underlying bytes are buffered. This allows
// middleware to reset the writer and formulate a completely new response.
type ResponseWriter interface {
	http.ResponseWriter
	Reset()
	Free()
	FlushBuffer() error
}

// Handler mirrors http.Handler but it receives the request context explicitly and a buffered response, which
// allows it to return an error.
type Handler interface {
	ServeBHTTP(ctx context.Context, w ResponseWriter, r *http.Request) error
}

// HandlerFunc allow casting a function to imple [Handler].
type HandlerFunc func(context.Context, ResponseWriter, *http.Request) error

// ServeBHTTP implements the [Handler] interface.
func (f HandlerFunc) ServeBHTTP(ctx context.Context, w ResponseWriter, r *http.Request) error {
	return f(ctx, w, r)
}

// BareHandler describes how middleware servers HTTP requests. In this library the signature for
// handling middleware [BareHandler] is different from the signature of "leaf" handlers: [Handler].
type BareHandler interface {
	ServeBareBHTTP(w ResponseWriter, r *http.Request) error
}

// BareHandlerFunc allow casting a function to an implementation of [Handler].
type BareHandlerFunc func(ResponseWriter, *http.Request) error

// ServeBareBHTTP implements the [Handler] interface.
func (f BareHandlerFunc) ServeBareBHTTP(w ResponseWriter, r *http.Request) error {
	return f(w, r)
}

// ToBare converts a leaf handler 'h' into a bare buffered handler.
func ToBare(h Handler) BareHandler {
	return BareHandlerFunc(func(w ResponseWriter, r *http.Request) error {
		return h.ServeBHTTP(r.Context(), w, r)
	})
}

// ToStd converts a bare handler into a standard library http.Handler. The implementation
// creates a buffered response writer and flushes it implicitly after serving the request.
// Errors carrying a [Code] are answered with that status, anything else becomes a 500.
func ToStd(h BareHandler, bufLimit int, logs Logger) http.Handler {
	return http.HandlerFunc(func(resp http.ResponseWriter, req *http.Request) {
		bresp := NewResponseWriter(resp, bufLimit)
		defer bresp.Free()

		if err := h.ServeBareBHTTP(bresp, req); err != nil {
			bresp.Reset() // nothing that was written before the error may reach the client

			code := CodeOf(err)
			if code == CodeUnknown || code >= CodeInternalServerError {
				logs.LogUnhandledServeError(err)
			}

			if code == CodeUnknown {
				code = CodeInternalServerError
			}

			http.Error(bresp, http.StatusText(int(code)), int(code))
		}

		if err := bresp.FlushBuffer(); err != nil {
			logs.LogImplicitFlushError(err)
		}
	})
}
