package mdapp

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/advdv/mdserve"
)

// NewHTTPTransport creates an HTTP RoundTripper instrumented with OpenTelemetry tracing. Connecting to a remote
// host gives up after connectTimeout, a non-positive value leaves the default in place.
func NewHTTPTransport(tp trace.TracerProvider, prop propagation.TextMapPropagator, connectTimeout time.Duration) http.RoundTripper {
	base := http.DefaultTransport.(*http.Transport).Clone()
	if connectTimeout > 0 {
		base.DialContext = (&net.Dialer{Timeout: connectTimeout, KeepAlive: 30 * time.Second}).DialContext
	}

	return otelhttp.NewTransport(base,
		otelhttp.WithTracerProvider(tp),
		otelhttp.WithPropagators(prop),
	)
}

// HTTPFetcher implements [mdserve.Fetcher] for the "url" parameter. Any response outside the 2xx range is an
// error.
type HTTPFetcher struct {
	transport  http.RoundTripper
	secrets    SecretReader
	secretID   string
	secretPath string
}

// FetcherOption configures an [HTTPFetcher].
type FetcherOption func(*HTTPFetcher)

// WithBearerSecret sends the value of a Secrets Manager secret as bearer token. An empty secretID disables it.
func WithBearerSecret(reader SecretReader, secretID, jsonPath string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.secrets, f.secretID, f.secretPath = reader, secretID, jsonPath
	}
}

// NewHTTPFetcher inits a fetcher that sends its requests through t.
func NewHTTPFetcher(t http.RoundTripper, opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{transport: t}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch implements [mdserve.Fetcher].
func (f *HTTPFetcher) Fetch(ctx context.Context, url string, w io.Writer) error {
	rb := requests.URL(url).
		Transport(f.transport).
		Accept("text/markdown, text/plain;q=0.9, */*;q=0.1").
		ToWriter(w)

	if f.secrets != nil && f.secretID != "" {
		token, err := Secret(ctx, f.secrets, f.secretID, f.secretPath)
		if err != nil {
			return errors.Wrap(err, "read fetch token")
		}
		rb = rb.Bearer(token)
	}

	if err := rb.Fetch(ctx); err != nil {
		return errors.Wrapf(err, "fetch %s", url)
	}

	return nil
}

var _ mdserve.Fetcher = &HTTPFetcher{}
