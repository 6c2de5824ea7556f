package mdapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/propagators/aws/xray"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewExporter(t *testing.T) {
	ctx := context.Background()

	for _, typ := range []string{"stdout", ""} {
		exp, err := newExporter(ctx, typ)
		require.NoError(t, err)
		assert.NotNil(t, exp)
	}

	_, err := newExporter(ctx, "invalid")
	require.EqualError(t, err, `unsupported MDSERVE_OTEL_EXPORTER: "invalid" (supported: stdout, xrayudp)`)
}

func TestNewResource(t *testing.T) {
	res, err := newResource(context.Background(), "stdout", "my-service")
	require.NoError(t, err)

	found := false
	for _, attr := range res.Attributes() {
		if string(attr.Key) == "service.name" && attr.Value.AsString() == "my-service" {
			found = true
		}
	}
	assert.True(t, found, "expected service.name attribute in resource")
}

func TestNewPropagator(t *testing.T) {
	assert.IsType(t, xray.Propagator{}, NewPropagator(Environment{OtelExporter: "xrayudp"}))
	assert.Contains(t, NewPropagator(Environment{OtelExporter: "stdout"}).Fields(), "traceparent")
}

func TestWithTracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	handler := withTracing(tp, propagation.TraceContext{}, "mdserve", "/healthz")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	for _, target := range []string{"/healthz", "/docs/index.md"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /docs/index.md", spans[0].Name())
}
