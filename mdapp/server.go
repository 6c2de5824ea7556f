package mdapp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/advdv/mdserve"
)

// LambdaMaxResponsePayloadBytes is AWS Lambda's 6 MiB limit minus 1 KiB headroom for JSON/API Gateway overhead.
const LambdaMaxResponsePayloadBytes = 6*1024*1024 - 1024

// NewMux creates the mux that serves every location, bounded to what a Lambda response can carry.
func NewMux(logger *zap.Logger) *mdserve.ServeMux {
	return mdserve.NewServeMuxWith(
		LambdaMaxResponsePayloadBytes,
		NewServeLogger(logger),
		http.NewServeMux(),
	)
}

// ServerConfig holds optional configuration for the HTTP server.
type ServerConfig struct {
	HealthHandler func(http.ResponseWriter, *http.Request)
}

// ServerParams holds the dependencies for creating an HTTP server.
type ServerParams struct {
	fx.In

	Env        Environment
	Mux        *mdserve.ServeMux
	Logger     *zap.Logger
	TracerProv trace.TracerProvider
	Propagator propagation.TextMapPropagator
	Document   *Document
	FS         mdserve.FileSystem
	Fetcher    mdserve.Fetcher
	Renderer   mdserve.Renderer
}

// NewServer creates an HTTP server with middleware, the health check and one pipeline per location.
func NewServer(params ServerParams, cfg ServerConfig) *http.Server {
	params.Mux.Use(withRequestDep(&requestDep{logger: params.Logger}))
	params.Mux.Use(withLWAContext())
	params.Mux.Use(WithRequestDeadline(DefaultDeadlineBuffer))

	// tracing is disabled for the health path to avoid orphan traces from probes
	healthPath := params.Env.ReadinessCheckPath
	healthHandler := cfg.HealthHandler
	if healthHandler == nil {
		healthHandler = defaultHealthHandler
	}
	params.Mux.HandleFunc("GET "+healthPath, func(_ context.Context, w mdserve.ResponseWriter, r *http.Request) error {
		healthHandler(w, r)
		return nil
	})

	MountLocations(params.Mux, params.Document, mdserve.PipelineDeps{
		FS:       params.FS,
		Fetcher:  params.Fetcher,
		Renderer: params.Renderer,
		Logger:   NewServeLogger(params.Logger),
	})

	handler := withTracing(params.TracerProv, params.Propagator, params.Env.ServiceName, healthPath)(params.Mux)

	tc := TimeoutConfig{RequestTimeout: params.Env.RequestTimeout}
	readHeaderTimeout, readTimeout, writeTimeout, idleTimeout := tc.ServerTimeouts()

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", params.Env.Port),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// MountLocations registers a pipeline for every location of the document. All locations share one content
// root, so a pipeline sees the full request path. Requests a pipeline declines are served as plain files
// from the same root unless deps.Next is set.
func MountLocations(mux *mdserve.ServeMux, doc *Document, deps mdserve.PipelineDeps) {
	if deps.Next == nil && deps.FS != nil {
		deps.Next = mdserve.FileServer(deps.FS)
	}

	for _, loc := range doc.Resolve() {
		pipeline := mdserve.NewPipeline(loc.Config, deps)
		if loc.Prefix == "/" {
			mux.Handle("/", pipeline)
			continue
		}

		mux.Handle(loc.Prefix, pipeline)
		mux.Handle(loc.Prefix+"/", pipeline)
	}
}

func startServerHook(lc fx.Lifecycle, server *http.Server, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting server", zap.String("addr", server.Addr))
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server")
			return server.Shutdown(ctx)
		},
	})
}

func defaultHealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
