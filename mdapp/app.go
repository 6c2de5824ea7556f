package mdapp

import (
	"context"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/advdv/mdserve"
	"github.com/advdv/mdserve/render"
)

// App wraps an fx.App for lifecycle management.
type App struct {
	app *fx.App
}

// AppConfig holds configuration for the app.
type AppConfig struct {
	ServerConfig
	// Document replaces loading the configuration document.
	Document *Document
	// ConfigFile and DocumentRoot override their environment variables when not empty.
	ConfigFile   string
	DocumentRoot string
	FxOptions    []fx.Option
}

// Option configures the App.
type Option func(*AppConfig)

// WithFx adds fx options, for example to decorate the renderer or the file system.
func WithFx(fxOpts ...fx.Option) Option {
	return func(c *AppConfig) {
		c.FxOptions = append(c.FxOptions, fxOpts...)
	}
}

// WithHealthHandler sets a custom health check handler.
// If not set, a default handler returning 200 OK is used.
func WithHealthHandler(h func(http.ResponseWriter, *http.Request)) Option {
	return func(c *AppConfig) {
		c.HealthHandler = h
	}
}

// WithDocument serves the given configuration instead of loading one.
func WithDocument(doc *Document) Option {
	return func(c *AppConfig) {
		c.Document = doc
	}
}

// WithConfigFile reads the configuration document from path. It takes precedence over the parameter store.
func WithConfigFile(path string) Option {
	return func(c *AppConfig) {
		c.ConfigFile = path
	}
}

// WithDocumentRoot serves documents from dir.
func WithDocumentRoot(dir string) Option {
	return func(c *AppConfig) {
		c.DocumentRoot = dir
	}
}

// FxOptions returns the dependency graph of the server. [NewApp] runs it, tests can run it through fxtest.
func FxOptions(opts ...Option) []fx.Option {
	var cfg AppConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	fxOpts := []fx.Option{
		fx.NopLogger,
		fx.Provide(func() (Environment, error) { return parseEnvWith(cfg) }),
		fx.Provide(NewLogger),
		fx.Provide(NewMux),
		fx.Provide(NewTracerProvider),
		fx.Provide(NewPropagator),
		fx.Provide(provideAWSConfig),
		fx.Provide(func(awsCfg aws.Config) (SecretReader, error) {
			return NewAWSSecretReader(awsCfg)
		}),
		fx.Provide(func(env Environment, awsCfg aws.Config) (*Document, error) {
			if cfg.Document != nil {
				return cfg.Document, nil
			}

			ctx, cancel := context.WithTimeout(context.Background(), awsConfigTimeout)
			defer cancel()
			return LoadDocument(ctx, env, ssm.NewFromConfig(awsCfg))
		}),
		fx.Provide(provideFileSystem),
		fx.Provide(func(env Environment, tp trace.TracerProvider, prop propagation.TextMapPropagator) http.RoundTripper {
			return NewHTTPTransport(tp, prop, env.FetchConnectTimeout)
		}),
		fx.Provide(func(env Environment, t http.RoundTripper, secrets SecretReader) mdserve.Fetcher {
			return NewHTTPFetcher(t, WithBearerSecret(secrets, env.FetchSecretID, env.FetchSecretPath))
		}),
		fx.Provide(func() mdserve.Renderer { return render.New() }),
		fx.Supply(cfg.ServerConfig),
		fx.Provide(NewServer),
		fx.Invoke(startServerHook),
		fx.Invoke(logLocations),
	}

	return append(fxOpts, cfg.FxOptions...)
}

func parseEnvWith(cfg AppConfig) (Environment, error) {
	env, err := ParseEnv()
	if err != nil {
		return env, err
	}

	if cfg.ConfigFile != "" {
		env.ConfigFile, env.ConfigParameter = cfg.ConfigFile, ""
	}
	if cfg.DocumentRoot != "" {
		env.DocumentRoot = cfg.DocumentRoot
	}

	return env, nil
}

func logLocations(doc *Document, logger *zap.Logger) {
	for _, loc := range doc.Resolve() {
		logger.Info("serving location",
			zap.String("prefix", loc.Prefix),
			zap.Stringer("extensions", loc.Config.Extensions),
			zap.Stringer("render", loc.Config.Render),
			zap.Strings("match", loc.Config.Match))
	}
}

// NewApp creates the markdown server with dependency injection.
//
// Example:
//
//	mdapp.NewApp(mdapp.WithDocumentRoot("/srv/md")).Run()
func NewApp(opts ...Option) *App {
	return &App{app: fx.New(FxOptions(opts...)...)}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() {
	a.app.Run()
}

// Err returns the error that occurred while building the dependency graph, if any.
func (a *App) Err() error {
	return a.app.Err()
}

// Start starts the application and blocks until ctx is done, then stops it.
func (a *App) Start(ctx context.Context) error {
	if err := a.app.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), a.app.StopTimeout())
	defer cancel()

	return a.app.Stop(stopCtx)
}
