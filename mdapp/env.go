package mdapp

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// Environment holds the process configuration read from MDSERVE_* variables.
type Environment struct {
	Port               int           `env:"MDSERVE_PORT" envDefault:"8080"`
	ServiceName        string        `env:"MDSERVE_SERVICE_NAME" envDefault:"mdserve"`
	ReadinessCheckPath string        `env:"MDSERVE_READINESS_CHECK_PATH" envDefault:"/healthz"`
	LogLevel           zapcore.Level `env:"MDSERVE_LOG_LEVEL" envDefault:"info"`
	OtelExporter       string        `env:"MDSERVE_OTEL_EXPORTER" envDefault:"stdout"`

	// DocumentRoot is the local directory documents and styles are read from, unless a bucket is configured.
	DocumentRoot string `env:"MDSERVE_DOCUMENT_ROOT" envDefault:"."`
	// ContentBucket switches the document store to S3. Keys may be scoped with ContentPrefix.
	ContentBucket string `env:"MDSERVE_CONTENT_BUCKET"`
	ContentPrefix string `env:"MDSERVE_CONTENT_PREFIX"`
	// ContentRegion is the region of the bucket when it differs from AWS_REGION.
	ContentRegion string `env:"MDSERVE_CONTENT_REGION"`

	// ConfigFile is a YAML configuration document on the local disk.
	ConfigFile string `env:"MDSERVE_CONFIG_FILE"`
	// ConfigParameter names an SSM parameter holding the configuration document. It wins over ConfigFile.
	ConfigParameter string `env:"MDSERVE_CONFIG_PARAMETER"`

	// FetchSecretID names a Secrets Manager secret whose value is sent as bearer token with "url" fetches.
	FetchSecretID string `env:"MDSERVE_FETCH_SECRET_ID"`
	// FetchSecretPath selects a gjson path inside a JSON secret.
	FetchSecretPath     string        `env:"MDSERVE_FETCH_SECRET_PATH"`
	FetchConnectTimeout time.Duration `env:"MDSERVE_FETCH_CONNECT_TIMEOUT" envDefault:"30s"`

	RequestTimeout time.Duration `env:"MDSERVE_REQUEST_TIMEOUT" envDefault:"30s"`
	AWSRegion      string        `env:"AWS_REGION"`
}

// ParseEnv parses the process environment.
func ParseEnv() (Environment, error) {
	var e Environment
	if err := env.Parse(&e); err != nil {
		return e, errors.Wrap(err, "failed to parse environment")
	}

	return e, nil
}
