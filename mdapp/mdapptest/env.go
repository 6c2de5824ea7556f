package mdapptest

import (
	"strconv"
	"testing"
)

// Env provides a chainable builder for setting MDSERVE_* env vars via t.Setenv. Create one with [SetEnv].
type Env struct {
	t testing.TB
}

// SetEnv sets the environment to sensible test defaults. Port is required because each test must use a unique
// port to avoid collisions.
//
// Defaults:
//   - MDSERVE_SERVICE_NAME: "test"
//   - MDSERVE_READINESS_CHECK_PATH: "/healthz"
//   - MDSERVE_REQUEST_TIMEOUT: "30s"
//   - MDSERVE_LOG_LEVEL: "error"
//   - AWS_REGION: "us-east-1"
//   - OTEL_SDK_DISABLED: "true"
//   - AWS_ACCESS_KEY_ID: "test"
//   - AWS_SECRET_ACCESS_KEY: "test"
func SetEnv(t testing.TB, port int) *Env {
	t.Helper()
	t.Setenv("MDSERVE_PORT", strconv.Itoa(port))
	t.Setenv("MDSERVE_SERVICE_NAME", "test")
	t.Setenv("MDSERVE_READINESS_CHECK_PATH", "/healthz")
	t.Setenv("MDSERVE_REQUEST_TIMEOUT", "30s")
	t.Setenv("MDSERVE_LOG_LEVEL", "error")
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("OTEL_SDK_DISABLED", "true")
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	return &Env{t: t}
}

// ServiceName overrides MDSERVE_SERVICE_NAME.
func (e *Env) ServiceName(name string) *Env {
	e.t.Helper()
	e.t.Setenv("MDSERVE_SERVICE_NAME", name)
	return e
}

// ReadinessCheckPath overrides MDSERVE_READINESS_CHECK_PATH.
func (e *Env) ReadinessCheckPath(path string) *Env {
	e.t.Helper()
	e.t.Setenv("MDSERVE_READINESS_CHECK_PATH", path)
	return e
}

// DocumentRoot overrides MDSERVE_DOCUMENT_ROOT.
func (e *Env) DocumentRoot(dir string) *Env {
	e.t.Helper()
	e.t.Setenv("MDSERVE_DOCUMENT_ROOT", dir)
	return e
}

// ConfigFile overrides MDSERVE_CONFIG_FILE.
func (e *Env) ConfigFile(path string) *Env {
	e.t.Helper()
	e.t.Setenv("MDSERVE_CONFIG_FILE", path)
	return e
}

// RequestTimeout overrides MDSERVE_REQUEST_TIMEOUT.
func (e *Env) RequestTimeout(d string) *Env {
	e.t.Helper()
	e.t.Setenv("MDSERVE_REQUEST_TIMEOUT", d)
	return e
}
