// Package mdapp runs the markdown pipeline as a complete HTTP service, optimized for the AWS Lambda Web Adapter
// but equally usable as a plain server.
//
// # Overview
//
// mdapp wires environment parsing, structured logging, OpenTelemetry tracing, the AWS SDK and graceful
// shutdown around one [mdserve.Pipeline] per configured location:
//
//	mdapp.NewApp(mdapp.WithDocumentRoot("/srv/md")).Run()
//
// # Environment Configuration
//
//	| Variable                        | Default  | Description                                         |
//	|---------------------------------|----------|-----------------------------------------------------|
//	| MDSERVE_PORT                    | 8080     | Port the HTTP server listens on                     |
//	| MDSERVE_SERVICE_NAME            | mdserve  | Service name for logging and tracing                |
//	| MDSERVE_READINESS_CHECK_PATH    | /healthz | Health check endpoint                               |
//	| MDSERVE_LOG_LEVEL               | info     | Log level (debug, info, warn, error)                |
//	| MDSERVE_OTEL_EXPORTER           | stdout   | Trace exporter: "stdout" or "xrayudp"               |
//	| MDSERVE_DOCUMENT_ROOT           | .        | Local directory with documents and styles           |
//	| MDSERVE_CONTENT_BUCKET          | -        | S3 bucket with documents and styles                 |
//	| MDSERVE_CONTENT_PREFIX          | -        | Key prefix inside the bucket                        |
//	| MDSERVE_CONTENT_REGION          | -        | Region of the bucket, defaults to AWS_REGION        |
//	| MDSERVE_CONFIG_FILE             | -        | YAML configuration document on disk                 |
//	| MDSERVE_CONFIG_PARAMETER        | -        | SSM parameter holding the configuration document    |
//	| MDSERVE_FETCH_SECRET_ID         | -        | Secret sent as bearer token with "url" fetches      |
//	| MDSERVE_FETCH_SECRET_PATH       | -        | gjson path inside a JSON secret                     |
//	| MDSERVE_FETCH_CONNECT_TIMEOUT   | 30s      | Connect timeout for "url" fetches                   |
//	| MDSERVE_REQUEST_TIMEOUT         | 30s      | Outer bound for serving a single request            |
//
// # Configuration Document
//
// The document holds the defaults of every location and the locations themselves:
//
//	defaults:
//	  extensions: [tables, fenced-code, autolink, strikethrough, footnotes]
//	  render: [toc, use-task-list]
//	  style: {path: style, name: default}
//	  match: [.md, .markdown]
//	locations:
//	  - prefix: /docs
//	    config: {style: {name: docs}}
//
// A location only overrides what it sets to a non-default value. Without a root location the defaults are
// also served on "/". All locations read from the same content root: "/docs/a.md" is the file "docs/a.md".
//
// # Request Context
//
// [Log] returns the request logger with trace ids attached, [Span] the current span and [LWA] the Lambda
// invocation context when running behind the adapter. Requests get a context deadline just before the
// invocation deadline, see [WithRequestDeadline].
package mdapp
