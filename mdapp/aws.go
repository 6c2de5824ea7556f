package mdapp

import (
	"context"
	"io"
	"io/fs"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/advdv/mdserve"
)

const awsConfigTimeout = 10 * time.Second

// NewAWSConfig loads the default AWS SDK v2 configuration, pinned to region when it is not empty.
func NewAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return cfg, errors.Wrap(err, "load aws config")
	}

	return cfg, nil
}

// provideAWSConfig loads the AWS config with a timeout and instruments it for tracing.
func provideAWSConfig(env Environment, tp trace.TracerProvider, prop propagation.TextMapPropagator) (aws.Config, error) {
	ctx, cancel := context.WithTimeout(context.Background(), awsConfigTimeout)
	defer cancel()

	cfg, err := NewAWSConfig(ctx, env.AWSRegion)
	if err != nil {
		return cfg, err
	}

	otelaws.AppendMiddlewares(&cfg.APIOptions,
		otelaws.WithTracerProvider(tp),
		otelaws.WithTextMapPropagator(prop),
	)
	return cfg, nil
}

// S3API is the part of the S3 client the content store uses.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3FS serves documents and styles from a bucket. Object keys are the cleaned names below an optional prefix.
type S3FS struct {
	client S3API
	bucket string
	prefix string
}

// NewS3FS inits a content store on the given bucket.
func NewS3FS(client S3API, bucket, prefix string) *S3FS {
	return &S3FS{client: client, bucket: bucket, prefix: prefix}
}

// Open implements [mdserve.FileSystem]. Missing keys report [fs.ErrNotExist], denied access [fs.ErrPermission].
func (f *S3FS) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := path.Join(f.prefix, mdserve.CleanName(name))
	if key == "." || key == "" {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}

	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classifyS3Error(errors.Wrapf(err, "get s3://%s/%s", f.bucket, key))
	}

	return out.Body, nil
}

// classifyS3Error marks S3 failures with the file system errors the pipeline maps onto status codes.
func classifyS3Error(err error) error {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return errors.Mark(err, fs.ErrNotExist)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return errors.Mark(err, fs.ErrNotExist)
		case "AccessDenied", "Forbidden":
			return errors.Mark(err, fs.ErrPermission)
		}
	}

	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.HTTPStatusCode() {
		case 404:
			return errors.Mark(err, fs.ErrNotExist)
		case 403:
			return errors.Mark(err, fs.ErrPermission)
		}
	}

	return err
}

// provideFileSystem picks the content store: the bucket when one is configured, the document root otherwise.
func provideFileSystem(env Environment, cfg aws.Config) mdserve.FileSystem {
	if env.ContentBucket == "" {
		return mdserve.DirFS(env.DocumentRoot)
	}

	bucketCfg := cfg.Copy()
	if env.ContentRegion != "" {
		bucketCfg.Region = env.ContentRegion
	}

	return NewS3FS(s3.NewFromConfig(bucketCfg), env.ContentBucket, env.ContentPrefix)
}

// SSMAPI is the part of the SSM client the configuration loader uses.
type SSMAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// LoadParameter reads a (possibly encrypted) parameter from the Parameter Store.
func LoadParameter(ctx context.Context, client SSMAPI, name string) ([]byte, error) {
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "get parameter %q", name)
	}

	if out.Parameter == nil {
		return nil, errors.Newf("parameter %q has no value", name)
	}

	return []byte(aws.ToString(out.Parameter.Value)), nil
}

var _ mdserve.FileSystem = &S3FS{}
