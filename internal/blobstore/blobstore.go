// Package blobstore fetches a blob by key, returning UTF-8 text or failing
// with a not-found signal distinct from other errors. The backing client is
// aws-sdk-go-v2's S3 client; the AzureStorage-named configuration keys are
// reinterpreted against that S3-shaped client rather than an Azure SDK (see
// DESIGN.md for why).
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/klauspost/compress/zstd"
)

// ErrNotFound is returned when a key does not exist in the backing store;
// callers surface this as a FILE_ERROR verdict rather than INTERNAL_ERROR.
var ErrNotFound = errors.New("blobstore: key not found")

// Fetcher resolves a blob key to UTF-8 text.
type Fetcher interface {
	Fetch(ctx context.Context, key string) (string, error)
}

// Config configures the S3-backed Fetcher, sourced from the
// AzureStorage:ConnectionString / AzureStorage:ContainerName configuration
// keys, reinterpreted as an S3 endpoint + bucket.
type Config struct {
	Endpoint string // AzureStorage:ConnectionString, reused as an S3 endpoint override; empty uses the SDK default resolver
	Bucket   string // AzureStorage:ContainerName
	Region   string
}

// S3Fetcher implements Fetcher against an S3-compatible object store.
type S3Fetcher struct {
	client *s3.Client
	bucket string
}

// NewS3Fetcher loads SDK credentials from the environment/instance profile
// and returns a ready Fetcher.
func NewS3Fetcher(ctx context.Context, cfg Config) (*S3Fetcher, error) {
	region := cfg.Region
	if region == "" {
		region = "eu-central-1"
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("blobstore: load AWS config: %w", err)
	}

	client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &S3Fetcher{client: client, bucket: cfg.Bucket}, nil
}

// Fetch downloads key from the bucket, transparently decompressing zstd
// content (by content-type or .zst extension), and returns it as UTF-8 text.
func (f *S3Fetcher) Fetch(ctx context.Context, key string) (string, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return "", fmt.Errorf("blobstore: fetch %s: %w", key, err)
	}
	defer out.Body.Close()

	var reader io.Reader = out.Body
	if isZstd(out.ContentType, key) {
		d, err := zstd.NewReader(out.Body)
		if err != nil {
			return "", fmt.Errorf("blobstore: zstd reader for %s: %w", key, err)
		}
		defer d.Close()
		reader = d
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("blobstore: read body of %s: %w", key, err)
	}
	return string(data), nil
}

func isZstd(contentType *string, key string) bool {
	if contentType != nil && *contentType == "application/zstd" {
		return true
	}
	return strings.HasSuffix(key, ".zst")
}

func isNoSuchKey(err error) bool {
	var apiErr interface{ ErrorCode() string }
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "NoSuchKey"
	}
	return false
}
