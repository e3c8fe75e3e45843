package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"storagebox/internal/config"
)

var (
	// ErrBucketMissing means the configured bucket does not exist.
	ErrBucketMissing = errors.New("s3 bucket does not exist")
	// ErrAccessDenied means the credentials cannot write to the bucket.
	ErrAccessDenied = errors.New("access denied to s3 bucket")
	// ErrConnection covers transport-level failures before any S3 response.
	ErrConnection = errors.New("s3 connection error")
)

// Client wraps the remote blob store. One network round trip per call, no
// retries; a failed attempt surfaces immediately.
type Client struct {
	api      *s3.Client
	uploader *manager.Uploader
	bucket   string
}

func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	opts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	awsConf, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	api := s3.NewFromConfig(awsConf)
	return &Client{
		api:      api,
		uploader: manager.NewUploader(api),
		bucket:   cfg.AWSS3Bucket,
	}, nil
}

// PutObject writes the blob under key with server-side encryption.
func (c *Client) PutObject(ctx context.Context, key, contentType string, data []byte) error {
	_, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:               aws.String(c.bucket),
		Key:                  aws.String(key),
		Body:                 bytes.NewReader(data),
		ContentType:          aws.String(contentType),
		ServerSideEncryption: types.ServerSideEncryptionAes256,
	})
	if err != nil {
		return classifyError(err)
	}
	return nil
}

func (c *Client) DeleteObject(ctx context.Context, key string) error {
	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return classifyError(err)
	}
	return nil
}

// ListKeys returns every object key in the bucket. Used by the
// reconciliation sweep.
func (c *Client) ListKeys(ctx context.Context) ([]string, error) {
	var keys []string

	paginator := s3.NewListObjectsV2Paginator(c.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, classifyError(err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}

// HeadBucket probes bucket reachability. All errors collapse into false.
func (c *Client) HeadBucket(ctx context.Context) bool {
	_, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	})
	return err == nil
}

// classifyError maps an SDK failure onto the storage error taxonomy. API
// errors carry a service code; anything else never reached S3.
func classifyError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchBucket", "NotFound":
			return fmt.Errorf("%w: %s", ErrBucketMissing, apiErr.ErrorCode())
		case "AccessDenied":
			return fmt.Errorf("%w: %s", ErrAccessDenied, apiErr.ErrorCode())
		}
		return fmt.Errorf("s3 error: %w", err)
	}
	return fmt.Errorf("%w: %v", ErrConnection, err)
}
