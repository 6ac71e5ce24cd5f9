package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"fuatilia.org/internal/config"
)

// Object is a stored file returned by List.
type Object struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Client wraps the S3 API for document storage. Works against AWS and any
// S3-compatible backend via BaseEndpoint.
type Client struct {
	s3      *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// New builds the storage client from service configuration.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if !cfg.S3Configured() {
		return nil, errors.New("filestore: S3 bucket and region are required")
	}
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})
	return &Client{
		s3:      api,
		presign: s3.NewPresignClient(api),
		bucket:  cfg.S3Bucket,
	}, nil
}

// Upload stores the body under key and returns the canonical object URL.
func (c *Client) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := c.s3.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("filestore: upload %s: %w", key, err)
	}
	return fmt.Sprintf("s3://%s/%s", c.bucket, key), nil
}

// Fetch returns the whole object body. The caller must close the reader.
func (c *Client) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("filestore: fetch %s: %w", key, err)
	}
	return out.Body, nil
}

// Stream returns a byte range of the object. startKB and stopKB are
// kilobyte offsets; stopKB of zero means "to the end".
func (c *Client) Stream(ctx context.Context, key string, startKB, stopKB int64) (io.ReadCloser, error) {
	if startKB < 0 || (stopKB > 0 && stopKB <= startKB) {
		return nil, errors.New("filestore: invalid byte range")
	}
	rng := fmt.Sprintf("bytes=%d-", startKB*1000)
	if stopKB > 0 {
		rng = fmt.Sprintf("bytes=%d-%d", startKB*1000, stopKB*1000)
	}
	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Range:  aws.String(rng),
	})
	if err != nil {
		return nil, fmt.Errorf("filestore: stream %s: %w", key, err)
	}
	return out.Body, nil
}

// List returns objects under the given key prefix.
func (c *Client) List(ctx context.Context, prefix string) ([]Object, error) {
	var result []Object
	paginator := s3.NewListObjectsV2Paginator(c.s3, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("filestore: list %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			o := Object{Key: aws.ToString(obj.Key)}
			if obj.Size != nil {
				o.Size = *obj.Size
			}
			if obj.LastModified != nil {
				o.LastModified = *obj.LastModified
			}
			result = append(result, o)
		}
	}
	return result, nil
}

// PresignGet returns a time-limited download URL for the object.
func (c *Client) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	if expires <= 0 {
		expires = 15 * time.Minute
	}
	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("filestore: presign %s: %w", key, err)
	}
	return req.URL, nil
}
