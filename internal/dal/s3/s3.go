package s3

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/corray333/backend-labs/shop/internal/config"
)

type api interface {
	PutObject(ctx context.Context, in *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	DeleteObject(
		ctx context.Context,
		in *awss3.DeleteObjectInput,
		optFns ...func(*awss3.Options),
	) (*awss3.DeleteObjectOutput, error)
}

// Client stores uploaded images in an S3 bucket and hands out their public URLs.
type Client struct {
	api     api
	bucket  string
	baseURL string
}

// MustNewClient creates a new S3 client. Static credentials are used when
// configured; otherwise the default AWS credential chain applies.
func MustNewClient(ctx context.Context, cfg config.S3) *Client {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to load aws config: %v", err))
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	slog.Info("S3 client configured", "bucket", cfg.Bucket, "region", cfg.Region)

	return newClient(client, cfg)
}

func newClient(api api, cfg config.S3) *Client {
	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &Client{
		api:     api,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
	}
}

// Put uploads the object and returns its public URL.
func (c *Client) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := c.api.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}

	return c.URLFor(key), nil
}

// Delete removes the object. Deleting a missing key is not an error.
func (c *Client) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	_, err := c.api.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}

	return nil
}

// URLFor returns the public URL of the key.
func (c *Client) URLFor(key string) string {
	return c.baseURL + "/" + key
}

// KeyFromURL returns the object key of a URL produced by URLFor. For foreign
// URLs the last path segment is returned.
func (c *Client) KeyFromURL(url string) string {
	if key, ok := strings.CutPrefix(url, c.baseURL+"/"); ok {
		return key
	}
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}

	return url
}
