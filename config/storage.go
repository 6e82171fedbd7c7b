package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the S3 client and where uploaded images are publicly served from
type S3Config struct {
	Client     *s3.Client
	BucketName string
	Region     string
	// PublicURL prefixes object keys in stored image URLs, without trailing slash
	PublicURL string
}

// NewS3Config initializes the S3 client for the configured media bucket.
// S3_ENDPOINT targets an S3-compatible server such as MinIO with path-style addressing.
func NewS3Config(ctx context.Context, cfg *Config) (*S3Config, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Config{
		Client:     client,
		BucketName: cfg.S3Bucket,
		Region:     awsCfg.Region,
		PublicURL:  S3PublicURL(cfg),
	}, nil
}

// S3PublicURL picks the base URL of stored objects: S3_PUBLIC_URL when set (a CDN
// for instance), the custom endpoint otherwise, else the bucket's AWS host.
func S3PublicURL(cfg *Config) string {
	switch {
	case cfg.S3PublicURL != "":
		return strings.TrimRight(cfg.S3PublicURL, "/")
	case cfg.S3Endpoint != "":
		return strings.TrimRight(cfg.S3Endpoint, "/") + "/" + cfg.S3Bucket
	default:
		return fmt.Sprintf("https://%s.s3.amazonaws.com", cfg.S3Bucket)
	}
}
