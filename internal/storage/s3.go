package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/logger"
)

// s3API is the subset of the S3 client used for media
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps recipe images and avatars in an S3 bucket
type S3Store struct {
	client    s3API
	bucket    string
	publicURL string
}

// NewS3Store creates a store writing to the configured bucket
func NewS3Store(cfg *config.S3Config) *S3Store {
	return &S3Store{client: cfg.Client, bucket: cfg.BucketName, publicURL: cfg.PublicURL}
}

func (s *S3Store) publicPrefix() string {
	return s.publicURL + "/"
}

// Save uploads data under key and returns its public URL
func (s *S3Store) Save(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url := s.publicPrefix() + key
	logger.Ctx(ctx).Debug().Str("url", url).Int("bytes", len(data)).Msg("uploaded image to S3")
	return url, nil
}

// Delete removes the object behind url. URLs outside the bucket are ignored.
func (s *S3Store) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.publicPrefix())
	if !ok || key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}
