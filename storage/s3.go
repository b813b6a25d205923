package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	appconfig "imobiliaria-backend/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Storage implements Storage on AWS S3. Unlike the local backend it
// validates content type and size before accepting an upload.
type S3Storage struct {
	client  *s3.Client
	bucket  string
	region  string
	maxSize int64
}

// NewS3Storage creates a new S3 storage instance
func NewS3Storage(cfg appconfig.StorageConfig) (*S3Storage, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET is required for s3 storage")
	}

	ctx := context.Background()

	var awsCfg aws.Config
	var err error

	if cfg.AWSAccessKey != "" && cfg.AWSSecretKey != "" {
		awsCfg, err = config.LoadDefaultConfig(ctx,
			config.WithRegion(cfg.S3Region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AWSAccessKey,
				cfg.AWSSecretKey,
				"",
			)),
		)
	} else {
		// Default credentials (environment, IAM role, etc.)
		awsCfg, err = config.LoadDefaultConfig(ctx,
			config.WithRegion(cfg.S3Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Storage{
		client:  s3.NewFromConfig(awsCfg),
		bucket:  cfg.S3Bucket,
		region:  cfg.S3Region,
		maxSize: cfg.MaxUploadSize,
	}, nil
}

// Upload validates and stores an image in S3, returning its public URL.
func (s *S3Storage) Upload(ctx context.Context, imovelID uuid.UUID, filename, contentType string, size int64, data io.Reader) (string, error) {
	if err := validateImage(contentType, size, s.maxSize); err != nil {
		return "", err
	}

	key := fmt.Sprintf("imoveis/%s/%s", imovelID.String(), generateFilename(filename))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        data,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

// Delete removes the object behind a previously returned URL
func (s *S3Storage) Delete(ctx context.Context, imageURL string) error {
	prefix := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.bucket, s.region)
	key := strings.TrimPrefix(imageURL, prefix)
	if key == imageURL {
		return fmt.Errorf("not an s3 url for bucket %s: %s", s.bucket, imageURL)
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

// validateImage enforces the content-type allow-list and size ceiling.
func validateImage(contentType string, size, maxSize int64) error {
	if !allowedImageTypes[contentType] {
		return ErrInvalidContentType
	}
	if maxSize > 0 && size > maxSize {
		return ErrFileTooLarge
	}
	return nil
}
