// Copyright (c) 2026 Lerian Studio. All rights reserved.
// Use of this source code is governed by the Elastic License 2.0
// that can be found in the LICENSE file.

package s3storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// NDJSONContentType is the media type snapshots are stored with.
const NDJSONContentType = "application/x-ndjson"

// SnapshotStore provides an interface for snapshot object operations.
//
//go:generate mockgen --destination=client.mock.go --package=s3storage --copyright_file=../../../COPYRIGHT . SnapshotStore
type SnapshotStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	HealthCheck(ctx context.Context) error
}

// S3Client provides S3 storage operations for sync snapshots
type S3Client struct {
	client *s3.Client
	bucket string
}

// Compile-time interface satisfaction check.
var _ SnapshotStore = (*S3Client)(nil)

// S3Config holds AWS S3 specific configuration
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	ForcePathStyle  bool
}

// NewS3Client creates a new S3 client with the given configuration
func NewS3Client(cfg *S3Config) (*S3Client, error) {
	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Custom endpoint covers MinIO, LocalStack and friends
	var s3Client *s3.Client
	if cfg.Endpoint != "" {
		s3Client = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.ForcePathStyle
		})
	} else {
		s3Client = s3.NewFromConfig(awsConfig)
	}

	return &S3Client{
		client: s3Client,
		bucket: cfg.Bucket,
	}, nil
}

// SnapshotKey builds the object key of one sync's snapshot.
func SnapshotKey(feedID, syncID uuid.UUID) string {
	return fmt.Sprintf("feeds/%s/snapshots/%s.ndjson", feedID.String(), syncID.String())
}

// Upload stores an object under key with the given content type.
func (c *S3Client) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}

	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	_, err := c.client.PutObject(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to upload object to S3: %w", err)
	}

	return nil
}

// Download retrieves an object by key.
func (c *S3Client) Download(ctx context.Context, key string) ([]byte, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}

	result, err := c.client.GetObject(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to download object from S3: %w", err)
	}

	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}

	return data, nil
}

// Delete removes an object by key.
func (c *S3Client) Delete(ctx context.Context, key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}

	_, err := c.client.DeleteObject(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to delete object from S3: %w", err)
	}

	return nil
}

// HealthCheck verifies if S3 is accessible
func (c *S3Client) HealthCheck(ctx context.Context) error {
	input := &s3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	}

	_, err := c.client.HeadBucket(ctx, input)
	if err != nil {
		return fmt.Errorf("S3 health check failed: %w", err)
	}

	return nil
}
