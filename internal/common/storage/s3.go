// Package storage uploads application packages to S3 and returns the public
// URL the review tooling links to.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	commonaws "lending-workers/internal/common/aws"
)

// S3API is the subset of the S3 client used here, kept narrow for mocking.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Store struct {
	client        S3API
	bucket        string
	publicBaseURL string
}

// NewS3Store creates an S3-backed document store.
func NewS3Store(ctx context.Context, region, bucket, publicBaseURL string) (*S3Store, error) {
	cfg, err := commonaws.LoadConfig(ctx, region)
	if err != nil {
		return nil, err
	}
	return &S3Store{
		client:        s3.NewFromConfig(cfg),
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// NewS3StoreWithClient wires an existing client, used by tests.
func NewS3StoreWithClient(client S3API, bucket, publicBaseURL string) *S3Store {
	return &S3Store{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Upload stores the document under a collision-free key derived from the
// filename and returns its public URL.
func (s *S3Store) Upload(ctx context.Context, filename, contentType string, body []byte) (string, error) {
	key := fmt.Sprintf("packages/%s-%s", uuid.New().String(), filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}

	return fmt.Sprintf("%s/%s", s.publicBaseURL, key), nil
}
