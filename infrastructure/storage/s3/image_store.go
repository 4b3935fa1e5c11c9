// Package s3 implements the profile image store on Amazon S3.
package s3

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"flock-backend/application/ports"
)

// API is the slice of the S3 client the image store uses.
type API interface {
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *awss3.DeleteObjectInput, optFns ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error)
}

// ImageStore implements ports.ImageStore on an S3 bucket with a public
// read policy.
type ImageStore struct {
	client API
	bucket string
	region string
	logger *zap.Logger
}

// NewImageStore creates an image store.
func NewImageStore(client API, bucket, region string, logger *zap.Logger) ports.ImageStore {
	return &ImageStore{
		client: client,
		bucket: bucket,
		region: region,
		logger: logger,
	}
}

// Put stores a profile image and returns its public URL. One object per
// alias, so re-uploading replaces the previous avatar.
func (s *ImageStore) Put(ctx context.Context, alias string, data []byte, contentType string) (string, error) {
	key := objectKey(alias)

	input := &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		s.logger.Error("Failed to store profile image", zap.Error(err), zap.String("alias", alias))
		return "", fmt.Errorf("failed to store profile image: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

// Delete removes a profile image.
func (s *ImageStore) Delete(ctx context.Context, alias string) error {
	input := &awss3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(alias)),
	}

	if _, err := s.client.DeleteObject(ctx, input); err != nil {
		return fmt.Errorf("failed to delete profile image: %w", err)
	}

	return nil
}

func objectKey(alias string) string {
	return fmt.Sprintf("profile-images/%s", alias)
}
