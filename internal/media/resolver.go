// Package media resolves stored image locations into URLs that consumers of
// a selection result can fetch, presigning object storage keys.
package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Resolver presigns GET URLs for image objects stored in an S3-compatible
// bucket. Locations that are already absolute http(s) URLs pass through
// untouched.
type Resolver struct {
	presignClient *s3.PresignClient
	bucketName    string
	urlExpiry     time.Duration
}

// ResolverConfig holds configuration for the media resolver.
type ResolverConfig struct {
	BucketName       string
	AccessKeyID      string
	SecretAccessKey  string
	Endpoint         string
	URLExpiryMinutes int // Default: 15 minutes
}

// NewResolver creates a media resolver with the given configuration.
func NewResolver(cfg ResolverConfig) (*Resolver, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("bucket name is required")
	}
	if cfg.AccessKeyID == "" {
		return nil, errors.New("access key ID is required")
	}
	if cfg.SecretAccessKey == "" {
		return nil, errors.New("secret access key is required")
	}
	if cfg.Endpoint == "" {
		return nil, errors.New("endpoint is required")
	}

	if cfg.URLExpiryMinutes <= 0 {
		cfg.URLExpiryMinutes = 15
	}

	// S3-compatible stores like R2 want path-style addressing and a fixed
	// region.
	s3Client := s3.New(s3.Options{
		Region: "auto",
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		BaseEndpoint: aws.String(cfg.Endpoint),
		UsePathStyle: true,
	})

	return &Resolver{
		presignClient: s3.NewPresignClient(s3Client),
		bucketName:    cfg.BucketName,
		urlExpiry:     time.Duration(cfg.URLExpiryMinutes) * time.Minute,
	}, nil
}

// Resolve returns a fetchable URL for a stored image location. Object keys
// are presigned for GET; absolute URLs are returned as-is.
func (r *Resolver) Resolve(ctx context.Context, imageURL string) (string, error) {
	if imageURL == "" {
		return "", errors.New("image url is empty")
	}
	if strings.HasPrefix(imageURL, "http://") || strings.HasPrefix(imageURL, "https://") {
		return imageURL, nil
	}

	key := strings.TrimPrefix(imageURL, "/")
	presigned, err := r.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucketName),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = r.urlExpiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign request: %w", err)
	}
	return presigned.URL, nil
}

// NoopResolver returns stored locations unchanged. Used when object storage
// is not configured, for example in local development.
type NoopResolver struct{}

// Resolve returns imageURL unchanged.
func (NoopResolver) Resolve(_ context.Context, imageURL string) (string, error) {
	return imageURL, nil
}
