package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/supriyo522/event-api-backend/internal/domain"
)

// s3API is the subset of the S3 client used by s3Store.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type s3Store struct {
	client        s3API
	bucket        string
	prefix        string
	publicBaseURL string
}

// NewS3Store returns a BlobStore that puts objects into an S3 bucket. A custom
// Endpoint (MinIO, LocalStack) switches the client to path-style addressing.
func NewS3Store(config S3Config) (domain.BlobStore, error) {
	if config.Bucket == "" {
		return nil, errors.New("s3 store: bucket is required")
	}
	awsCfg := aws.Config{
		Region: config.Region,
	}
	if config.AccessKeyID != "" {
		awsCfg.Credentials = aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				"",
			),
		)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		if config.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Endpoint)
			o.UsePathStyle = true
		}
	})
	base := config.PublicBaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", config.Bucket, config.Region)
	}
	return &s3Store{
		client:        client,
		bucket:        config.Bucket,
		prefix:        config.Prefix,
		publicBaseURL: strings.TrimSuffix(base, "/"),
	}, nil
}

func (s *s3Store) Store(ctx context.Context, r io.Reader, name, contentType string) (string, error) {
	// Banners are size-capped upstream; buffering gives the SDK a seekable body.
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("s3 store: read body: %w", err)
	}
	key := objectKey(s.prefix, name)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 store: put object: %w", err)
	}
	return s.publicBaseURL + "/" + key, nil
}

func (s *s3Store) Delete(ctx context.Context, storedPath string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(s.prefix, storedPath)),
	})
	if err != nil {
		return fmt.Errorf("s3 store: delete object: %w", err)
	}
	return nil
}
