package blob

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/supriyo522/event-api-backend/internal/domain"
)

type gcsStore struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSStore returns a BlobStore backed by a GCS bucket. If CredentialsFile
// is empty, Application Default Credentials are used.
func NewGCSStore(ctx context.Context, config GCSConfig) (domain.BlobStore, error) {
	if config.Bucket == "" {
		return nil, errors.New("gcs store: bucket is required")
	}
	var opts []option.ClientOption
	if config.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(config.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs store: new client: %w", err)
	}
	return &gcsStore{client: client, bucket: config.Bucket, prefix: config.Prefix}, nil
}

func (s *gcsStore) Store(ctx context.Context, r io.Reader, name, contentType string) (string, error) {
	key := objectKey(s.prefix, name)
	wc := s.client.Bucket(s.bucket).Object(key).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // single request for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("gcs store: write object: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("gcs store: close writer: %w", err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key), nil
}

func (s *gcsStore) Delete(ctx context.Context, storedPath string) error {
	err := s.client.Bucket(s.bucket).Object(objectKey(s.prefix, storedPath)).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("gcs store: delete object: %w", err)
	}
	return nil
}
