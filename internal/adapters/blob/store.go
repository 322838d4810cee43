package blob

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/supriyo522/event-api-backend/internal/domain"
)

// Provider names accepted by NewStore.
const (
	ProviderDisk = "disk"
	ProviderS3   = "s3"
	ProviderGCS  = "gcs"
)

// DiskConfig holds configuration for the local filesystem store.
type DiskConfig struct {
	Dir       string
	URLPrefix string
}

// S3Config holds configuration for an S3 (or S3-compatible) bucket.
type S3Config struct {
	Region          string
	Bucket          string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	PublicBaseURL   string
}

// GCSConfig holds configuration for a Google Cloud Storage bucket.
type GCSConfig struct {
	Bucket          string
	Prefix          string
	CredentialsFile string
}

// StoreConfig selects and configures a BlobStore.
type StoreConfig struct {
	Provider string
	Disk     DiskConfig
	S3       S3Config
	GCS      GCSConfig
}

// NewStore creates a BlobStore from config. An empty provider means "disk".
func NewStore(ctx context.Context, config StoreConfig) (domain.BlobStore, error) {
	switch strings.ToLower(config.Provider) {
	case "", ProviderDisk:
		return NewDiskStore(config.Disk)
	case ProviderS3:
		return NewS3Store(config.S3)
	case ProviderGCS:
		return NewGCSStore(ctx, config.GCS)
	default:
		return nil, fmt.Errorf("unknown blob provider %q", config.Provider)
	}
}

// objectKey joins an optional prefix with the base name of a stored path.
func objectKey(prefix, storedPath string) string {
	name := path.Base(storedPath)
	if prefix == "" {
		return name
	}
	return strings.TrimSuffix(prefix, "/") + "/" + name
}
