package services

import (
	"fmt"
	"mime"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/oklog/ulid/v2"
	"github.com/supriyo522/event-api-backend/internal/domain"
)

// allowedImageType matches the subtype of accepted banner content types.
var allowedImageType = regexp.MustCompile(`/(jpg|jpeg|png)$`)

type uploadValidator struct {
	newID func() string
}

// NewUploadValidator returns an UploadValidator naming files banner-<ULID><ext>.
// ULIDs sort by creation time and carry 80 random bits.
func NewUploadValidator() domain.UploadValidator {
	return &uploadValidator{newID: func() string { return ulid.Make().String() }}
}

func (v *uploadValidator) Validate(file *domain.Upload) (string, error) {
	if file == nil {
		return "", nil
	}
	contentType := strings.ToLower(strings.TrimSpace(file.ContentType))
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mt
	}
	if !allowedImageType.MatchString(contentType) {
		return "", fmt.Errorf("%w: %q, only jpg, jpeg and png images are allowed", domain.ErrUnsupportedMediaType, file.ContentType)
	}
	return "banner-" + v.newID() + bannerExt(contentType, file.Filename), nil
}

// bannerExt derives the stored extension from the accepted content type. A
// client ".jpeg" is kept for jpeg uploads.
func bannerExt(contentType, filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if strings.HasSuffix(contentType, "/png") {
		return ".png"
	}
	if ext == ".jpeg" {
		return ext
	}
	return ".jpg"
}
