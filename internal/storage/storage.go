package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/yashrajoria/catalog-service/internal/errors"
)

// UploadPath is the public URL prefix under which locally stored images are
// served.
const UploadPath = "/public/uploads"

// allowedTypes maps accepted image mime types to file extensions.
var allowedTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
}

var ErrInvalidImageType = apperrors.WithMessage(apperrors.ErrValidation, "Invalid image type")

// Upload is one image received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ImageStore persists product images and returns their public URL. baseURL
// is the scheme and host the request arrived on.
type ImageStore interface {
	Save(ctx context.Context, up Upload, baseURL string) (string, error)
}

// Extension returns the file extension for contentType, or an
// ErrInvalidImageType when the type is not an accepted image.
func Extension(contentType string) (string, error) {
	ext, ok := allowedTypes[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", ErrInvalidImageType
	}
	return ext, nil
}

// ObjectName derives the stored name from the original base name with spaces
// replaced by dashes, a millisecond timestamp, id and the extension implied
// by the content type. id keeps same-named uploads in one millisecond apart.
func ObjectName(original, contentType string, now time.Time, id string) (string, error) {
	ext, err := Extension(contentType)
	if err != nil {
		return "", err
	}
	base := filepath.Base(original)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Join(strings.Fields(base), "-")
	if base == "" || base == "." {
		base = "image"
	}
	return fmt.Sprintf("%s-%d-%s.%s", base, now.UnixMilli(), id, ext), nil
}
