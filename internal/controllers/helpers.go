package controllers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/yashrajoria/catalog-service/internal/errors"
	"github.com/yashrajoria/catalog-service/internal/storage"
)

// IDHeader carries the target id on PUT/DELETE routes that have no path id.
const IDHeader = "id"

var ErrInvalidBody = apperrors.WithMessage(apperrors.ErrValidation, "Invalid request body")

// fail hands err to the error middleware and stops the handler chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// idFromHeader returns the id header or records a 400 naming the resource.
func idFromHeader(c *gin.Context, resource string) (string, bool) {
	id := strings.TrimSpace(c.GetHeader(IDHeader))
	if id == "" {
		fail(c, apperrors.WithMessage(apperrors.ErrValidation, resource+" ID is required in headers"))
		return "", false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		zap.L().Debug("request body rejected", zap.String("path", c.FullPath()), zap.Error(err))
		fail(c, apperrors.Wrap(ErrInvalidBody, err))
		return false
	}
	return true
}

// baseURL is the scheme://host the client used to reach us. Uploaded images
// are addressed relative to it.
func baseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	return scheme + "://" + c.Request.Host
}

// uploads opens every multipart file and returns a closer for all of them.
func uploads(headers []*multipart.FileHeader) ([]storage.Upload, func(), error) {
	out := make([]storage.Upload, 0, len(headers))
	files := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, apperrors.Wrap(ErrInvalidBody, err)
		}
		files = append(files, f)
		out = append(out, storage.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}
	return out, closeAll, nil
}

// singleUpload opens the file under field, if one was sent.
func singleUpload(c *gin.Context, field string) (*storage.Upload, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, func() {}, nil
		}
		return nil, func() {}, apperrors.Wrap(ErrInvalidBody, err)
	}
	ups, closeAll, err := uploads([]*multipart.FileHeader{fh})
	if err != nil {
		return nil, closeAll, err
	}
	return &ups[0], closeAll, nil
}

// galleryUploads opens every file sent under field. A request that is not
// multipart has no gallery.
func galleryUploads(c *gin.Context, field string) ([]storage.Upload, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		if err == http.ErrNotMultipart {
			return nil, func() {}, nil
		}
		return nil, func() {}, apperrors.Wrap(ErrInvalidBody, err)
	}
	return uploads(form.File[field])
}
