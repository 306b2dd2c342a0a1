package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/fsrsite/internal/apperr"
	"github.com/fsrsite/internal/service"
	"github.com/gin-gonic/gin"
)

var errUploadTooLarge = apperr.BadRequest("Upload is too large", "UPLOAD_TOO_LARGE")

// LimitBody caps the request body of upload routes.
func (a *API) LimitBody() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.opts.UploadMaxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, a.opts.UploadMaxBytes)
		}
		c.Next()
	}
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// formFiles returns every file sent under field. A missing field is not an
// error; the caller decides whether files are required.
func formFiles(c *gin.Context, field string) ([]*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errUploadTooLarge
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperr.BadRequest("Invalid multipart body", "INVALID_BODY")
	}
	return form.File[field], nil
}

// openUpload opens header for reading. The caller closes the returned file.
func openUpload(header *multipart.FileHeader) (*service.Upload, multipart.File, error) {
	file, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	return &service.Upload{
		Name:     header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Size:     header.Size,
		Reader:   file,
	}, file, nil
}
