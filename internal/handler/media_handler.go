package handler

import (
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/fsrsite/internal/apperr"
	"github.com/fsrsite/internal/db"
	"github.com/gin-gonic/gin"
)

var (
	errNoFileUploaded = apperr.BadRequest("No file was uploaded.", "FILE_MISSING")
	errMediaPath      = apperr.BadRequest("Path is required", "PATH_REQUIRED")
)

// ListMedia returns the live media of the FSR.
func (a *API) ListMedia(c *gin.Context) {
	items, err := a.media.List(c.Request.Context(), currentFSR(c).Slug)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetMediaInfo returns the metadata of one media item.
func (a *API) GetMediaInfo(c *gin.Context) {
	mediaPath := c.Param("path")
	if mediaPath == "" {
		respondError(c, errMediaPath)
		return
	}
	media, err := a.media.Get(c.Request.Context(), currentFSR(c).Slug, mediaPath)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, media)
}

// GetMediaContent streams media bytes with the stored MIME type.
func (a *API) GetMediaContent(c *gin.Context) {
	mediaPath := c.Param("path")
	if mediaPath == "" {
		respondError(c, errMediaPath)
		return
	}
	rc, media, err := a.media.Open(c.Request.Context(), currentFSR(c).Slug, mediaPath)
	if err != nil {
		respondError(c, err)
		return
	}
	defer rc.Close()

	disposition := "inline"
	if !inlineSafe(media.MimeType) {
		// Anything a browser could execute is downloaded, never rendered on our origin.
		disposition = "attachment"
		c.Header("Content-Security-Policy", "sandbox")
	}
	extra := map[string]string{
		"Content-Disposition": disposition + "; filename=" + strconv.Quote(media.Name),
	}
	c.DataFromReader(http.StatusOK, media.Size, media.MimeType, rc, extra)
}

// inlineSafe reports whether mimeType can be rendered in the browser without
// running script.
func inlineSafe(mimeType string) bool {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return false
	}
	switch {
	case mediaType == "image/svg+xml":
		return false
	case strings.HasPrefix(mediaType, "image/"),
		strings.HasPrefix(mediaType, "video/"),
		strings.HasPrefix(mediaType, "audio/"),
		mediaType == "application/pdf":
		return true
	default:
		return false
	}
}

// UploadMedia stores every file sent as "file". One file yields the created
// item, several yield a list.
func (a *API) UploadMedia(c *gin.Context) {
	if !isMultipart(c) {
		respondError(c, errNoFileUploaded)
		return
	}
	files, err := formFiles(c, "file")
	if err != nil {
		respondError(c, err)
		return
	}
	if len(files) == 0 {
		respondError(c, errNoFileUploaded)
		return
	}

	fsr := currentFSR(c).Slug
	created := make([]*db.Media, 0, len(files))
	for _, header := range files {
		upload, file, err := openUpload(header)
		if err != nil {
			respondError(c, err)
			return
		}
		media, err := a.media.Create(c.Request.Context(), fsr, *upload)
		file.Close()
		if err != nil {
			respondError(c, err)
			return
		}
		created = append(created, media)
	}

	if len(created) == 1 {
		c.JSON(http.StatusCreated, created[0])
		return
	}
	c.JSON(http.StatusCreated, created)
}

// DeleteMedia soft-deletes one media item.
func (a *API) DeleteMedia(c *gin.Context) {
	mediaPath := c.Param("path")
	if mediaPath == "" {
		respondError(c, errMediaPath)
		return
	}
	if err := a.media.Delete(c.Request.Context(), currentFSR(c).Slug, mediaPath); err != nil {
		respondError(c, err)
		return
	}
	noContent(c)
}
