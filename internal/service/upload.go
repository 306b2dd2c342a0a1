package service

import (
	"bytes"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Upload is a file received from a client.
type Upload struct {
	Name     string
	MimeType string
	Size     int64
	Reader   io.Reader
}

const sniffLen = 3072

// sniff peeks at the first bytes of r and returns the detected MIME type
// together with a reader that still yields the full body.
func sniff(r io.Reader) (*mimetype.MIME, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, nil, err
	}
	head = head[:n]
	return mimetype.Detect(head), io.MultiReader(bytes.NewReader(head), r), nil
}

// resolveMimeType trusts the client supplied type unless it is missing or
// the generic octet-stream.
func resolveMimeType(declared string, detected *mimetype.MIME) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return detected.String()
}

var unsafeFileNameChars = regexp.MustCompile(`[^a-z0-9._-]+`)

// safeFileName lowercases name and replaces anything outside [a-z0-9._-].
func safeFileName(name string) string {
	base := strings.ToLower(path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")))
	base = unsafeFileNameChars.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-.")
	if base == "" {
		return "file"
	}
	return base
}

// withSuffix inserts -suffix before the extension: photo.jpg -> photo-7.jpg.
func withSuffix(name, suffix string) string {
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if stem == "" {
		return name + "-" + suffix
	}
	return stem + "-" + suffix + ext
}
