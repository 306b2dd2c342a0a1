// Package content stores page bodies, media bytes and logos outside the
// database, addressed by slash-separated relative keys.
package content

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var (
	ErrNotExist   = errors.New("content does not exist")
	ErrInvalidKey = errors.New("invalid content key")
)

// Store is the side storage used for everything that is not a database row.
type Store interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Write(ctx context.Context, key string, r io.Reader) error
	Rename(ctx context.Context, from, to string) error
	Delete(ctx context.Context, key string) error
}

// Well-known key prefixes.
const (
	PagesPrefix        = "pages"
	MediaPrefix        = "media"
	DeletedMediaPrefix = "media/deleted"
	LogosPrefix        = "logos"
)

// CleanKey normalises key and rejects absolute keys and keys escaping the root.
func CleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

// WriteString is a convenience for small text bodies.
func WriteString(ctx context.Context, s Store, key, body string) error {
	return s.Write(ctx, key, strings.NewReader(body))
}
