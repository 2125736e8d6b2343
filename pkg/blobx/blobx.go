// Package blobx stores uploaded files (sponsor logos) on local disk or in a
// Google Cloud Storage bucket and hands back the public URL.
package blobx

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("blobx: object not found")
	ErrInvalidKey = errors.New("blobx: invalid object key")
)

// Object describes a stored blob.
type Object struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
}

// Store persists blobs. Keys are generated by the store; callers pass a
// folder prefix and a file extension only.
type Store interface {
	Put(ctx context.Context, prefix, ext, contentType string, r io.Reader) (Object, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL maps a URL previously returned by Put back to its key.
	KeyFromURL(url string) (string, bool)
}

// NewKey returns "<prefix>/<uuid><ext>".
func NewKey(prefix, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path.Join(strings.Trim(prefix, "/"), uuid.NewString()+strings.ToLower(ext))
}

// validKey rejects absolute keys and anything that climbs out of the root.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return false
	}
	clean := path.Clean(key)
	return clean == key && clean != "." && !strings.HasPrefix(clean, "../") && clean != ".."
}
