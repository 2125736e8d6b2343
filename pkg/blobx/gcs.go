package blobx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStore writes blobs to a Cloud Storage bucket. Objects are expected to be
// publicly readable through the bucket policy; publicURL is the prefix they
// are served from.
type GCSStore struct {
	client    *storage.Client
	bucket    string
	publicURL string
}

func NewGCSStore(ctx context.Context, bucket, publicURL string, opts ...option.ClientOption) (*GCSStore, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("blobx: gcs client: %w", err)
	}
	if publicURL == "" {
		publicURL = "https://storage.googleapis.com/" + bucket
	}
	return &GCSStore{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

func (s *GCSStore) Put(ctx context.Context, prefix, ext, contentType string, r io.Reader) (Object, error) {
	key := NewKey(prefix, ext)

	w := s.client.Bucket(s.bucket).Object(key).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"

	n, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return Object{}, fmt.Errorf("blobx: gcs write: %w", err)
	}
	if err := w.Close(); err != nil {
		return Object{}, fmt.Errorf("blobx: gcs close: %w", err)
	}

	return Object{
		Key:         key,
		URL:         s.publicURL + "/" + key,
		ContentType: contentType,
		Size:        n,
	}, nil
}

func (s *GCSStore) Delete(ctx context.Context, key string) error {
	if !validKey(key) {
		return ErrInvalidKey
	}
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("blobx: gcs delete: %w", err)
	}
	return nil
}

func (s *GCSStore) KeyFromURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, s.publicURL+"/")
	if !ok || !validKey(key) {
		return "", false
	}
	return key, true
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
