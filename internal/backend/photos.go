package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSPhotoStore stores candidate photos in a Cloud Storage bucket and serves
// them through the bucket's public URL space.
type GCSPhotoStore struct {
	client *storage.Client
	bucket string
}

var _ PhotoStore = (*GCSPhotoStore)(nil)

func NewGCSPhotoStore(ctx context.Context, bucket, credentialsFile string) (*GCSPhotoStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error connecting to storage: %w", err)
	}

	return &GCSPhotoStore{client: client, bucket: bucket}, nil
}

func (s *GCSPhotoStore) Close() error {
	return s.client.Close()
}

func (s *GCSPhotoStore) publicURL(objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, objectPath)
}

// objectPath reverses publicURL. An empty result means the URL does not point
// into this bucket.
func (s *GCSPhotoStore) objectPath(url string) string {
	prefix := fmt.Sprintf("https://storage.googleapis.com/%s/", s.bucket)
	if !strings.HasPrefix(url, prefix) {
		return ""
	}
	return strings.TrimPrefix(url, prefix)
}

func (s *GCSPhotoStore) Upload(ctx context.Context, objectPath string, data []byte, contentType string) (string, error) {
	w := s.client.Bucket(s.bucket).Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("error uploading photo: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("error uploading photo: %w", err)
	}

	return s.publicURL(objectPath), nil
}

// Delete removes the blob behind the given URL. URLs from other buckets and
// already-deleted objects are ignored so candidate cleanup stays idempotent.
func (s *GCSPhotoStore) Delete(ctx context.Context, url string) error {
	path := s.objectPath(url)
	if path == "" {
		return nil
	}

	err := s.client.Bucket(s.bucket).Object(path).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("error deleting photo: %w", err)
	}
	return nil
}
