package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// ErrBlobNotFound is returned when a delete targets an object that is no
// longer in the bucket. Callers treat it as an already-done delete.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore is the photo object store. Objects are addressed by bucket path
// on write and by their download URL afterwards.
type BlobStore interface {
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, photoURL string) error
	Fetch(ctx context.Context, photoURL string) ([]byte, error)
}

// FirebaseBlobStore implements BlobStore on a Firebase Storage bucket.
type FirebaseBlobStore struct {
	bucket     *storage.BucketHandle
	bucketName string
	httpClient *http.Client
}

func NewFirebaseBlobStore(bucket *storage.BucketHandle, bucketName string) *FirebaseBlobStore {
	return &FirebaseBlobStore{
		bucket:     bucket,
		bucketName: bucketName,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (s *FirebaseBlobStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	w := s.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	downloadURL := fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media",
		s.bucketName, url.PathEscape(path))
	return downloadURL, nil
}

func (s *FirebaseBlobStore) Delete(ctx context.Context, photoURL string) error {
	path := ObjectPathFromURL(photoURL)
	err := s.bucket.Object(path).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return ErrBlobNotFound
	}
	return err
}

func (s *FirebaseBlobStore) Fetch(ctx context.Context, photoURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, photoURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch image: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// ObjectPathFromURL recovers the bucket object path from a Firebase download
// URL ("…/o/<escaped path>?alt=media"). Raw object paths pass through
// unchanged, the same way the web SDK accepts either form.
func ObjectPathFromURL(photoURL string) string {
	u, err := url.Parse(photoURL)
	if err != nil {
		return photoURL
	}

	// Work on the escaped form: object paths encode "/" as %2F inside the
	// /o/ segment and url.Parse would otherwise fold them into the path.
	escapedPath := u.EscapedPath()
	idx := strings.Index(escapedPath, "/o/")
	if idx == -1 {
		return strings.TrimPrefix(photoURL, "/")
	}

	escaped := escapedPath[idx+len("/o/"):]
	path, err := url.PathUnescape(escaped)
	if err != nil {
		return escaped
	}
	return path
}
