// Package storage holds the blob-storage client for uploaded images.
package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Upload kinds map to prefixes inside the bucket.
const (
	KindCover     = "cover"
	KindChallenge = "challenge"
)

// contentTypes maps recognized image extensions to their MIME type.
// Unrecognized extensions fall back to the client-reported type.
var contentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// ContentTypeForFilename resolves the MIME type for an uploaded file from its
// extension, case-insensitively. fallback is the type reported by the client.
func ContentTypeForFilename(filename, fallback string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return fallback
}

// ValidKind reports whether kind is a known upload kind.
func ValidKind(kind string) bool {
	return kind == KindCover || kind == KindChallenge
}

// ImageStore uploads portfolio images to a single bucket and hands back their
// public URLs.
type ImageStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewImageStore initializes the blob client and ensures the bucket exists.
// publicBaseURL overrides the URL prefix served to browsers (e.g. a CDN); when
// empty, URLs are built from the endpoint itself.
func NewImageStore(endpoint, accessKey, secretKey, bucket, publicBaseURL string, useSSL bool) (*ImageStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	if publicBaseURL == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		publicBaseURL = fmt.Sprintf("%s://%s", scheme, endpoint)
	}

	return &ImageStore{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Upload stores one image under a collision-resistant key and returns its
// public URL. Existing objects under the same key are overwritten.
func (s *ImageStore) Upload(ctx context.Context, kind, filename, reportedType string, body io.Reader, size int64) (string, error) {
	key := ObjectKey(kind, filename)
	contentType := ContentTypeForFilename(filename, reportedType)

	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}

	return s.PublicURL(key), nil
}

// PublicURL returns the stable public URL for an object key.
func (s *ImageStore) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, key)
}

// ObjectKey builds a storage key combining the upload kind, a timestamp and a
// random suffix, preserving the original file extension.
func ObjectKey(kind, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%ss/%s-%d-%s%s", kind, kind, time.Now().UnixNano(), randomSuffix(), ext)
}

func randomSuffix() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// A degraded suffix still keeps keys unique via the timestamp.
		return "00000000"
	}
	return hex.EncodeToString(buf)
}
