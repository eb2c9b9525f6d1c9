// Package storage wraps the S3-compatible object store used for image uploads.
package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"promptfolio/internal/config"
	"promptfolio/internal/models"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MaxUploadSize caps image uploads at 10MB.
const MaxUploadSize = 10 << 20

// Buckets the API may write to.
const (
	BucketProfileImages = "profile-images"
	BucketPostImages    = "post-images"
)

var allowedBuckets = map[string]bool{
	BucketProfileImages: true,
	BucketPostImages:    true,
}

var allowedTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// UploadResult is returned to the client after a successful upload.
type UploadResult struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// Store is an image store backed by a MinIO/S3 endpoint. Object keys are
// prefixed with the owner's user ID so deletion can check ownership from the
// path alone.
type Store struct {
	client    *minio.Client
	publicURL string
}

// New connects to the object store and ensures the image buckets exist.
func New(ctx context.Context, cfg config.StorageConfig) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object storage: %w", err)
	}

	s := &Store{client: client, publicURL: strings.TrimRight(cfg.PublicURL, "/")}
	for bucket := range allowedBuckets {
		exists, err := client.BucketExists(ctx, bucket)
		if err != nil {
			return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
				return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
			}
		}
	}
	return s, nil
}

// ValidateUpload checks bucket, declared content type and size before any
// bytes are streamed.
func ValidateUpload(bucket string, header *multipart.FileHeader) (contentType, ext string, err error) {
	if !allowedBuckets[bucket] {
		return "", "", models.NewValidationError("invalid bucket")
	}
	contentType = header.Header.Get("Content-Type")
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", "", models.NewValidationError("only jpeg, png, webp and gif images are allowed")
	}
	if header.Size > MaxUploadSize {
		return "", "", models.NewValidationError("image must be smaller than 10MB")
	}
	return contentType, ext, nil
}

// Upload streams the file into the bucket under a fresh key owned by userID.
// metadata entries (resize hints and the like) are recorded as user metadata
// on the object for downstream image processing.
func (s *Store) Upload(ctx context.Context, userID uint, bucket string, header *multipart.FileHeader, metadata map[string]string) (*UploadResult, error) {
	contentType, ext, err := ValidateUpload(bucket, header)
	if err != nil {
		return nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer file.Close()

	key := fmt.Sprintf("%d/%s.%s", userID, uuid.NewString(), ext)
	_, err = s.client.PutObject(ctx, bucket, key, file, header.Size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: metadata,
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &UploadResult{
		URL:  fmt.Sprintf("%s/%s/%s", s.publicURL, bucket, key),
		Path: fmt.Sprintf("%s/%s", bucket, key),
	}, nil
}

// Delete removes an object. The path's first segment after the bucket is the
// owner's user ID; only the owner or an admin may delete.
func (s *Store) Delete(ctx context.Context, userID uint, isAdmin bool, path string) error {
	parts := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)
	if len(parts) != 2 || !allowedBuckets[parts[0]] {
		return models.NewValidationError("invalid object path")
	}
	bucket, key := parts[0], parts[1]

	owner := strings.SplitN(key, "/", 2)[0]
	if !isAdmin && owner != strconv.FormatUint(uint64(userID), 10) {
		return models.NewForbiddenError("you can only delete your own images")
	}

	if err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
