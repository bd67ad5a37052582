package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrNotConfigured is returned by NewMinIOStorage when no endpoint is set.
var ErrNotConfigured = errors.New("minio not configured")

const pdfContentType = "application/pdf"

// MinIOStorage stores content PDFs in a single bucket.
type MinIOStorage struct {
	client *minio.Client
	bucket string
	urlTTL time.Duration
}

// NewMinIOStorage creates a MinIO client and ensures the bucket exists.
func NewMinIOStorage(ctx context.Context, cfg config.MinIOConfig) (*MinIOStorage, error) {
	if cfg.Endpoint == "" {
		return nil, ErrNotConfigured
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	ttl := cfg.URLTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	s := &MinIOStorage{client: mc, bucket: cfg.Bucket, urlTTL: ttl}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		// already exists is fine
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return s, nil
}

// PDFKey is the object key of a content's PDF.
func PDFKey(agentID, contentID string) string {
	return "contents/" + agentID + "/" + contentID + ".pdf"
}

// UploadPDF stores the PDF for a content and returns a presigned GET URL for it.
func (s *MinIOStorage) UploadPDF(ctx context.Context, agentID, contentID string, r io.Reader, size int64) (string, error) {
	key := PDFKey(agentID, contentID)
	if _, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: pdfContentType}); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.PresignedURL(ctx, key)
}

// PresignedURL returns a GET URL for key valid for the configured TTL.
func (s *MinIOStorage) PresignedURL(ctx context.Context, key string) (string, error) {
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.urlTTL, make(url.Values))
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}

// Ping reports whether the bucket is reachable.
func (s *MinIOStorage) Ping(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %s missing", s.bucket)
	}
	return nil
}
