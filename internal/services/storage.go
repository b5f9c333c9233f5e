package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/foxxcyber/recetario/internal/models"
)

// ExportURLExpiry is how long a presigned export link stays valid
const ExportURLExpiry = 24 * time.Hour

// StorageService handles S3-compatible storage operations
type StorageService struct {
	client     *minio.Client
	bucketName string
	region     string
}

// UploadResult contains information about an uploaded file
type UploadResult struct {
	Bucket      string
	Key         string
	Size        int64
	ContentType string
	ETag        string
}

// NewStorageService creates a new S3 storage service
func NewStorageService(endpoint, accessKey, secretKey, bucketName, region string, useSSL bool) (*StorageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	return &StorageService{
		client:     client,
		bucketName: bucketName,
		region:     region,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *StorageService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{
			Region: s.region,
		})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Upload uploads a file to S3
func (s *StorageService) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (*UploadResult, error) {
	info, err := s.client.PutObject(ctx, s.bucketName, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	return &UploadResult{
		Bucket:      info.Bucket,
		Key:         info.Key,
		Size:        info.Size,
		ContentType: contentType,
		ETag:        info.ETag,
	}, nil
}

// GetPresignedURL generates a presigned URL for downloading a file
func (s *StorageService) GetPresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	url, err := s.client.PresignedGetObject(ctx, s.bucketName, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}

// ExportList uploads a saved list as CSV and returns a presigned download link
func (s *StorageService) ExportList(ctx context.Context, list *models.ShoppingList, items []*models.ShoppingListItem) (*models.ListExport, error) {
	var buf bytes.Buffer
	if err := WriteListCSV(&buf, items); err != nil {
		return nil, fmt.Errorf("failed to encode list: %w", err)
	}

	now := time.Now().UTC()
	key := ExportKey(list, now)
	if _, err := s.Upload(ctx, key, &buf, int64(buf.Len()), "text/csv"); err != nil {
		return nil, err
	}

	url, err := s.GetPresignedURL(ctx, key, ExportURLExpiry)
	if err != nil {
		return nil, err
	}
	return &models.ListExport{Key: key, URL: url, ExpiresAt: now.Add(ExportURLExpiry)}, nil
}

// GetBucketName returns the bucket name
func (s *StorageService) GetBucketName() string {
	return s.bucketName
}
