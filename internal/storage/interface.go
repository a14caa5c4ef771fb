package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"
)

// StorageInterface defines the interface for file storage backends.
// Supports both mock (local filesystem) and cloud storage (S3, Azure, etc.)
type StorageInterface interface {
	// GeneratePresignedUploadURL generates a presigned URL for uploading
	// key: storage path/key for the file
	// contentType: MIME type (e.g., "image/jpeg")
	// expiresIn: how long the URL should be valid
	GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error)

	// GeneratePresignedDownloadURL generates a presigned URL for downloading
	GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)

	// FileExists checks if a file exists and returns its size
	FileExists(ctx context.Context, key string) (exists bool, size int64, err error)

	// DeleteFile removes a file from storage
	DeleteFile(ctx context.Context, key string) error

	// SaveFile saves a file (used by the mock storage HTTP handler)
	SaveFile(key string, reader io.Reader) error

	// ReadFile opens a file for reading (used by the mock storage HTTP handler)
	ReadFile(key string) (io.ReadCloser, error)
}

// PhotoKey builds the storage key for a condition-photo upload. One key per
// (rental, phase): a re-upload of the phase lands on the same key.
func PhotoKey(rentalID int32, phase, fileName string) string {
	return fmt.Sprintf("photos/rental-%d/%s%s", rentalID, phase, filepath.Ext(fileName))
}

// DocumentKey builds the storage key for an identity-document upload.
func DocumentKey(rentalID int32, kind, fileName string) string {
	return fmt.Sprintf("documents/rental-%d/%s%s", rentalID, kind, filepath.Ext(fileName))
}
