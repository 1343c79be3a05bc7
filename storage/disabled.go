package storage

import (
	"context"
	"errors"
	"io"
)

var ErrUploaderDisabled = errors.New("object storage is not configured")

type disabledUploader struct{}

// NewDisabledUploader satisfies FileUploader when no R2 credentials are set.
// Uploads fail with ErrUploaderDisabled and callers are expected to treat the
// archive as best effort.
func NewDisabledUploader() FileUploader {
	return disabledUploader{}
}

func (disabledUploader) Upload(ctx context.Context, key, contentType string, reader io.Reader) (*UploadResult, error) {
	return nil, ErrUploaderDisabled
}

func (disabledUploader) Delete(ctx context.Context, key string) error {
	return ErrUploaderDisabled
}

func (disabledUploader) GetPublicURL(key string) string {
	return ""
}
