package service

import (
	"context"
	"io"
)

type FileUploadService interface {
	UploadFile(ctx context.Context, file io.Reader, fileType, folder string, isPublic bool) (string, string, error)
	DeleteFile(ctx context.Context, fileURL string) error
	ListObjects(ctx context.Context, prefix string) ([]string, error)
	Close() error
}
