package repository

import (
	"context"

	"tallerhub/internal/domain/entity"
)

type FileMetadataRepository interface {
	Create(ctx context.Context, metadata *entity.FileMetadata) error
	GetByID(ctx context.Context, id string) (*entity.FileMetadata, error)
	ListByWorkOrder(ctx context.Context, workOrderID, category string) ([]*entity.FileMetadata, error)
	Delete(ctx context.Context, id string) error
}
