package repository

import (
	"context"

	"tallerhub/internal/domain/entity"
)

type WorkOrderRepository interface {
	Create(ctx context.Context, order *entity.WorkOrder) error
	GetByID(ctx context.Context, id string) (*entity.WorkOrder, error)
	Update(ctx context.Context, order *entity.WorkOrder) error
	Delete(ctx context.Context, id string) error
	// ListByStatus returns all orders, or only those in the given budget
	// status when status is non-empty.
	ListByStatus(ctx context.Context, status string) ([]*entity.WorkOrder, error)
}
