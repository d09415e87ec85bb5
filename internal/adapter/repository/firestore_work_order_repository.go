package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tallerhub/internal/domain/entity"
	"tallerhub/internal/domain/repository"
	"tallerhub/pkg/errors"
)

type firestoreWorkOrderRepository struct {
	client *firestore.Client
}

func NewFirestoreWorkOrderRepository(client *firestore.Client) repository.WorkOrderRepository {
	return &firestoreWorkOrderRepository{
		client: client,
	}
}

func (r *firestoreWorkOrderRepository) Create(ctx context.Context, order *entity.WorkOrder) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.BudgetStatus == "" {
		order.BudgetStatus = entity.BudgetStatusPending
	}

	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	_, err := r.client.Collection("workOrders").Doc(order.ID).Set(ctx, order)
	if err != nil {
		return errors.Internal("Failed to create work order", err)
	}

	return nil
}

func (r *firestoreWorkOrderRepository) GetByID(ctx context.Context, id string) (*entity.WorkOrder, error) {
	doc, err := r.client.Collection("workOrders").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Work order", err)
		}
		return nil, errors.Internal("Failed to get work order", err)
	}

	var order entity.WorkOrder
	if err := doc.DataTo(&order); err != nil {
		return nil, errors.Internal("Failed to parse work order data", err)
	}
	order.ID = doc.Ref.ID

	return &order, nil
}

func (r *firestoreWorkOrderRepository) Update(ctx context.Context, order *entity.WorkOrder) error {
	order.UpdatedAt = time.Now()

	_, err := r.client.Collection("workOrders").Doc(order.ID).Set(ctx, order)
	if err != nil {
		return errors.Internal("Failed to update work order", err)
	}

	return nil
}

func (r *firestoreWorkOrderRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("workOrders").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete work order", err)
	}

	return nil
}

func (r *firestoreWorkOrderRepository) ListByStatus(ctx context.Context, statusFilter string) ([]*entity.WorkOrder, error) {
	query := r.client.Collection("workOrders").Query
	if statusFilter != "" {
		query = query.Where("budgetStatus", "==", statusFilter)
	}

	iter := query.Documents(ctx)

	var orders []*entity.WorkOrder
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate work orders", err)
		}

		var order entity.WorkOrder
		if err := doc.DataTo(&order); err != nil {
			continue // Skip malformed documents
		}
		order.ID = doc.Ref.ID
		orders = append(orders, &order)
	}

	return orders, nil
}
