package usecase

import (
	"context"

	"tallerhub/internal/domain/entity"
	"tallerhub/internal/domain/repository"
	"tallerhub/pkg/errors"
)

type WorkOrderUseCase struct {
	workOrderRepo repository.WorkOrderRepository
	chatUseCase   *ChatUseCase
}

func NewWorkOrderUseCase(workOrderRepo repository.WorkOrderRepository, chatUseCase *ChatUseCase) *WorkOrderUseCase {
	return &WorkOrderUseCase{
		workOrderRepo: workOrderRepo,
		chatUseCase:   chatUseCase,
	}
}

type CreateWorkOrderInput struct {
	Data map[string]interface{}
}

type UpdateWorkOrderInput struct {
	Data      map[string]interface{}
	Checklist map[string]interface{}
	Parts     []entity.PartOrder
}

func (uc *WorkOrderUseCase) Create(ctx context.Context, uid string, input CreateWorkOrderInput) (*entity.WorkOrder, error) {
	if len(input.Data) == 0 {
		return nil, errors.BadRequest("Questionnaire data is required", nil)
	}

	order := &entity.WorkOrder{
		Data:         input.Data,
		BudgetStatus: entity.BudgetStatusPending,
		CreatedBy:    uid,
	}
	if err := uc.workOrderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (uc *WorkOrderUseCase) GetByID(ctx context.Context, id string) (*entity.WorkOrder, error) {
	return uc.workOrderRepo.GetByID(ctx, id)
}

func (uc *WorkOrderUseCase) ListByStatus(ctx context.Context, status string) ([]*entity.WorkOrder, error) {
	return uc.workOrderRepo.ListByStatus(ctx, status)
}

func (uc *WorkOrderUseCase) Update(ctx context.Context, id string, input UpdateWorkOrderInput) (*entity.WorkOrder, error) {
	order, err := uc.workOrderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Data != nil {
		order.Data = input.Data
	}
	if input.Checklist != nil {
		order.Checklist = input.Checklist
	}
	if input.Parts != nil {
		order.Parts = input.Parts
	}

	if err := uc.workOrderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (uc *WorkOrderUseCase) Approve(ctx context.Context, id string) (*entity.WorkOrder, error) {
	return uc.setStatus(ctx, id, entity.BudgetStatusApproved, false)
}

// Reject marks the budget as denied and tears down the job's chat. The chat
// cleanup is best-effort and can never block the transition.
func (uc *WorkOrderUseCase) Reject(ctx context.Context, id string) (*entity.WorkOrder, error) {
	return uc.setStatus(ctx, id, entity.BudgetStatusRejected, true)
}

// Finalize closes the job and tears down its chat, same contract as Reject.
func (uc *WorkOrderUseCase) Finalize(ctx context.Context, id string) (*entity.WorkOrder, error) {
	return uc.setStatus(ctx, id, entity.BudgetStatusFinalized, true)
}

func (uc *WorkOrderUseCase) setStatus(ctx context.Context, id, status string, cleanupChat bool) (*entity.WorkOrder, error) {
	order, err := uc.workOrderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	order.BudgetStatus = status
	if err := uc.workOrderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	if cleanupChat {
		uc.chatUseCase.DeleteChatForJob(ctx, id)
	}

	return order, nil
}

func (uc *WorkOrderUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.workOrderRepo.Delete(ctx, id); err != nil {
		return err
	}

	uc.chatUseCase.DeleteChatForJob(ctx, id)
	return nil
}
