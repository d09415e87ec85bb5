package handler

import (
	"github.com/labstack/echo/v4"

	"tallerhub/internal/domain/entity"
	"tallerhub/internal/usecase"
	"tallerhub/pkg/response"
	"tallerhub/pkg/utils"
)

type WorkOrderHandler struct {
	workOrderUseCase *usecase.WorkOrderUseCase
}

func NewWorkOrderHandler(workOrderUseCase *usecase.WorkOrderUseCase) *WorkOrderHandler {
	return &WorkOrderHandler{
		workOrderUseCase: workOrderUseCase,
	}
}

type createWorkOrderRequest struct {
	Data map[string]interface{} `json:"data" validate:"required"`
}

type updateWorkOrderRequest struct {
	Data      map[string]interface{} `json:"data,omitempty"`
	Checklist map[string]interface{} `json:"checklist,omitempty"`
	Parts     []entity.PartOrder     `json:"parts,omitempty"`
}

func (h *WorkOrderHandler) Create(c echo.Context) error {
	var req createWorkOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	order, err := h.workOrderUseCase.Create(c.Request().Context(), userID, usecase.CreateWorkOrderInput{
		Data: req.Data,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, order)
}

func (h *WorkOrderHandler) GetByID(c echo.Context) error {
	order, err := h.workOrderUseCase.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

func (h *WorkOrderHandler) List(c echo.Context) error {
	params := utils.GetPaginationParams(c)

	orders, err := h.workOrderUseCase.ListByStatus(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return response.Error(c, err)
	}

	total := int64(len(orders))
	start := params.Offset
	if start > len(orders) {
		start = len(orders)
	}
	end := start + params.PageSize
	if end > len(orders) {
		end = len(orders)
	}

	return response.Paginated(c, orders[start:end], total, params.Page, params.PageSize)
}

func (h *WorkOrderHandler) Update(c echo.Context) error {
	var req updateWorkOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	order, err := h.workOrderUseCase.Update(c.Request().Context(), c.Param("id"), usecase.UpdateWorkOrderInput{
		Data:      req.Data,
		Checklist: req.Checklist,
		Parts:     req.Parts,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

func (h *WorkOrderHandler) Approve(c echo.Context) error {
	order, err := h.workOrderUseCase.Approve(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

func (h *WorkOrderHandler) Reject(c echo.Context) error {
	order, err := h.workOrderUseCase.Reject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

func (h *WorkOrderHandler) Finalize(c echo.Context) error {
	order, err := h.workOrderUseCase.Finalize(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

func (h *WorkOrderHandler) Delete(c echo.Context) error {
	if err := h.workOrderUseCase.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "deleted"})
}
