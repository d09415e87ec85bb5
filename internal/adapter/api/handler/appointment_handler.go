package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"tallerhub/internal/usecase"
	"tallerhub/pkg/errors"
	"tallerhub/pkg/response"
)

type AppointmentHandler struct {
	appointmentUseCase *usecase.AppointmentUseCase
}

func NewAppointmentHandler(appointmentUseCase *usecase.AppointmentUseCase) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUseCase: appointmentUseCase,
	}
}

type appointmentRequest struct {
	StartsAt     time.Time `json:"starts_at" validate:"required"`
	Plate        string    `json:"plate,omitempty"`
	CustomerName string    `json:"customer_name,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Notes        string    `json:"notes,omitempty"`
}

func (h *AppointmentHandler) Create(c echo.Context) error {
	var req appointmentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	appointment, err := h.appointmentUseCase.Create(c.Request().Context(), userID, usecase.AppointmentInput{
		StartsAt:     req.StartsAt,
		Plate:        req.Plate,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Notes:        req.Notes,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, appointment)
}

func (h *AppointmentHandler) Update(c echo.Context) error {
	var req appointmentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	appointment, err := h.appointmentUseCase.Update(c.Request().Context(), c.Param("id"), usecase.AppointmentInput{
		StartsAt:     req.StartsAt,
		Plate:        req.Plate,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Notes:        req.Notes,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, appointment)
}

func (h *AppointmentHandler) Delete(c echo.Context) error {
	if err := h.appointmentUseCase.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "deleted"})
}

// List returns appointments in the [from, to) range given as RFC3339 query
// params
func (h *AppointmentHandler) List(c echo.Context) error {
	from, err := time.Parse(time.RFC3339, c.QueryParam("from"))
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid 'from' timestamp", err))
	}
	to, err := time.Parse(time.RFC3339, c.QueryParam("to"))
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid 'to' timestamp", err))
	}

	appointments, err := h.appointmentUseCase.ListForRange(c.Request().Context(), from, to)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, appointments)
}
