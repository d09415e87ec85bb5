package handler

import (
	"github.com/labstack/echo/v4"

	"tallerhub/internal/usecase"
	"tallerhub/pkg/response"
)

type DeviceTokenHandler struct {
	notificationUseCase *usecase.NotificationUseCase
}

func NewDeviceTokenHandler(notificationUseCase *usecase.NotificationUseCase) *DeviceTokenHandler {
	return &DeviceTokenHandler{
		notificationUseCase: notificationUseCase,
	}
}

type registerTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// Register stores a push registration for the caller's browser/device
func (h *DeviceTokenHandler) Register(c echo.Context) error {
	var req registerTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)
	userAgent := c.Request().UserAgent()

	token, err := h.notificationUseCase.RegisterToken(c.Request().Context(), userID, req.Token, userAgent)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, token)
}

// Unregister removes one of the caller's push registrations
func (h *DeviceTokenHandler) Unregister(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.notificationUseCase.UnregisterToken(c.Request().Context(), userID, c.Param("token")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "deleted"})
}
