package handler

import (
	"github.com/labstack/echo/v4"

	"tallerhub/internal/usecase"
	"tallerhub/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

// Sync mirrors the identity provider profile into the users collection
func (h *UserHandler) Sync(c echo.Context) error {
	userID := c.Get("uid").(string)

	user, err := h.userUseCase.SyncProfile(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

// Me returns the caller's stored profile
func (h *UserHandler) Me(c echo.Context) error {
	userID := c.Get("uid").(string)

	user, err := h.userUseCase.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}
