package router

import (
	"github.com/labstack/echo/v4"

	"tallerhub/internal/adapter/api/handler"
	"tallerhub/internal/adapter/api/middleware"
)

func SetupDeviceTokenRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, tokenHandler *handler.DeviceTokenHandler) {
	tokens := e.Group("/v1/device-tokens")
	tokens.Use(authMiddleware.Authenticate)

	tokens.POST("", tokenHandler.Register)
	tokens.DELETE("/:token", tokenHandler.Unregister)
}
