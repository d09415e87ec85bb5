package router

import (
	"github.com/labstack/echo/v4"

	"tallerhub/internal/adapter/api/handler"
	"tallerhub/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, userHandler *handler.UserHandler) {
	users := e.Group("/v1/users")
	users.Use(authMiddleware.Authenticate)

	users.POST("/me/sync", userHandler.Sync)
	users.GET("/me", userHandler.Me)
}
