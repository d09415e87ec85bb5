package router

import (
	"github.com/labstack/echo/v4"

	"tallerhub/internal/adapter/api/handler"
	"tallerhub/internal/adapter/api/middleware"
)

func SetupFileRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, fileHandler *handler.FileHandler) {
	files := e.Group("/v1/work-orders/:id/files")
	files.Use(authMiddleware.Authenticate)

	files.POST("", fileHandler.Upload)
	files.GET("", fileHandler.List)
	files.DELETE("/:fileId", fileHandler.Delete)
}
