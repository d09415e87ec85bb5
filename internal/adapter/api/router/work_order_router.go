package router

import (
	"github.com/labstack/echo/v4"

	"tallerhub/internal/adapter/api/handler"
	"tallerhub/internal/adapter/api/middleware"
)

func SetupWorkOrderRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, workOrderHandler *handler.WorkOrderHandler) {
	orders := e.Group("/v1/work-orders")
	orders.Use(authMiddleware.Authenticate)

	orders.POST("", workOrderHandler.Create)
	orders.GET("", workOrderHandler.List)
	orders.GET("/:id", workOrderHandler.GetByID)
	orders.PATCH("/:id", workOrderHandler.Update)
	orders.POST("/:id/approve", workOrderHandler.Approve)
	orders.POST("/:id/reject", workOrderHandler.Reject)
	orders.POST("/:id/finalize", workOrderHandler.Finalize)
	orders.DELETE("/:id", workOrderHandler.Delete)
}
