package router

import (
	"github.com/labstack/echo/v4"

	"tallerhub/internal/adapter/api/handler"
	"tallerhub/internal/adapter/api/middleware"
)

func SetupAppointmentRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, appointmentHandler *handler.AppointmentHandler) {
	appointments := e.Group("/v1/appointments")
	appointments.Use(authMiddleware.Authenticate)

	appointments.POST("", appointmentHandler.Create)
	appointments.GET("", appointmentHandler.List)
	appointments.PATCH("/:id", appointmentHandler.Update)
	appointments.DELETE("/:id", appointmentHandler.Delete)
}
