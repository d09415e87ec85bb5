package router

import (
	"github.com/labstack/echo/v4"

	"tallerhub/internal/adapter/api/handler"
	"tallerhub/internal/adapter/api/middleware"
)

type Handlers struct {
	Chat        *handler.ChatHandler
	DeviceToken *handler.DeviceTokenHandler
	WorkOrder   *handler.WorkOrderHandler
	Appointment *handler.AppointmentHandler
	File        *handler.FileHandler
	User        *handler.UserHandler
	Health      *handler.HealthHandler
}

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, h Handlers) {
	SetupChatRouter(e, authMiddleware, h.Chat)
	SetupDeviceTokenRouter(e, authMiddleware, h.DeviceToken)
	SetupWorkOrderRouter(e, authMiddleware, h.WorkOrder)
	SetupAppointmentRouter(e, authMiddleware, h.Appointment)
	SetupFileRouter(e, authMiddleware, h.File)
	SetupUserRouter(e, authMiddleware, h.User)
	SetupHealthRouter(e, h.Health)
}
