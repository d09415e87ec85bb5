package repository

import (
	"context"
	"time"

	"tallerhub/internal/domain/entity"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	GetByID(ctx context.Context, id string) (*entity.Appointment, error)
	Update(ctx context.Context, appointment *entity.Appointment) error
	Delete(ctx context.Context, id string) error
	ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Appointment, error)
}
