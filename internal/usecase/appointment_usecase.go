package usecase

import (
	"context"
	"time"

	"tallerhub/internal/domain/entity"
	"tallerhub/internal/domain/repository"
	"tallerhub/pkg/errors"
)

type AppointmentUseCase struct {
	appointmentRepo repository.AppointmentRepository
}

func NewAppointmentUseCase(appointmentRepo repository.AppointmentRepository) *AppointmentUseCase {
	return &AppointmentUseCase{
		appointmentRepo: appointmentRepo,
	}
}

type AppointmentInput struct {
	StartsAt     time.Time
	Plate        string
	CustomerName string
	Phone        string
	Notes        string
}

func (uc *AppointmentUseCase) Create(ctx context.Context, uid string, input AppointmentInput) (*entity.Appointment, error) {
	if input.StartsAt.IsZero() {
		return nil, errors.BadRequest("Appointment start time is required", nil)
	}

	appointment := &entity.Appointment{
		StartsAt:     input.StartsAt,
		Plate:        input.Plate,
		CustomerName: input.CustomerName,
		Phone:        input.Phone,
		Notes:        input.Notes,
		CreatedBy:    uid,
	}
	if err := uc.appointmentRepo.Create(ctx, appointment); err != nil {
		return nil, err
	}

	return appointment, nil
}

func (uc *AppointmentUseCase) Update(ctx context.Context, id string, input AppointmentInput) (*entity.Appointment, error) {
	appointment, err := uc.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !input.StartsAt.IsZero() {
		appointment.StartsAt = input.StartsAt
	}
	appointment.Plate = input.Plate
	appointment.CustomerName = input.CustomerName
	appointment.Phone = input.Phone
	appointment.Notes = input.Notes

	if err := uc.appointmentRepo.Update(ctx, appointment); err != nil {
		return nil, err
	}

	return appointment, nil
}

func (uc *AppointmentUseCase) Delete(ctx context.Context, id string) error {
	return uc.appointmentRepo.Delete(ctx, id)
}

// ListForRange returns appointments in [from, to), e.g. one calendar month.
func (uc *AppointmentUseCase) ListForRange(ctx context.Context, from, to time.Time) ([]*entity.Appointment, error) {
	if !from.Before(to) {
		return nil, errors.BadRequest("Invalid date range", nil)
	}
	return uc.appointmentRepo.ListBetween(ctx, from, to)
}
