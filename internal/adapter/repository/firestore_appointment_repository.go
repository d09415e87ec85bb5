package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tallerhub/internal/domain/entity"
	"tallerhub/internal/domain/repository"
	"tallerhub/pkg/errors"
)

type firestoreAppointmentRepository struct {
	client *firestore.Client
}

func NewFirestoreAppointmentRepository(client *firestore.Client) repository.AppointmentRepository {
	return &firestoreAppointmentRepository{
		client: client,
	}
}

func (r *firestoreAppointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	if appointment.ID == "" {
		appointment.ID = uuid.New().String()
	}

	now := time.Now()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	_, err := r.client.Collection("appointments").Doc(appointment.ID).Set(ctx, appointment)
	if err != nil {
		return errors.Internal("Failed to create appointment", err)
	}

	return nil
}

func (r *firestoreAppointmentRepository) GetByID(ctx context.Context, id string) (*entity.Appointment, error) {
	doc, err := r.client.Collection("appointments").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Appointment", err)
		}
		return nil, errors.Internal("Failed to get appointment", err)
	}

	var appointment entity.Appointment
	if err := doc.DataTo(&appointment); err != nil {
		return nil, errors.Internal("Failed to parse appointment data", err)
	}
	appointment.ID = doc.Ref.ID

	return &appointment, nil
}

func (r *firestoreAppointmentRepository) Update(ctx context.Context, appointment *entity.Appointment) error {
	appointment.UpdatedAt = time.Now()

	_, err := r.client.Collection("appointments").Doc(appointment.ID).Set(ctx, appointment)
	if err != nil {
		return errors.Internal("Failed to update appointment", err)
	}

	return nil
}

func (r *firestoreAppointmentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("appointments").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete appointment", err)
	}

	return nil
}

func (r *firestoreAppointmentRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Appointment, error) {
	iter := r.client.Collection("appointments").
		Where("startsAt", ">=", from).
		Where("startsAt", "<", to).
		OrderBy("startsAt", firestore.Asc).
		Documents(ctx)

	var appointments []*entity.Appointment
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate appointments", err)
		}

		var appointment entity.Appointment
		if err := doc.DataTo(&appointment); err != nil {
			continue
		}
		appointment.ID = doc.Ref.ID
		appointments = append(appointments, &appointment)
	}

	return appointments, nil
}
