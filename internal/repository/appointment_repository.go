package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"foodlink/internal/model"
)

// AppointmentRepository defines appointment persistence operations.
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	Update(ctx context.Context, appointment *model.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	FindByDonationID(ctx context.Context, donationID uuid.UUID) (*model.Appointment, error)
}

type appointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository creates a new appointment repository.
func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

// Create creates a new appointment.
func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

// Update updates an existing appointment.
func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	return r.db.WithContext(ctx).Save(appointment).Error
}

// FindByID finds an appointment by ID.
func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var appointment model.Appointment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&appointment).Error; err != nil {
		return nil, err
	}
	return &appointment, nil
}

// FindByDonationID finds the appointment attached to a donation.
func (r *appointmentRepository) FindByDonationID(ctx context.Context, donationID uuid.UUID) (*model.Appointment, error) {
	var appointment model.Appointment
	if err := r.db.WithContext(ctx).Where("donation_id = ?", donationID).First(&appointment).Error; err != nil {
		return nil, err
	}
	return &appointment, nil
}
