package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "foodlink/internal/errors"
	"foodlink/internal/model"
	"foodlink/internal/repository"
)

var appointmentTransitions = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentStatusPending:   {model.AppointmentStatusConfirmed, model.AppointmentStatusCancelled},
	model.AppointmentStatusConfirmed: {model.AppointmentStatusCompleted, model.AppointmentStatusCancelled},
}

// AppointmentService handles pickup scheduling for reserved donations.
type AppointmentService interface {
	Schedule(ctx context.Context, userID, donationID uuid.UUID, scheduledAt time.Time) (*model.Appointment, error)
	UpdateStatus(ctx context.Context, userID, appointmentID uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error)
}

type appointmentService struct {
	appointments repository.AppointmentRepository
	donations    repository.DonationRepository
}

// NewAppointmentService creates a new appointment service.
func NewAppointmentService(appointments repository.AppointmentRepository, donations repository.DonationRepository) AppointmentService {
	return &appointmentService{
		appointments: appointments,
		donations:    donations,
	}
}

// Schedule creates the single appointment for a reserved donation. Either
// party of the donation may schedule it.
func (s *appointmentService) Schedule(ctx context.Context, userID, donationID uuid.UUID, scheduledAt time.Time) (*model.Appointment, error) {
	donation, err := s.findDonation(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if err := requireParty(donation, userID); err != nil {
		return nil, err
	}
	if donation.Status != model.DonationStatusReserved {
		return nil, apperrors.ErrInvalidStatusTransition
	}
	if donation.Appointment != nil {
		return nil, apperrors.ErrAppointmentExists
	}

	appointment := &model.Appointment{
		ID:          uuid.New(),
		DonationID:  donation.ID,
		ScheduledAt: scheduledAt,
		Status:      model.AppointmentStatusPending,
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		// Unique index on donation_id backstops concurrent scheduling.
		if err == gorm.ErrDuplicatedKey {
			return nil, apperrors.ErrAppointmentExists
		}
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	return appointment, nil
}

// UpdateStatus moves an appointment through its lifecycle. Completing the
// appointment completes the donation.
func (s *appointmentService) UpdateStatus(ctx context.Context, userID, appointmentID uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error) {
	appointment, err := s.appointments.FindByID(ctx, appointmentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrAppointmentNotFound
		}
		return nil, err
	}

	donation, err := s.findDonation(ctx, appointment.DonationID)
	if err != nil {
		return nil, err
	}
	if err := requireParty(donation, userID); err != nil {
		return nil, err
	}

	if !transitionAllowed(appointment.Status, status) {
		return nil, apperrors.ErrInvalidStatusTransition
	}

	appointment.Status = status
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	if status == model.AppointmentStatusCompleted {
		donation.Status = model.DonationStatusCompleted
		donation.Appointment = nil // keep Save from cascading the stale association
		if err := s.donations.Update(ctx, donation); err != nil {
			return nil, fmt.Errorf("complete donation: %w", err)
		}
	}
	return appointment, nil
}

func (s *appointmentService) findDonation(ctx context.Context, id uuid.UUID) (*model.Donation, error) {
	donation, err := s.donations.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrDonationNotFound
		}
		return nil, err
	}
	return donation, nil
}

func requireParty(donation *model.Donation, userID uuid.UUID) error {
	if donation.DonorID == userID {
		return nil
	}
	if donation.DoneeID != nil && *donation.DoneeID == userID {
		return nil
	}
	return apperrors.ErrForbidden
}

func transitionAllowed(from, to model.AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
