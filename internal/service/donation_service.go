package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"foodlink/internal/cache"
	apperrors "foodlink/internal/errors"
	"foodlink/internal/events"
	"foodlink/internal/model"
	"foodlink/internal/repository"
)

const (
	donationFeedCacheKey = "donations:available"
	donationFeedCacheTTL = 30 * time.Second
)

// FeedNotifier pushes refresh signals to live feed subscribers. May be nil.
type FeedNotifier interface {
	BroadcastRefresh()
}

// CreateDonationInput carries the donation creation payload.
type CreateDonationInput struct {
	Title          string
	Description    string
	Quantity       int
	Unit           string
	ExpirationDate time.Time
	PhotoURL       string
}

// DonationService handles the donation lifecycle.
type DonationService interface {
	Create(ctx context.Context, donorID uuid.UUID, input CreateDonationInput) (*model.Donation, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Donation, error)
	ListAvailable(ctx context.Context) ([]model.Donation, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]model.Donation, error)
	Accept(ctx context.Context, doneeID, donationID uuid.UUID) (*model.Donation, error)
	Cancel(ctx context.Context, donorID, donationID uuid.UUID) error
	Review(ctx context.Context, donorID, donationID uuid.UUID, score int) error
}

type donationService struct {
	donations    repository.DonationRepository
	appointments repository.AppointmentRepository
	users        repository.UserRepository
	cache        *cache.Client
	events       *events.Producer
	feed         FeedNotifier
}

// NewDonationService creates a new donation service.
func NewDonationService(
	donations repository.DonationRepository,
	appointments repository.AppointmentRepository,
	users repository.UserRepository,
	cacheClient *cache.Client,
	producer *events.Producer,
	feed FeedNotifier,
) DonationService {
	return &donationService{
		donations:    donations,
		appointments: appointments,
		users:        users,
		cache:        cacheClient,
		events:       producer,
		feed:         feed,
	}
}

// Create registers a new donation owned by the donor.
func (s *donationService) Create(ctx context.Context, donorID uuid.UUID, input CreateDonationInput) (*model.Donation, error) {
	donor, err := s.findUser(ctx, donorID)
	if err != nil {
		return nil, err
	}
	if !donor.IsDonor() {
		return nil, apperrors.ErrForbidden
	}
	if input.Quantity <= 0 {
		return nil, apperrors.ErrInvalidQuantity
	}

	donation := &model.Donation{
		ID:             uuid.New(),
		DonorID:        donor.ID,
		Title:          input.Title,
		Description:    input.Description,
		Quantity:       input.Quantity,
		Unit:           input.Unit,
		ExpirationDate: input.ExpirationDate,
		PhotoURL:       input.PhotoURL,
		Status:         model.DonationStatusAvailable,
	}
	if donation.Unit == "" {
		donation.Unit = "units"
	}

	if err := s.donations.Create(ctx, donation); err != nil {
		return nil, fmt.Errorf("create donation: %w", err)
	}

	s.invalidateFeed(ctx)
	s.events.DonationCreated(donation)
	return donation, nil
}

// Get fetches a donation with its appointment.
func (s *donationService) Get(ctx context.Context, id uuid.UUID) (*model.Donation, error) {
	donation, err := s.donations.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrDonationNotFound
		}
		return nil, err
	}
	return donation, nil
}

// ListAvailable lists open donations, served from cache when fresh.
func (s *donationService) ListAvailable(ctx context.Context) ([]model.Donation, error) {
	if data, _ := s.cache.Get(ctx, donationFeedCacheKey); data != nil {
		var cached []model.Donation
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	donations, err := s.donations.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(donations); err == nil {
		_ = s.cache.Set(ctx, donationFeedCacheKey, payload, donationFeedCacheTTL)
	}
	return donations, nil
}

// ListMine lists the caller's donations: created ones for donors, received
// ones for donees.
func (s *donationService) ListMine(ctx context.Context, userID uuid.UUID) ([]model.Donation, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsDonor() {
		return s.donations.ListByDonor(ctx, user.ID)
	}
	return s.donations.ListByDonee(ctx, user.ID)
}

// Accept claims an available donation for the donee. The row lock inside the
// transaction prevents two donees from reserving the same donation.
func (s *donationService) Accept(ctx context.Context, doneeID, donationID uuid.UUID) (*model.Donation, error) {
	donee, err := s.findUser(ctx, doneeID)
	if err != nil {
		return nil, err
	}
	if donee.IsDonor() {
		return nil, apperrors.ErrForbidden
	}

	var accepted *model.Donation
	err = s.donations.WithTransaction(ctx, func(ctx context.Context, repo repository.DonationRepository) error {
		donation, err := repo.FindByIDForUpdate(ctx, donationID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.ErrDonationNotFound
			}
			return err
		}
		if donation.Status != model.DonationStatusAvailable {
			return apperrors.ErrDonationUnavailable
		}

		donation.DoneeID = &donee.ID
		donation.Status = model.DonationStatusReserved
		if err := repo.Update(ctx, donation); err != nil {
			return fmt.Errorf("update donation: %w", err)
		}
		accepted = donation
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateFeed(ctx)
	s.events.DonationAccepted(accepted)
	return accepted, nil
}

// Cancel withdraws a donation. Only its donor may cancel, and only before
// completion.
func (s *donationService) Cancel(ctx context.Context, donorID, donationID uuid.UUID) error {
	donation, err := s.Get(ctx, donationID)
	if err != nil {
		return err
	}
	if donation.DonorID != donorID {
		return apperrors.ErrForbidden
	}
	switch donation.Status {
	case model.DonationStatusCompleted, model.DonationStatusCancelled:
		return apperrors.ErrInvalidStatusTransition
	}

	if appt := donation.Appointment; appt != nil && appt.Status != model.AppointmentStatusCancelled {
		appt.Status = model.AppointmentStatusCancelled
		if err := s.appointments.Update(ctx, appt); err != nil {
			return fmt.Errorf("cancel appointment: %w", err)
		}
	}

	donation.Status = model.DonationStatusCancelled
	donation.Appointment = nil // keep Save from cascading the stale association
	if err := s.donations.Update(ctx, donation); err != nil {
		return fmt.Errorf("update donation: %w", err)
	}

	s.invalidateFeed(ctx)
	return nil
}

// Review records the donor's score for the donee of a completed donation and
// folds it into the donee's running rating average.
func (s *donationService) Review(ctx context.Context, donorID, donationID uuid.UUID, score int) error {
	if score < 1 || score > 5 {
		return apperrors.ErrInvalidScore
	}

	donation, err := s.Get(ctx, donationID)
	if err != nil {
		return err
	}
	if donation.DonorID != donorID {
		return apperrors.ErrForbidden
	}
	if donation.Status != model.DonationStatusCompleted {
		return apperrors.ErrDonationNotCompleted
	}
	if donation.Reviewed {
		return apperrors.ErrAlreadyReviewed
	}
	if donation.DoneeID == nil {
		return apperrors.ErrDonationNotCompleted
	}

	donee, err := s.findUser(ctx, *donation.DoneeID)
	if err != nil {
		return err
	}

	count := decimal.NewFromInt(int64(donee.RatingCount))
	total := donee.Rating.Mul(count).Add(decimal.NewFromInt(int64(score)))
	donee.Rating = total.DivRound(count.Add(decimal.NewFromInt(1)), 2)
	donee.RatingCount++
	if err := s.users.Update(ctx, donee); err != nil {
		return fmt.Errorf("update donee rating: %w", err)
	}

	donation.Reviewed = true
	if err := s.donations.Update(ctx, donation); err != nil {
		return fmt.Errorf("update donation: %w", err)
	}
	return nil
}

func (s *donationService) findUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *donationService) invalidateFeed(ctx context.Context) {
	_ = s.cache.Delete(ctx, donationFeedCacheKey)
	if s.feed != nil {
		s.feed.BroadcastRefresh()
	}
}
