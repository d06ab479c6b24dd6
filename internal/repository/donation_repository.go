package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"foodlink/internal/model"
)

// DonationRepository defines donation persistence operations.
type DonationRepository interface {
	Create(ctx context.Context, donation *model.Donation) error
	Update(ctx context.Context, donation *model.Donation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Donation, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Donation, error)
	ListAvailable(ctx context.Context) ([]model.Donation, error)
	ListByDonor(ctx context.Context, donorID uuid.UUID) ([]model.Donation, error)
	ListByDonee(ctx context.Context, doneeID uuid.UUID) ([]model.Donation, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo DonationRepository) error) error
}

type donationRepository struct {
	db *gorm.DB
}

// NewDonationRepository creates a new donation repository.
func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

// Create creates a new donation.
func (r *donationRepository) Create(ctx context.Context, donation *model.Donation) error {
	return r.db.WithContext(ctx).Create(donation).Error
}

// Update updates an existing donation.
func (r *donationRepository) Update(ctx context.Context, donation *model.Donation) error {
	return r.db.WithContext(ctx).Save(donation).Error
}

// FindByID finds a donation by ID, including its appointment if any.
func (r *donationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Donation, error) {
	var donation model.Donation
	if err := r.db.WithContext(ctx).Preload("Appointment").
		Where("id = ?", id).First(&donation).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

// FindByIDForUpdate finds a donation by ID with row-level lock for update.
func (r *donationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Donation, error) {
	var donation model.Donation
	if err := r.db.WithContext(ctx).Set("gorm:query_option", "FOR UPDATE").
		Where("id = ?", id).First(&donation).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

// ListAvailable lists donations open for claiming, newest first.
func (r *donationRepository) ListAvailable(ctx context.Context) ([]model.Donation, error) {
	var donations []model.Donation
	if err := r.db.WithContext(ctx).
		Where("status = ?", model.DonationStatusAvailable).
		Order("created_at DESC").
		Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

// ListByDonor lists donations created by the donor.
func (r *donationRepository) ListByDonor(ctx context.Context, donorID uuid.UUID) ([]model.Donation, error) {
	var donations []model.Donation
	if err := r.db.WithContext(ctx).Preload("Appointment").
		Where("donor_id = ?", donorID).
		Order("created_at DESC").
		Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

// ListByDonee lists donations claimed by the donee.
func (r *donationRepository) ListByDonee(ctx context.Context, doneeID uuid.UUID) ([]model.Donation, error) {
	var donations []model.Donation
	if err := r.db.WithContext(ctx).Preload("Appointment").
		Where("donee_id = ?", doneeID).
		Order("created_at DESC").
		Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

// WithTransaction executes a function within a database transaction.
func (r *donationRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo DonationRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &donationRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
