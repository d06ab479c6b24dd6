package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "foodlink/internal/errors"
	"foodlink/internal/model"
	"foodlink/internal/repository"
)

// MockDonationRepository is a mock implementation of DonationRepository.
type MockDonationRepository struct {
	mock.Mock
}

func (m *MockDonationRepository) Create(ctx context.Context, donation *model.Donation) error {
	args := m.Called(ctx, donation)
	return args.Error(0)
}

func (m *MockDonationRepository) Update(ctx context.Context, donation *model.Donation) error {
	args := m.Called(ctx, donation)
	return args.Error(0)
}

func (m *MockDonationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Donation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Donation), args.Error(1)
}

func (m *MockDonationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Donation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Donation), args.Error(1)
}

func (m *MockDonationRepository) ListAvailable(ctx context.Context) ([]model.Donation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Donation), args.Error(1)
}

func (m *MockDonationRepository) ListByDonor(ctx context.Context, donorID uuid.UUID) ([]model.Donation, error) {
	args := m.Called(ctx, donorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Donation), args.Error(1)
}

func (m *MockDonationRepository) ListByDonee(ctx context.Context, doneeID uuid.UUID) ([]model.Donation, error) {
	args := m.Called(ctx, doneeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Donation), args.Error(1)
}

// WithTransaction runs the callback against the mock itself; transactional
// behavior is the real repository's concern.
func (m *MockDonationRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.DonationRepository) error) error {
	return fn(ctx, m)
}

func newTestDonationService(donations *MockDonationRepository, users *MockUserRepository) DonationService {
	return NewDonationService(donations, new(MockAppointmentRepository), users, nil, nil, nil)
}

func donationInput() CreateDonationInput {
	return CreateDonationInput{
		Title:          "Day-old bread",
		Description:    "About 40 rolls",
		Quantity:       40,
		Unit:           "units",
		ExpirationDate: time.Now().AddDate(0, 0, 2),
	}
}

func TestCreateDonation(t *testing.T) {
	donations := new(MockDonationRepository)
	users := new(MockUserRepository)
	svc := newTestDonationService(donations, users)

	donor := &model.User{ID: uuid.New(), Role: model.RoleDonor}
	users.On("FindByID", mock.Anything, donor.ID).Return(donor, nil)
	donations.On("Create", mock.Anything, mock.Anything).Return(nil)

	donation, err := svc.Create(context.Background(), donor.ID, donationInput())
	assert.NoError(t, err)
	assert.Equal(t, donor.ID, donation.DonorID)
	assert.Equal(t, model.DonationStatusAvailable, donation.Status)
	assert.Nil(t, donation.DoneeID)
}

func TestCreateDonationByDoneeForbidden(t *testing.T) {
	donations := new(MockDonationRepository)
	users := new(MockUserRepository)
	svc := newTestDonationService(donations, users)

	donee := &model.User{ID: uuid.New(), Role: model.RoleDonee}
	users.On("FindByID", mock.Anything, donee.ID).Return(donee, nil)

	_, err := svc.Create(context.Background(), donee.ID, donationInput())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	donations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateDonationInvalidQuantity(t *testing.T) {
	donations := new(MockDonationRepository)
	users := new(MockUserRepository)
	svc := newTestDonationService(donations, users)

	donor := &model.User{ID: uuid.New(), Role: model.RoleDonor}
	users.On("FindByID", mock.Anything, donor.ID).Return(donor, nil)

	input := donationInput()
	input.Quantity = 0

	_, err := svc.Create(context.Background(), donor.ID, input)
	assert.ErrorIs(t, err, apperrors.ErrInvalidQuantity)
}

func TestAcceptDonation(t *testing.T) {
	donations := new(MockDonationRepository)
	users := new(MockUserRepository)
	svc := newTestDonationService(donations, users)

	donee := &model.User{ID: uuid.New(), Role: model.RoleDonee}
	donation := &model.Donation{ID: uuid.New(), DonorID: uuid.New(), Status: model.DonationStatusAvailable}

	users.On("FindByID", mock.Anything, donee.ID).Return(donee, nil)
	donations.On("FindByIDForUpdate", mock.Anything, donation.ID).Return(donation, nil)
	donations.On("Update", mock.Anything, donation).Return(nil)

	accepted, err := svc.Accept(context.Background(), donee.ID, donation.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.DonationStatusReserved, accepted.Status)
	assert.NotNil(t, accepted.DoneeID)
	assert.Equal(t, donee.ID, *accepted.DoneeID)
}

func TestAcceptReservedDonation(t *testing.T) {
	donations := new(MockDonationRepository)
	users := new(MockUserRepository)
	svc := newTestDonationService(donations, users)

	donee := &model.User{ID: uuid.New(), Role: model.RoleDonee}
	other := uuid.New()
	donation := &model.Donation{ID: uuid.New(), DonorID: uuid.New(), DoneeID: &other, Status: model.DonationStatusReserved}

	users.On("FindByID", mock.Anything, donee.ID).Return(donee, nil)
	donations.On("FindByIDForUpdate", mock.Anything, donation.ID).Return(donation, nil)

	_, err := svc.Accept(context.Background(), donee.ID, donation.ID)
	assert.ErrorIs(t, err, apperrors.ErrDonationUnavailable)
	donations.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAcceptByDonorForbidden(t *testing.T) {
	donations := new(MockDonationRepository)
	users := new(MockUserRepository)
	svc := newTestDonationService(donations, users)

	donor := &model.User{ID: uuid.New(), Role: model.RoleDonor}
	users.On("FindByID", mock.Anything, donor.ID).Return(donor, nil)

	_, err := svc.Accept(context.Background(), donor.ID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestCancelDonationNotOwner(t *testing.T) {
	donations := new(MockDonationRepository)
	users := new(MockUserRepository)
	svc := newTestDonationService(donations, users)

	donation := &model.Donation{ID: uuid.New(), DonorID: uuid.New(), Status: model.DonationStatusAvailable}
	donations.On("FindByID", mock.Anything, donation.ID).Return(donation, nil)

	err := svc.Cancel(context.Background(), uuid.New(), donation.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestCancelDonation(t *testing.T) {
	donations := new(MockDonationRepository)
	users := new(MockUserRepository)
	svc := newTestDonationService(donations, users)

	donorID := uuid.New()
	donation := &model.Donation{ID: uuid.New(), DonorID: donorID, Status: model.DonationStatusAvailable}
	donations.On("FindByID", mock.Anything, donation.ID).Return(donation, nil)
	donations.On("Update", mock.Anything, donation).Return(nil)

	err := svc.Cancel(context.Background(), donorID, donation.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.DonationStatusCancelled, donation.Status)
}

func TestCancelCompletedDonation(t *testing.T) {
	donations := new(MockDonationRepository)
	users := new(MockUserRepository)
	svc := newTestDonationService(donations, users)

	donorID := uuid.New()
	donation := &model.Donation{ID: uuid.New(), DonorID: donorID, Status: model.DonationStatusCompleted}
	donations.On("FindByID", mock.Anything, donation.ID).Return(donation, nil)

	err := svc.Cancel(context.Background(), donorID, donation.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
}

func TestReviewUpdatesRating(t *testing.T) {
	donations := new(MockDonationRepository)
	users := new(MockUserRepository)
	svc := newTestDonationService(donations, users)

	donorID := uuid.New()
	donee := &model.User{
		ID:          uuid.New(),
		Role:        model.RoleDonee,
		Rating:      decimal.NewFromInt(4),
		RatingCount: 1,
	}
	donation := &model.Donation{
		ID:      uuid.New(),
		DonorID: donorID,
		DoneeID: &donee.ID,
		Status:  model.DonationStatusCompleted,
	}

	donations.On("FindByID", mock.Anything, donation.ID).Return(donation, nil)
	users.On("FindByID", mock.Anything, donee.ID).Return(donee, nil)
	users.On("Update", mock.Anything, donee).Return(nil)
	donations.On("Update", mock.Anything, donation).Return(nil)

	err := svc.Review(context.Background(), donorID, donation.ID, 2)
	assert.NoError(t, err)
	assert.True(t, donee.Rating.Equal(decimal.NewFromInt(3)), "rating should be (4+2)/2, got %s", donee.Rating)
	assert.Equal(t, 2, donee.RatingCount)
	assert.True(t, donation.Reviewed)
}

func TestReviewPendingDonation(t *testing.T) {
	donations := new(MockDonationRepository)
	users := new(MockUserRepository)
	svc := newTestDonationService(donations, users)

	donorID := uuid.New()
	donation := &model.Donation{ID: uuid.New(), DonorID: donorID, Status: model.DonationStatusReserved}
	donations.On("FindByID", mock.Anything, donation.ID).Return(donation, nil)

	err := svc.Review(context.Background(), donorID, donation.ID, 5)
	assert.ErrorIs(t, err, apperrors.ErrDonationNotCompleted)
}

func TestReviewTwice(t *testing.T) {
	donations := new(MockDonationRepository)
	users := new(MockUserRepository)
	svc := newTestDonationService(donations, users)

	donorID := uuid.New()
	doneeID := uuid.New()
	donation := &model.Donation{
		ID:       uuid.New(),
		DonorID:  donorID,
		DoneeID:  &doneeID,
		Status:   model.DonationStatusCompleted,
		Reviewed: true,
	}
	donations.On("FindByID", mock.Anything, donation.ID).Return(donation, nil)

	err := svc.Review(context.Background(), donorID, donation.ID, 5)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyReviewed)
}

func TestListMineByRole(t *testing.T) {
	donations := new(MockDonationRepository)
	users := new(MockUserRepository)
	svc := newTestDonationService(donations, users)

	donor := &model.User{ID: uuid.New(), Role: model.RoleDonor}
	donee := &model.User{ID: uuid.New(), Role: model.RoleDonee}
	users.On("FindByID", mock.Anything, donor.ID).Return(donor, nil)
	users.On("FindByID", mock.Anything, donee.ID).Return(donee, nil)
	donations.On("ListByDonor", mock.Anything, donor.ID).Return([]model.Donation{}, nil)
	donations.On("ListByDonee", mock.Anything, donee.ID).Return([]model.Donation{}, nil)

	_, err := svc.ListMine(context.Background(), donor.ID)
	assert.NoError(t, err)
	_, err = svc.ListMine(context.Background(), donee.ID)
	assert.NoError(t, err)

	donations.AssertCalled(t, "ListByDonor", mock.Anything, donor.ID)
	donations.AssertCalled(t, "ListByDonee", mock.Anything, donee.ID)
}

func TestGetDonationNotFound(t *testing.T) {
	donations := new(MockDonationRepository)
	users := new(MockUserRepository)
	svc := newTestDonationService(donations, users)

	id := uuid.New()
	donations.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), id)
	assert.ErrorIs(t, err, apperrors.ErrDonationNotFound)
}
