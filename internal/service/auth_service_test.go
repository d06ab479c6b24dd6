package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"foodlink/internal/auth"
	"foodlink/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func newTestAuthService(users *MockUserRepository) AuthService {
	return NewAuthService(users, auth.NewTokenService("test-secret"), nil)
}

func registerInput(role string) RegisterInput {
	return RegisterInput{
		Name:     "Alice",
		Email:    "a@x.com",
		Password: "secret",
		Phone:    "+55 81 99999-0000",
		Address:  "Rua das Flores 12",
		Role:     role,
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestAuthService(users)

	existing := &model.User{ID: uuid.New(), Email: "a@x.com"}
	users.On("FindByEmail", mock.Anything, "a@x.com").Return(existing, nil)

	err := svc.Register(context.Background(), registerInput("DONOR"))
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterDuplicateRace(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestAuthService(users)

	// Email is free at check time but the insert hits the unique index.
	users.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, gorm.ErrRecordNotFound)
	users.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

	err := svc.Register(context.Background(), registerInput("DONOR"))
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
}

func TestRegisterRoleDispatch(t *testing.T) {
	tests := []struct {
		name string
		role string
		want model.UserRole
	}{
		{"donor role", "DONOR", model.RoleDonor},
		{"donee role", "DONEE", model.RoleDonee},
		{"unknown role becomes donee", "ADMIN", model.RoleDonee},
		{"empty role becomes donee", "", model.RoleDonee},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			svc := newTestAuthService(users)

			users.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, gorm.ErrRecordNotFound)

			var created *model.User
			users.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
				created = args.Get(1).(*model.User)
			}).Return(nil)

			err := svc.Register(context.Background(), registerInput(tt.role))
			assert.NoError(t, err)
			assert.NotNil(t, created)
			assert.Equal(t, tt.want, created.Role)
		})
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestAuthService(users)

	users.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, gorm.ErrRecordNotFound)

	var created *model.User
	users.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*model.User)
	}).Return(nil)

	err := svc.Register(context.Background(), registerInput("DONOR"))
	assert.NoError(t, err)
	assert.NotEqual(t, "secret", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("other")))
}

func TestLoginSuccess(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestAuthService(users)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcryptCost)
	user := &model.User{ID: uuid.New(), Email: "a@x.com", PasswordHash: string(hashed)}
	users.On("FindByEmail", mock.Anything, "a@x.com").Return(user, nil)

	token, err := svc.Login(context.Background(), "a@x.com", "secret")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := auth.NewTokenService("test-secret").ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestAuthService(users)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcryptCost)
	user := &model.User{ID: uuid.New(), Email: "a@x.com", PasswordHash: string(hashed)}
	users.On("FindByEmail", mock.Anything, "a@x.com").Return(user, nil)
	users.On("FindByEmail", mock.Anything, "nobody@x.com").Return(nil, gorm.ErrRecordNotFound)

	_, wrongPassword := svc.Login(context.Background(), "a@x.com", "wrong")
	_, unknownEmail := svc.Login(context.Background(), "nobody@x.com", "x")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestChangePassword(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestAuthService(users)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcryptCost)
	user := &model.User{ID: uuid.New(), Email: "a@x.com", PasswordHash: string(hashed)}
	users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	users.On("Update", mock.Anything, user).Return(nil)

	err := svc.ChangePassword(context.Background(), user.ID, "secret", "new-secret")
	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("new-secret")))
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestAuthService(users)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcryptCost)
	user := &model.User{ID: uuid.New(), Email: "a@x.com", PasswordHash: string(hashed)}
	users.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	err := svc.ChangePassword(context.Background(), user.ID, "wrong", "new-secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
