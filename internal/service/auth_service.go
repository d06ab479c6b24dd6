package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"foodlink/internal/auth"
	apperrors "foodlink/internal/errors"
	"foodlink/internal/events"
	"foodlink/internal/model"
	"foodlink/internal/repository"
)

const bcryptCost = 10

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	// The same value covers an unknown email and a wrong password so the
	// response never reveals whether an account exists.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailAlreadyRegistered is returned when registering an existing email.
	ErrEmailAlreadyRegistered = errors.New("email already registered")
)

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
	Role     string
}

// AuthService handles registration and authentication.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) error
	Login(ctx context.Context, email, password string) (token string, err error)
	ChangePassword(ctx context.Context, userID uuid.UUID, current, updated string) error
}

type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
	events *events.Producer
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenService, producer *events.Producer) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
		events: producer,
	}
}

// Register creates a donor or donee record with a hashed password. A role of
// "DONOR" produces a donor; any other value produces a donee.
func (s *authService) Register(ctx context.Context, input RegisterInput) error {
	existing, err := s.users.FindByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return ErrEmailAlreadyRegistered
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	role := model.RoleDonee
	if input.Role == string(model.RoleDonor) {
		role = model.RoleDonor
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashed),
		Phone:        input.Phone,
		Address:      input.Address,
		Role:         role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// The unique index on email is the source of truth for the
		// check-then-insert race.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailAlreadyRegistered
		}
		return fmt.Errorf("create user: %w", err)
	}

	s.events.UserRegistered(user)
	return nil
}

// Login authenticates a user and returns a signed bearer token.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return "", err
	}
	return token, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, current, updated string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(updated), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hashed)
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}
