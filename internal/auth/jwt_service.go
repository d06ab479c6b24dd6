package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	// Issuer identifies this service in issued tokens.
	Issuer = "foodlink-api"
	// TokenExpiry is the lifetime of an issued token.
	TokenExpiry = 120 * time.Minute

	// Tokens are stamped in a fixed reference time zone regardless of where
	// the server runs.
	timeZone = "America/Recife"
)

// ErrTokenCreation is returned when signing a token fails. Treated as fatal
// for the request; never retried.
var ErrTokenCreation = errors.New("token creation failed")

// Claims represents JWT claims carried by a foodlink token. The subject holds
// the authenticated user's id in string form.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID parses the subject claim back into a user id.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// TokenService issues and validates signed bearer tokens.
type TokenService struct {
	secret []byte
	loc    *time.Location
}

// NewTokenService creates a token service signing with the given secret.
func NewTokenService(secret string) *TokenService {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		loc = time.UTC
	}
	return &TokenService{
		secret: []byte(secret),
		loc:    loc,
	}
}

// GenerateToken issues a signed token for the user. Expiry is exactly
// TokenExpiry after the issued-at claim.
func (s *TokenService) GenerateToken(userID uuid.UUID) (string, error) {
	now := time.Now().In(s.loc)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenCreation, err)
	}
	return signed, nil
}

// ValidateToken validates a JWT token and returns the claims.
func (s *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
