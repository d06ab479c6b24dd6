package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UserRole discriminates the two user variants sharing the users table.
type UserRole string

const (
	RoleDonor UserRole = "DONOR"
	RoleDonee UserRole = "DONEE"
)

// User represents a donor or donee identity. The role is fixed at
// registration time; no update path changes it.
type User struct {
	ID           uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string          `json:"name" gorm:"size:255;not null"`
	Email        string          `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string          `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Phone        string          `json:"phone" gorm:"size:32"`
	Address      string          `json:"address" gorm:"size:512"`
	PhotoURL     string          `json:"photo_url,omitempty" gorm:"size:512"`
	Role         UserRole        `json:"role" gorm:"type:varchar(10);not null;index"`
	Rating       decimal.Decimal `json:"rating" gorm:"type:decimal(3,2);not null;default:0"` // donee review average
	RatingCount  int             `json:"rating_count" gorm:"not null;default:0"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `json:"-" gorm:"index"`

	// Relations
	Donations         []Donation `json:"donations,omitempty" gorm:"foreignKey:DonorID"`
	ReceivedDonations []Donation `json:"received_donations,omitempty" gorm:"foreignKey:DoneeID"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsDonor reports whether the user registered as a donor.
func (u *User) IsDonor() bool {
	return u.Role == RoleDonor
}
