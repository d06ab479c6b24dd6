package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DonationStatus represents the lifecycle state of a donation.
type DonationStatus string

const (
	DonationStatusAvailable DonationStatus = "AVAILABLE"
	DonationStatusReserved  DonationStatus = "RESERVED"
	DonationStatusCompleted DonationStatus = "COMPLETED"
	DonationStatusCancelled DonationStatus = "CANCELLED"
)

// Donation represents an offered item. Created by a donor, optionally claimed
// by a donee, and handed over through at most one appointment.
type Donation struct {
	ID             uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	DonorID        uuid.UUID      `json:"donor_id" gorm:"type:char(36);not null;index"`
	DoneeID        *uuid.UUID     `json:"donee_id,omitempty" gorm:"type:char(36);index"`
	Title          string         `json:"title" gorm:"size:255;not null"`
	Description    string         `json:"description" gorm:"size:1000"`
	Quantity       int            `json:"quantity" gorm:"not null"`
	Unit           string         `json:"unit" gorm:"size:16;not null;default:'units'"`
	ExpirationDate time.Time      `json:"expiration_date" gorm:"type:date;not null"`
	PhotoURL       string         `json:"photo_url,omitempty" gorm:"size:512"`
	Status         DonationStatus `json:"status" gorm:"type:varchar(20);not null;default:'AVAILABLE';index"`
	Reviewed       bool           `json:"reviewed" gorm:"not null;default:false"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Donor       User         `json:"-" gorm:"foreignKey:DonorID"`
	Donee       *User        `json:"-" gorm:"foreignKey:DoneeID"`
	Appointment *Appointment `json:"appointment,omitempty" gorm:"foreignKey:DonationID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
