package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentStatus represents the status of a pickup appointment.
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "PENDING"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

// Appointment represents the scheduled handoff for a donation. Exactly one
// appointment may exist per donation; the unique index enforces it.
type Appointment struct {
	ID          uuid.UUID         `json:"id" gorm:"type:char(36);primaryKey"`
	DonationID  uuid.UUID         `json:"donation_id" gorm:"type:char(36);not null;uniqueIndex"`
	ScheduledAt time.Time         `json:"scheduled_at" gorm:"not null"`
	Status      AppointmentStatus `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DeletedAt   gorm.DeletedAt    `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
