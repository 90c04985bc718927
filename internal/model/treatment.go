package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultDosage    = "N/A"
	DefaultFrequency = "As needed"
	// DefaultDuration is added to the start date when no end date is given
	DefaultDuration = 30 * 24 * time.Hour
)

// Treatment is a medication or therapy course owned by one user
type Treatment struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	Name        string    `json:"name" validate:"required,max=200"`
	Dosage      string    `json:"dosage" validate:"required,max=100"`
	Frequency   string    `json:"frequency" validate:"required,max=100"`
	StartDate   time.Time `json:"startDate" validate:"required"`
	EndDate     time.Time `json:"endDate" validate:"required"`
	Notes       string    `json:"notes" validate:"max=2000"`
	Description string    `json:"description" validate:"max=2000"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateTreatmentRequest is used for creating a new treatment.
// Everything except Name is optional and falls back to a default.
type CreateTreatmentRequest struct {
	Name        string     `json:"name"`
	Dosage      string     `json:"dosage"`
	Frequency   string     `json:"frequency"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Notes       string     `json:"notes"`
	Description string     `json:"description"`
}

type UpdateTreatmentRequest struct {
	Name        *string    `json:"name,omitempty"` // Pointers to allow partial updates
	Dosage      *string    `json:"dosage,omitempty"`
	Frequency   *string    `json:"frequency,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	Description *string    `json:"description,omitempty"`
}
