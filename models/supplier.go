package models

import (
	"time"

	"github.com/google/uuid"
)

// SupplierStatus represents the lifecycle state of a supplier record
type SupplierStatus string

const (
	SupplierStatusOnboarding SupplierStatus = "onboarding"
	SupplierStatusActive     SupplierStatus = "active"
	SupplierStatusSuspended  SupplierStatus = "suspended"
)

// PrimaryContact is the main point of contact for a supplier
type PrimaryContact struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone,omitempty"`
}

// UploadedDocument describes a document submitted during onboarding
type UploadedDocument struct {
	Name       string    `json:"name" validate:"required"`
	Type       string    `json:"type" validate:"required"`
	UploadDate time.Time `json:"upload_date"`
}

// Supplier represents a supplier managed by the platform
type Supplier struct {
	ID         uuid.UUID      `json:"id" db:"id"`
	ExternalID string         `json:"external_id" db:"external_id"`
	Name       string         `json:"name" db:"name"`
	Category   string         `json:"category" db:"category"`
	Status     SupplierStatus `json:"status" db:"status"`
	Contact    PrimaryContact `json:"contact"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Supplier model
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new Supplier instance in the onboarding state
func NewSupplier(externalID, name, category string, contact PrimaryContact) *Supplier {
	now := time.Now()
	return &Supplier{
		ID:         uuid.New(),
		ExternalID: externalID,
		Name:       name,
		Category:   category,
		Status:     SupplierStatusOnboarding,
		Contact:    contact,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
