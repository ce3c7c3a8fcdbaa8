package product

import "time"

// Status is the lifecycle state of a product in the catalog.
type Status string

// Product lifecycle states.
const (
	StatusActive   Status = "active"
	StatusDraft    Status = "draft"
	StatusArchived Status = "archived"
)

// Valid reports whether s is a known product status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusDraft, StatusArchived:
		return true
	}
	return false
}

// Product represents a catalog product managed through the admin panel.
type Product struct {
	ID          int64     // ID is the unique identifier for the product
	SKU         string    // SKU is the unique stock keeping unit code
	Name        string    // Name is the display name of the product
	Description string    // Description is optional free-form text
	PriceCents  int64     // PriceCents is the unit price in integer cents
	Stock       int64     // Stock is the number of units on hand
	Status      Status    // Status is the lifecycle state
	CreatedAt   time.Time // CreatedAt is when the product was created
	UpdatedAt   time.Time // UpdatedAt is when the product was last modified
}

// Filter narrows a product listing.
type Filter struct {
	Query  string // Query matches name or SKU, case-insensitive
	Status Status // Status filters by lifecycle state; empty means any
	Page   int64  // Page is the 1-based page number
	Limit  int64  // Limit is the page size
}
