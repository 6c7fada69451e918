package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color,omitempty"`
	Icon      *string   `json:"icon,omitempty"`
	IsPublic  bool      `json:"is_public"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryWithPinCount carries the number of pins currently assigned to the
// category; the count is computed per query, never stored.
type CategoryWithPinCount struct {
	Category
	PinCount int `json:"pin_count"`
}

type CreateCategoryParams struct {
	Name     string
	Color    *string
	Icon     *string
	IsPublic bool
}

type UpdateCategoryParams struct {
	Name     *string
	Color    *string
	Icon     *string
	IsPublic *bool
}
