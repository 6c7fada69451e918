package models

import (
	"time"

	"github.com/google/uuid"
)

type Pin struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	Address     *string    `json:"address,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty"`
	IsPublic    bool       `json:"is_public"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreatePinParams struct {
	Title       string
	Description *string
	Latitude    float64
	Longitude   float64
	Address     *string
	Notes       *string
	ImageURL    *string
	IsPublic    bool
	CategoryID  *uuid.UUID
}

type UpdatePinParams struct {
	Title       *string
	Description *string
	Latitude    *float64
	Longitude   *float64
	Address     *string
	Notes       *string
	ImageURL    *string
	IsPublic    *bool
	CategoryID  *uuid.UUID
	// ClearCategory detaches the pin from its category; CategoryID wins if
	// both are set.
	ClearCategory bool
}

// ValidCoordinates reports whether a lat/lon pair is on the globe.
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
