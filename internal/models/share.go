package models

import (
	"time"

	"github.com/google/uuid"
)

// SharedPin grants one user read access to one pin. At most one grant per
// (pin, recipient) pair exists regardless of who created it.
type SharedPin struct {
	ID         uuid.UUID `json:"id"`
	PinID      uuid.UUID `json:"pin_id"`
	FromUserID uuid.UUID `json:"from_user_id"`
	ToUserID   uuid.UUID `json:"to_user_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// SharedCategory grants read access to a category and, transitively, to
// every pin assigned to it at read time.
type SharedCategory struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"category_id"`
	FromUserID uuid.UUID `json:"from_user_id"`
	ToUserID   uuid.UUID `json:"to_user_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// ShareResult reports how many targets hold a grant after a share call,
// counting grants that already existed. Per-target failures are absorbed.
type ShareResult struct {
	Count int `json:"count"`
}

// Grant is one grantee of a resource, as listed for the resource owner.
type Grant struct {
	User      UserPublic `json:"user"`
	CreatedAt time.Time  `json:"created_at"`
}

// SharedPinView is a pin shared with the current user, hydrated with the
// granter identity and grant time.
type SharedPinView struct {
	Pin
	SharedBy UserPublic `json:"shared_by"`
	SharedAt time.Time  `json:"shared_at"`
}

// SharedCategoryView additionally carries the category's current pins.
type SharedCategoryView struct {
	Category
	Pins     []Pin      `json:"pins"`
	SharedBy UserPublic `json:"shared_by"`
	SharedAt time.Time  `json:"shared_at"`
}

type SharedWithMe struct {
	Pins       []SharedPinView      `json:"pins"`
	Categories []SharedCategoryView `json:"categories"`
}

// PinSyncPayload is the client-supplied pin snapshot used by sync-on-share
// when the referenced pin does not exist on the server yet. Empty string
// fields are treated as absent.
type PinSyncPayload struct {
	Title     string        `json:"title"`
	Latitude  float64       `json:"lat"`
	Longitude float64       `json:"lon"`
	Address   string        `json:"address"`
	Notes     string        `json:"notes"`
	ImageURL  string        `json:"image_url"`
	Category  string        `json:"category"`
	Memories  []MemoryEntry `json:"memories"`
}
