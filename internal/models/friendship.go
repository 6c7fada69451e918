package models

import (
	"time"

	"github.com/google/uuid"
)

type FriendshipStatus string

const (
	FriendshipStatusPending  FriendshipStatus = "pending"
	FriendshipStatusAccepted FriendshipStatus = "accepted"
)

// Friendship is a directed edge: the requester created it, the recipient
// accepts or rejects it. Rejection and removal delete the row outright.
type Friendship struct {
	ID          uuid.UUID        `json:"id"`
	RequesterID uuid.UUID        `json:"requester_id"`
	RecipientID uuid.UUID        `json:"recipient_id"`
	Status      FriendshipStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
}

// OtherParty returns the counterpart of userID on the edge.
func (f *Friendship) OtherParty(userID uuid.UUID) uuid.UUID {
	if f.RequesterID == userID {
		return f.RecipientID
	}
	return f.RequesterID
}

// Friend is one entry of a user's friend list: the accepted edge plus the
// other party's identity, direction already normalized.
type Friend struct {
	FriendshipID uuid.UUID  `json:"friendship_id"`
	User         UserPublic `json:"user"`
	CreatedAt    time.Time  `json:"created_at"`
}

// FriendRequestEntry is a pending edge seen from one side: the counterparty
// identity plus the edge id needed to accept, reject or cancel it.
type FriendRequestEntry struct {
	FriendshipID uuid.UUID  `json:"friendship_id"`
	User         UserPublic `json:"user"`
	CreatedAt    time.Time  `json:"created_at"`
}

type PendingRequests struct {
	Incoming []FriendRequestEntry `json:"incoming"`
	Outgoing []FriendRequestEntry `json:"outgoing"`
}
