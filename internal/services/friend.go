package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pindropapp/pindrop/internal/models"
)

var (
	ErrFriendshipNotFound     = errors.New("friendship not found")
	ErrFriendshipExists       = errors.New("friendship already exists")
	ErrCannotFriendSelf       = errors.New("cannot send friend request to yourself")
	ErrFriendshipNotPending   = errors.New("friendship is not pending")
	ErrNotFriendshipRecipient = errors.New("only the recipient can accept or reject")
	ErrNotFriendshipParty     = errors.New("caller is not part of this friendship")
)

type FriendService struct {
	db DBConn
}

func NewFriendService(db DBConn) *FriendService {
	return &FriendService{db: db}
}

// SendRequest creates a pending edge from requester to recipient. The
// existence check covers both orientations so a mirror request cannot
// create a duplicate pair.
func (s *FriendService) SendRequest(ctx context.Context, requesterID, recipientID uuid.UUID) (*models.Friendship, error) {
	if requesterID == recipientID {
		return nil, ErrCannotFriendSelf
	}

	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM friendships
			WHERE (requester_id = $1 AND recipient_id = $2)
			   OR (requester_id = $2 AND recipient_id = $1)
		)`,
		requesterID, recipientID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking friendship existence: %w", err)
	}
	if exists {
		return nil, ErrFriendshipExists
	}

	friendship := &models.Friendship{}
	err = s.db.QueryRow(ctx,
		`INSERT INTO friendships (requester_id, recipient_id, status)
		 VALUES ($1, $2, 'pending')
		 RETURNING id, requester_id, recipient_id, status, created_at`,
		requesterID, recipientID,
	).Scan(&friendship.ID, &friendship.RequesterID, &friendship.RecipientID, &friendship.Status, &friendship.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating friendship: %w", err)
	}

	return friendship, nil
}

func (s *FriendService) Accept(ctx context.Context, callerID, friendshipID uuid.UUID) (*models.Friendship, error) {
	friendship, err := s.getByID(ctx, friendshipID)
	if err != nil {
		return nil, err
	}

	if friendship.RecipientID != callerID {
		return nil, ErrNotFriendshipRecipient
	}
	if friendship.Status != models.FriendshipStatusPending {
		return nil, ErrFriendshipNotPending
	}

	_, err = s.db.Exec(ctx,
		"UPDATE friendships SET status = 'accepted' WHERE id = $1",
		friendshipID,
	)
	if err != nil {
		return nil, fmt.Errorf("accepting friendship: %w", err)
	}

	friendship.Status = models.FriendshipStatusAccepted
	return friendship, nil
}

func (s *FriendService) Reject(ctx context.Context, callerID, friendshipID uuid.UUID) error {
	friendship, err := s.getByID(ctx, friendshipID)
	if err != nil {
		return err
	}

	if friendship.RecipientID != callerID {
		return ErrNotFriendshipRecipient
	}

	_, err = s.db.Exec(ctx, "DELETE FROM friendships WHERE id = $1", friendshipID)
	if err != nil {
		return fmt.Errorf("rejecting friendship: %w", err)
	}
	return nil
}

// Remove deletes the edge regardless of status; either party may call it,
// which covers both unfriending and cancelling one's own pending request.
func (s *FriendService) Remove(ctx context.Context, callerID, friendshipID uuid.UUID) error {
	friendship, err := s.getByID(ctx, friendshipID)
	if err != nil {
		return err
	}

	if friendship.RequesterID != callerID && friendship.RecipientID != callerID {
		return ErrNotFriendshipParty
	}

	_, err = s.db.Exec(ctx, "DELETE FROM friendships WHERE id = $1", friendshipID)
	if err != nil {
		return fmt.Errorf("removing friendship: %w", err)
	}
	return nil
}

// ListFriends returns the other party of every accepted edge touching
// userID, so callers never see their own id in the result.
func (s *FriendService) ListFriends(ctx context.Context, userID uuid.UUID) ([]models.Friend, error) {
	rows, err := s.db.Query(ctx,
		`SELECT f.id, f.created_at, u.id, u.username, u.display_name
		 FROM friendships f
		 JOIN users u ON u.id = CASE WHEN f.requester_id = $1 THEN f.recipient_id ELSE f.requester_id END
		 WHERE (f.requester_id = $1 OR f.recipient_id = $1) AND f.status = 'accepted'
		 ORDER BY u.username`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing friends: %w", err)
	}
	defer rows.Close()

	var friends []models.Friend
	for rows.Next() {
		var f models.Friend
		if err := rows.Scan(&f.FriendshipID, &f.CreatedAt, &f.User.ID, &f.User.Username, &f.User.DisplayName); err != nil {
			return nil, fmt.Errorf("scanning friend: %w", err)
		}
		friends = append(friends, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing friends: %w", err)
	}

	if friends == nil {
		friends = []models.Friend{}
	}
	return friends, nil
}

// ListPending returns the user's pending edges split into incoming
// (awaiting the user's decision) and outgoing (awaiting the other side's).
func (s *FriendService) ListPending(ctx context.Context, userID uuid.UUID) (*models.PendingRequests, error) {
	incoming, err := s.listPendingSide(ctx,
		`SELECT f.id, f.created_at, u.id, u.username, u.display_name
		 FROM friendships f
		 JOIN users u ON u.id = f.requester_id
		 WHERE f.recipient_id = $1 AND f.status = 'pending'
		 ORDER BY f.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing incoming requests: %w", err)
	}

	outgoing, err := s.listPendingSide(ctx,
		`SELECT f.id, f.created_at, u.id, u.username, u.display_name
		 FROM friendships f
		 JOIN users u ON u.id = f.recipient_id
		 WHERE f.requester_id = $1 AND f.status = 'pending'
		 ORDER BY f.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing outgoing requests: %w", err)
	}

	return &models.PendingRequests{Incoming: incoming, Outgoing: outgoing}, nil
}

func (s *FriendService) listPendingSide(ctx context.Context, sql string, userID uuid.UUID) ([]models.FriendRequestEntry, error) {
	rows, err := s.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.FriendRequestEntry
	for rows.Next() {
		var e models.FriendRequestEntry
		if err := rows.Scan(&e.FriendshipID, &e.CreatedAt, &e.User.ID, &e.User.Username, &e.User.DisplayName); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if entries == nil {
		entries = []models.FriendRequestEntry{}
	}
	return entries, nil
}

// AreFriends reports whether an accepted edge exists between the two users
// in either orientation.
func (s *FriendService) AreFriends(ctx context.Context, userID, otherUserID uuid.UUID) (bool, error) {
	var areFriends bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM friendships
			WHERE ((requester_id = $1 AND recipient_id = $2) OR (requester_id = $2 AND recipient_id = $1))
			  AND status = 'accepted'
		)`,
		userID, otherUserID,
	).Scan(&areFriends)
	if err != nil {
		return false, fmt.Errorf("checking friendship: %w", err)
	}
	return areFriends, nil
}

func (s *FriendService) getByID(ctx context.Context, friendshipID uuid.UUID) (*models.Friendship, error) {
	friendship := &models.Friendship{}
	err := s.db.QueryRow(ctx,
		`SELECT id, requester_id, recipient_id, status, created_at
		 FROM friendships WHERE id = $1`,
		friendshipID,
	).Scan(&friendship.ID, &friendship.RequesterID, &friendship.RecipientID, &friendship.Status, &friendship.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFriendshipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting friendship: %w", err)
	}
	return friendship, nil
}
