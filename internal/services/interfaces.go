package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/pindropapp/pindrop/internal/models"
)

// PinAccessResolver answers whether a user may read a pin. Satisfied by
// AccessService; narrowed so pin reads can be tested without the full
// resolver.
type PinAccessResolver interface {
	CanReadPin(ctx context.Context, userID, pinID uuid.UUID) (bool, error)
}

// CategoryAccessResolver answers whether a user may read a category.
type CategoryAccessResolver interface {
	CanReadCategory(ctx context.Context, userID, categoryID uuid.UUID) (bool, error)
}

// UserServiceInterface defines the contract for user operations.
type UserServiceInterface interface {
	Create(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, params models.UpdateProfileParams) (*models.User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, newPasswordHash string) error
	Search(ctx context.Context, currentUserID uuid.UUID, query string) ([]models.UserSearchResult, error)
}

// AuthServiceInterface defines the contract for authentication operations.
type AuthServiceInterface interface {
	HashPassword(password string) (string, error)
	VerifyPassword(hash, password string) bool
	GenerateAccessToken(userID uuid.UUID) (string, error)
	ParseAccessToken(tokenString string) (uuid.UUID, error)
	CreateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateRefreshToken(ctx context.Context, token string) (uuid.UUID, error)
	RotateRefreshToken(ctx context.Context, token string) (uuid.UUID, string, error)
	RevokeRefreshToken(ctx context.Context, token string) error
}

// FriendServiceInterface defines the contract for friendship operations.
type FriendServiceInterface interface {
	SendRequest(ctx context.Context, requesterID, recipientID uuid.UUID) (*models.Friendship, error)
	Accept(ctx context.Context, callerID, friendshipID uuid.UUID) (*models.Friendship, error)
	Reject(ctx context.Context, callerID, friendshipID uuid.UUID) error
	Remove(ctx context.Context, callerID, friendshipID uuid.UUID) error
	ListFriends(ctx context.Context, userID uuid.UUID) ([]models.Friend, error)
	ListPending(ctx context.Context, userID uuid.UUID) (*models.PendingRequests, error)
	AreFriends(ctx context.Context, userID, otherUserID uuid.UUID) (bool, error)
}

// PinServiceInterface defines the contract for pin operations.
type PinServiceInterface interface {
	Create(ctx context.Context, ownerID uuid.UUID, params models.CreatePinParams) (*models.Pin, error)
	GetByID(ctx context.Context, viewerID, pinID uuid.UUID) (*models.Pin, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Pin, error)
	ListPublic(ctx context.Context, limit int) ([]models.Pin, error)
	ListByCategory(ctx context.Context, viewerID, categoryID uuid.UUID) ([]models.Pin, error)
	Update(ctx context.Context, ownerID, pinID uuid.UUID, params models.UpdatePinParams) (*models.Pin, error)
	Delete(ctx context.Context, ownerID, pinID uuid.UUID) error
}

// CategoryServiceInterface defines the contract for category operations.
type CategoryServiceInterface interface {
	Create(ctx context.Context, ownerID uuid.UUID, params models.CreateCategoryParams) (*models.Category, error)
	GetByID(ctx context.Context, viewerID, categoryID uuid.UUID) (*models.Category, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.CategoryWithPinCount, error)
	ListPublic(ctx context.Context, limit int) ([]models.Category, error)
	Update(ctx context.Context, ownerID, categoryID uuid.UUID, params models.UpdateCategoryParams) (*models.Category, error)
	Delete(ctx context.Context, ownerID, categoryID uuid.UUID) error
}

// ShareServiceInterface defines the contract for grant operations.
type ShareServiceInterface interface {
	SharePin(ctx context.Context, fromUserID, pinID uuid.UUID, toUserIDs []uuid.UUID, payload *models.PinSyncPayload) (*models.ShareResult, error)
	ShareCategory(ctx context.Context, fromUserID, categoryID uuid.UUID, toUserIDs []uuid.UUID) (*models.ShareResult, error)
	ShareWithAllFriends(ctx context.Context, fromUserID, pinID uuid.UUID, payload *models.PinSyncPayload) (*models.ShareResult, error)
	UnsharePin(ctx context.Context, fromUserID, pinID, toUserID uuid.UUID) error
	UnshareCategory(ctx context.Context, fromUserID, categoryID, toUserID uuid.UUID) error
	GetPinShares(ctx context.Context, callerID, pinID uuid.UUID) ([]models.Grant, error)
	GetCategoryShares(ctx context.Context, callerID, categoryID uuid.UUID) ([]models.Grant, error)
	ListSharedWithMe(ctx context.Context, userID uuid.UUID) (*models.SharedWithMe, error)
}
