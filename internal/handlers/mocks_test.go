package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/pindropapp/pindrop/internal/models"
)

type mockUserService struct {
	CreateFunc         func(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmailFunc     func(ctx context.Context, email string) (*models.User, error)
	GetByUsernameFunc  func(ctx context.Context, username string) (*models.User, error)
	UpdateProfileFunc  func(ctx context.Context, userID uuid.UUID, params models.UpdateProfileParams) (*models.User, error)
	UpdatePasswordFunc func(ctx context.Context, userID uuid.UUID, newPasswordHash string) error
	SearchFunc         func(ctx context.Context, currentUserID uuid.UUID, query string) ([]models.UserSearchResult, error)
}

func (m *mockUserService) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *mockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockUserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, nil
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userID uuid.UUID, params models.UpdateProfileParams) (*models.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, params)
	}
	return nil, nil
}

func (m *mockUserService) UpdatePassword(ctx context.Context, userID uuid.UUID, newPasswordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, userID, newPasswordHash)
	}
	return nil
}

func (m *mockUserService) Search(ctx context.Context, currentUserID uuid.UUID, query string) ([]models.UserSearchResult, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, currentUserID, query)
	}
	return nil, nil
}

type mockAuthService struct {
	HashPasswordFunc         func(password string) (string, error)
	VerifyPasswordFunc       func(hash, password string) bool
	GenerateAccessTokenFunc  func(userID uuid.UUID) (string, error)
	ParseAccessTokenFunc     func(tokenString string) (uuid.UUID, error)
	CreateRefreshTokenFunc   func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateRefreshTokenFunc func(ctx context.Context, token string) (uuid.UUID, error)
	RotateRefreshTokenFunc   func(ctx context.Context, token string) (uuid.UUID, string, error)
	RevokeRefreshTokenFunc   func(ctx context.Context, token string) error
}

func (m *mockAuthService) HashPassword(password string) (string, error) {
	if m.HashPasswordFunc != nil {
		return m.HashPasswordFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *mockAuthService) VerifyPassword(hash, password string) bool {
	if m.VerifyPasswordFunc != nil {
		return m.VerifyPasswordFunc(hash, password)
	}
	return true
}

func (m *mockAuthService) GenerateAccessToken(userID uuid.UUID) (string, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(userID)
	}
	return "access-token", nil
}

func (m *mockAuthService) ParseAccessToken(tokenString string) (uuid.UUID, error) {
	if m.ParseAccessTokenFunc != nil {
		return m.ParseAccessTokenFunc(tokenString)
	}
	return uuid.Nil, nil
}

func (m *mockAuthService) CreateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.CreateRefreshTokenFunc != nil {
		return m.CreateRefreshTokenFunc(ctx, userID)
	}
	return "refresh-token", nil
}

func (m *mockAuthService) ValidateRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	if m.ValidateRefreshTokenFunc != nil {
		return m.ValidateRefreshTokenFunc(ctx, token)
	}
	return uuid.Nil, nil
}

func (m *mockAuthService) RotateRefreshToken(ctx context.Context, token string) (uuid.UUID, string, error) {
	if m.RotateRefreshTokenFunc != nil {
		return m.RotateRefreshTokenFunc(ctx, token)
	}
	return uuid.Nil, "refresh-token", nil
}

func (m *mockAuthService) RevokeRefreshToken(ctx context.Context, token string) error {
	if m.RevokeRefreshTokenFunc != nil {
		return m.RevokeRefreshTokenFunc(ctx, token)
	}
	return nil
}

type mockFriendService struct {
	SendRequestFunc func(ctx context.Context, requesterID, recipientID uuid.UUID) (*models.Friendship, error)
	AcceptFunc      func(ctx context.Context, callerID, friendshipID uuid.UUID) (*models.Friendship, error)
	RejectFunc      func(ctx context.Context, callerID, friendshipID uuid.UUID) error
	RemoveFunc      func(ctx context.Context, callerID, friendshipID uuid.UUID) error
	ListFriendsFunc func(ctx context.Context, userID uuid.UUID) ([]models.Friend, error)
	ListPendingFunc func(ctx context.Context, userID uuid.UUID) (*models.PendingRequests, error)
	AreFriendsFunc  func(ctx context.Context, userID, otherUserID uuid.UUID) (bool, error)
}

func (m *mockFriendService) SendRequest(ctx context.Context, requesterID, recipientID uuid.UUID) (*models.Friendship, error) {
	if m.SendRequestFunc != nil {
		return m.SendRequestFunc(ctx, requesterID, recipientID)
	}
	return nil, nil
}

func (m *mockFriendService) Accept(ctx context.Context, callerID, friendshipID uuid.UUID) (*models.Friendship, error) {
	if m.AcceptFunc != nil {
		return m.AcceptFunc(ctx, callerID, friendshipID)
	}
	return nil, nil
}

func (m *mockFriendService) Reject(ctx context.Context, callerID, friendshipID uuid.UUID) error {
	if m.RejectFunc != nil {
		return m.RejectFunc(ctx, callerID, friendshipID)
	}
	return nil
}

func (m *mockFriendService) Remove(ctx context.Context, callerID, friendshipID uuid.UUID) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, callerID, friendshipID)
	}
	return nil
}

func (m *mockFriendService) ListFriends(ctx context.Context, userID uuid.UUID) ([]models.Friend, error) {
	if m.ListFriendsFunc != nil {
		return m.ListFriendsFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockFriendService) ListPending(ctx context.Context, userID uuid.UUID) (*models.PendingRequests, error) {
	if m.ListPendingFunc != nil {
		return m.ListPendingFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockFriendService) AreFriends(ctx context.Context, userID, otherUserID uuid.UUID) (bool, error) {
	if m.AreFriendsFunc != nil {
		return m.AreFriendsFunc(ctx, userID, otherUserID)
	}
	return false, nil
}

type mockPinService struct {
	CreateFunc         func(ctx context.Context, ownerID uuid.UUID, params models.CreatePinParams) (*models.Pin, error)
	GetByIDFunc        func(ctx context.Context, viewerID, pinID uuid.UUID) (*models.Pin, error)
	ListByOwnerFunc    func(ctx context.Context, ownerID uuid.UUID) ([]models.Pin, error)
	ListPublicFunc     func(ctx context.Context, limit int) ([]models.Pin, error)
	ListByCategoryFunc func(ctx context.Context, viewerID, categoryID uuid.UUID) ([]models.Pin, error)
	UpdateFunc         func(ctx context.Context, ownerID, pinID uuid.UUID, params models.UpdatePinParams) (*models.Pin, error)
	DeleteFunc         func(ctx context.Context, ownerID, pinID uuid.UUID) error
}

func (m *mockPinService) Create(ctx context.Context, ownerID uuid.UUID, params models.CreatePinParams) (*models.Pin, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ownerID, params)
	}
	return nil, nil
}

func (m *mockPinService) GetByID(ctx context.Context, viewerID, pinID uuid.UUID) (*models.Pin, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, viewerID, pinID)
	}
	return nil, nil
}

func (m *mockPinService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Pin, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockPinService) ListPublic(ctx context.Context, limit int) ([]models.Pin, error) {
	if m.ListPublicFunc != nil {
		return m.ListPublicFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockPinService) ListByCategory(ctx context.Context, viewerID, categoryID uuid.UUID) ([]models.Pin, error) {
	if m.ListByCategoryFunc != nil {
		return m.ListByCategoryFunc(ctx, viewerID, categoryID)
	}
	return nil, nil
}

func (m *mockPinService) Update(ctx context.Context, ownerID, pinID uuid.UUID, params models.UpdatePinParams) (*models.Pin, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, ownerID, pinID, params)
	}
	return nil, nil
}

func (m *mockPinService) Delete(ctx context.Context, ownerID, pinID uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, ownerID, pinID)
	}
	return nil
}

type mockCategoryService struct {
	CreateFunc      func(ctx context.Context, ownerID uuid.UUID, params models.CreateCategoryParams) (*models.Category, error)
	GetByIDFunc     func(ctx context.Context, viewerID, categoryID uuid.UUID) (*models.Category, error)
	ListByOwnerFunc func(ctx context.Context, ownerID uuid.UUID) ([]models.CategoryWithPinCount, error)
	ListPublicFunc  func(ctx context.Context, limit int) ([]models.Category, error)
	UpdateFunc      func(ctx context.Context, ownerID, categoryID uuid.UUID, params models.UpdateCategoryParams) (*models.Category, error)
	DeleteFunc      func(ctx context.Context, ownerID, categoryID uuid.UUID) error
}

func (m *mockCategoryService) Create(ctx context.Context, ownerID uuid.UUID, params models.CreateCategoryParams) (*models.Category, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ownerID, params)
	}
	return nil, nil
}

func (m *mockCategoryService) GetByID(ctx context.Context, viewerID, categoryID uuid.UUID) (*models.Category, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, viewerID, categoryID)
	}
	return nil, nil
}

func (m *mockCategoryService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.CategoryWithPinCount, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockCategoryService) ListPublic(ctx context.Context, limit int) ([]models.Category, error) {
	if m.ListPublicFunc != nil {
		return m.ListPublicFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockCategoryService) Update(ctx context.Context, ownerID, categoryID uuid.UUID, params models.UpdateCategoryParams) (*models.Category, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, ownerID, categoryID, params)
	}
	return nil, nil
}

func (m *mockCategoryService) Delete(ctx context.Context, ownerID, categoryID uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, ownerID, categoryID)
	}
	return nil
}

type mockShareService struct {
	SharePinFunc            func(ctx context.Context, fromUserID, pinID uuid.UUID, toUserIDs []uuid.UUID, payload *models.PinSyncPayload) (*models.ShareResult, error)
	ShareCategoryFunc       func(ctx context.Context, fromUserID, categoryID uuid.UUID, toUserIDs []uuid.UUID) (*models.ShareResult, error)
	ShareWithAllFriendsFunc func(ctx context.Context, fromUserID, pinID uuid.UUID, payload *models.PinSyncPayload) (*models.ShareResult, error)
	UnsharePinFunc          func(ctx context.Context, fromUserID, pinID, toUserID uuid.UUID) error
	UnshareCategoryFunc     func(ctx context.Context, fromUserID, categoryID, toUserID uuid.UUID) error
	GetPinSharesFunc        func(ctx context.Context, callerID, pinID uuid.UUID) ([]models.Grant, error)
	GetCategorySharesFunc   func(ctx context.Context, callerID, categoryID uuid.UUID) ([]models.Grant, error)
	ListSharedWithMeFunc    func(ctx context.Context, userID uuid.UUID) (*models.SharedWithMe, error)
}

func (m *mockShareService) SharePin(ctx context.Context, fromUserID, pinID uuid.UUID, toUserIDs []uuid.UUID, payload *models.PinSyncPayload) (*models.ShareResult, error) {
	if m.SharePinFunc != nil {
		return m.SharePinFunc(ctx, fromUserID, pinID, toUserIDs, payload)
	}
	return &models.ShareResult{}, nil
}

func (m *mockShareService) ShareCategory(ctx context.Context, fromUserID, categoryID uuid.UUID, toUserIDs []uuid.UUID) (*models.ShareResult, error) {
	if m.ShareCategoryFunc != nil {
		return m.ShareCategoryFunc(ctx, fromUserID, categoryID, toUserIDs)
	}
	return &models.ShareResult{}, nil
}

func (m *mockShareService) ShareWithAllFriends(ctx context.Context, fromUserID, pinID uuid.UUID, payload *models.PinSyncPayload) (*models.ShareResult, error) {
	if m.ShareWithAllFriendsFunc != nil {
		return m.ShareWithAllFriendsFunc(ctx, fromUserID, pinID, payload)
	}
	return &models.ShareResult{}, nil
}

func (m *mockShareService) UnsharePin(ctx context.Context, fromUserID, pinID, toUserID uuid.UUID) error {
	if m.UnsharePinFunc != nil {
		return m.UnsharePinFunc(ctx, fromUserID, pinID, toUserID)
	}
	return nil
}

func (m *mockShareService) UnshareCategory(ctx context.Context, fromUserID, categoryID, toUserID uuid.UUID) error {
	if m.UnshareCategoryFunc != nil {
		return m.UnshareCategoryFunc(ctx, fromUserID, categoryID, toUserID)
	}
	return nil
}

func (m *mockShareService) GetPinShares(ctx context.Context, callerID, pinID uuid.UUID) ([]models.Grant, error) {
	if m.GetPinSharesFunc != nil {
		return m.GetPinSharesFunc(ctx, callerID, pinID)
	}
	return nil, nil
}

func (m *mockShareService) GetCategoryShares(ctx context.Context, callerID, categoryID uuid.UUID) ([]models.Grant, error) {
	if m.GetCategorySharesFunc != nil {
		return m.GetCategorySharesFunc(ctx, callerID, categoryID)
	}
	return nil, nil
}

func (m *mockShareService) ListSharedWithMe(ctx context.Context, userID uuid.UUID) (*models.SharedWithMe, error) {
	if m.ListSharedWithMeFunc != nil {
		return m.ListSharedWithMeFunc(ctx, userID)
	}
	return &models.SharedWithMe{}, nil
}
