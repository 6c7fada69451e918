package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/pindropapp/pindrop/internal/models"
	"github.com/pindropapp/pindrop/internal/services"
)

type ShareHandler struct {
	shareService services.ShareServiceInterface
}

func NewShareHandler(shareService services.ShareServiceInterface) *ShareHandler {
	return &ShareHandler{shareService: shareService}
}

type SharePinRequest struct {
	UserIDs []string               `json:"user_ids"`
	Pin     *models.PinSyncPayload `json:"pin"`
}

type ShareCategoryRequest struct {
	UserIDs []string `json:"user_ids"`
}

type ShareAllRequest struct {
	Pin *models.PinSyncPayload `json:"pin"`
}

type UnshareRequest struct {
	UserID string `json:"user_id"`
}

type GrantListResponse struct {
	Shares []models.Grant `json:"shares"`
}

func (h *ShareHandler) SharePin(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	pinID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid pin ID")
		return
	}

	var req SharePinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	toUserIDs, err := parseUUIDList(req.UserIDs)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID list")
		return
	}
	if len(toUserIDs) == 0 {
		writeError(w, http.StatusBadRequest, "No target users given")
		return
	}

	result, err := h.shareService.SharePin(r.Context(), user.ID, pinID, toUserIDs, req.Pin)
	if errors.Is(err, services.ErrPinNotFound) {
		writeError(w, http.StatusNotFound, "Pin not found")
		return
	}
	if errors.Is(err, services.ErrNotPinOwner) {
		writeError(w, http.StatusForbidden, "You do not own this pin")
		return
	}
	if err != nil {
		log.Printf("Error sharing pin: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *ShareHandler) ShareCategory(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	categoryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	var req ShareCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	toUserIDs, err := parseUUIDList(req.UserIDs)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID list")
		return
	}
	if len(toUserIDs) == 0 {
		writeError(w, http.StatusBadRequest, "No target users given")
		return
	}

	result, err := h.shareService.ShareCategory(r.Context(), user.ID, categoryID, toUserIDs)
	if errors.Is(err, services.ErrCategoryNotFound) {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	if errors.Is(err, services.ErrNotCategoryOwner) {
		writeError(w, http.StatusForbidden, "You do not own this category")
		return
	}
	if err != nil {
		log.Printf("Error sharing category: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *ShareHandler) SharePinWithAllFriends(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	pinID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid pin ID")
		return
	}

	var req ShareAllRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.shareService.ShareWithAllFriends(r.Context(), user.ID, pinID, req.Pin)
	if errors.Is(err, services.ErrPinNotFound) {
		writeError(w, http.StatusNotFound, "Pin not found")
		return
	}
	if errors.Is(err, services.ErrNotPinOwner) {
		writeError(w, http.StatusForbidden, "You do not own this pin")
		return
	}
	if err != nil {
		log.Printf("Error sharing pin with all friends: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *ShareHandler) UnsharePin(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	pinID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid pin ID")
		return
	}

	var req UnshareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	toUserID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	err = h.shareService.UnsharePin(r.Context(), user.ID, pinID, toUserID)
	if errors.Is(err, services.ErrShareNotFound) {
		writeError(w, http.StatusNotFound, "Share not found")
		return
	}
	if err != nil {
		log.Printf("Error unsharing pin: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ShareHandler) UnshareCategory(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	categoryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	var req UnshareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	toUserID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	err = h.shareService.UnshareCategory(r.Context(), user.ID, categoryID, toUserID)
	if errors.Is(err, services.ErrShareNotFound) {
		writeError(w, http.StatusNotFound, "Share not found")
		return
	}
	if err != nil {
		log.Printf("Error unsharing category: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ShareHandler) GetPinShares(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	pinID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid pin ID")
		return
	}

	grants, err := h.shareService.GetPinShares(r.Context(), user.ID, pinID)
	if errors.Is(err, services.ErrPinNotFound) {
		writeError(w, http.StatusNotFound, "Pin not found")
		return
	}
	if errors.Is(err, services.ErrNotPinOwner) {
		writeError(w, http.StatusForbidden, "You do not own this pin")
		return
	}
	if err != nil {
		log.Printf("Error listing pin shares: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, GrantListResponse{Shares: grants})
}

func (h *ShareHandler) GetCategoryShares(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	categoryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	grants, err := h.shareService.GetCategoryShares(r.Context(), user.ID, categoryID)
	if errors.Is(err, services.ErrCategoryNotFound) {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	if errors.Is(err, services.ErrNotCategoryOwner) {
		writeError(w, http.StatusForbidden, "You do not own this category")
		return
	}
	if err != nil {
		log.Printf("Error listing category shares: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, GrantListResponse{Shares: grants})
}

func (h *ShareHandler) ListSharedWithMe(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	shared, err := h.shareService.ListSharedWithMe(r.Context(), user.ID)
	if err != nil {
		log.Printf("Error listing shared resources: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, shared)
}

func parseUUIDList(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
