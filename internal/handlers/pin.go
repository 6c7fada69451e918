package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/pindropapp/pindrop/internal/models"
	"github.com/pindropapp/pindrop/internal/services"
)

type PinHandler struct {
	pinService services.PinServiceInterface
}

func NewPinHandler(pinService services.PinServiceInterface) *PinHandler {
	return &PinHandler{pinService: pinService}
}

type CreatePinRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Address     *string  `json:"address"`
	Notes       *string  `json:"notes"`
	ImageURL    *string  `json:"image_url"`
	IsPublic    bool     `json:"is_public"`
	CategoryID  *string  `json:"category_id"`
}

type UpdatePinRequest struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Address       *string  `json:"address"`
	Notes         *string  `json:"notes"`
	ImageURL      *string  `json:"image_url"`
	IsPublic      *bool    `json:"is_public"`
	CategoryID    *string  `json:"category_id"`
	ClearCategory bool     `json:"clear_category"`
}

type PinListResponse struct {
	Pins []models.Pin `json:"pins"`
}

func (h *PinHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreatePinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || len(req.Title) > 200 {
		writeError(w, http.StatusBadRequest, "Title must be between 1 and 200 characters")
		return
	}
	if !models.ValidCoordinates(req.Latitude, req.Longitude) {
		writeError(w, http.StatusBadRequest, "Coordinates out of range")
		return
	}

	categoryID, err := parseOptionalUUID(req.CategoryID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	pin, err := h.pinService.Create(r.Context(), user.ID, models.CreatePinParams{
		Title:       req.Title,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Address:     req.Address,
		Notes:       req.Notes,
		ImageURL:    req.ImageURL,
		IsPublic:    req.IsPublic,
		CategoryID:  categoryID,
	})
	if errors.Is(err, services.ErrCategoryNotFound) {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		log.Printf("Error creating pin: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, pin)
}

func (h *PinHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	pin, err := h.pinService.GetByID(r.Context(), user.ID, pinID)
	if errors.Is(err, services.ErrPinNotFound) {
		writeError(w, http.StatusNotFound, "Pin not found")
		return
	}
	if err != nil {
		log.Printf("Error getting pin: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, pin)
}

func (h *PinHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	pins, err := h.pinService.ListByOwner(r.Context(), user.ID)
	if err != nil {
		log.Printf("Error listing pins: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, PinListResponse{Pins: pins})
}

func (h *PinHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	pins, err := h.pinService.ListPublic(r.Context(), limit)
	if err != nil {
		log.Printf("Error listing public pins: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, PinListResponse{Pins: pins})
}

func (h *PinHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req UpdatePinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Latitude != nil || req.Longitude != nil {
		if req.Latitude == nil || req.Longitude == nil {
			writeError(w, http.StatusBadRequest, "Latitude and longitude must be updated together")
			return
		}
		if !models.ValidCoordinates(*req.Latitude, *req.Longitude) {
			writeError(w, http.StatusBadRequest, "Coordinates out of range")
			return
		}
	}

	categoryID, err := parseOptionalUUID(req.CategoryID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	pin, err := h.pinService.Update(r.Context(), user.ID, pinID, models.UpdatePinParams{
		Title:         req.Title,
		Description:   req.Description,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Address:       req.Address,
		Notes:         req.Notes,
		ImageURL:      req.ImageURL,
		IsPublic:      req.IsPublic,
		CategoryID:    categoryID,
		ClearCategory: req.ClearCategory,
	})
	if errors.Is(err, services.ErrPinNotFound) {
		writeError(w, http.StatusNotFound, "Pin not found")
		return
	}
	if errors.Is(err, services.ErrNotPinOwner) {
		writeError(w, http.StatusForbidden, "You do not own this pin")
		return
	}
	if errors.Is(err, services.ErrCategoryNotFound) {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		log.Printf("Error updating pin: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, pin)
}

func (h *PinHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	err = h.pinService.Delete(r.Context(), user.ID, pinID)
	if errors.Is(err, services.ErrPinNotFound) {
		writeError(w, http.StatusNotFound, "Pin not found")
		return
	}
	if errors.Is(err, services.ErrNotPinOwner) {
		writeError(w, http.StatusForbidden, "You do not own this pin")
		return
	}
	if err != nil {
		log.Printf("Error deleting pin: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseOptionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
