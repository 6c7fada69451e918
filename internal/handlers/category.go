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

type CategoryHandler struct {
	categoryService services.CategoryServiceInterface
	pinService      services.PinServiceInterface
}

func NewCategoryHandler(categoryService services.CategoryServiceInterface, pinService services.PinServiceInterface) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		pinService:      pinService,
	}
}

type CreateCategoryRequest struct {
	Name     string  `json:"name"`
	Color    *string `json:"color"`
	Icon     *string `json:"icon"`
	IsPublic bool    `json:"is_public"`
}

type UpdateCategoryRequest struct {
	Name     *string `json:"name"`
	Color    *string `json:"color"`
	Icon     *string `json:"icon"`
	IsPublic *bool   `json:"is_public"`
}

type CategoryListResponse struct {
	Categories []models.CategoryWithPinCount `json:"categories"`
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || len(req.Name) > 100 {
		writeError(w, http.StatusBadRequest, "Name must be between 1 and 100 characters")
		return
	}

	category, err := h.categoryService.Create(r.Context(), user.ID, models.CreateCategoryParams{
		Name:     req.Name,
		Color:    req.Color,
		Icon:     req.Icon,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		log.Printf("Error creating category: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	category, err := h.categoryService.GetByID(r.Context(), user.ID, categoryID)
	if errors.Is(err, services.ErrCategoryNotFound) {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		log.Printf("Error getting category: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, category)
}

// GetPins lists the category's pins the caller may see.
func (h *CategoryHandler) GetPins(w http.ResponseWriter, r *http.Request) {
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

	pins, err := h.pinService.ListByCategory(r.Context(), user.ID, categoryID)
	if err != nil {
		log.Printf("Error listing category pins: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, PinListResponse{Pins: pins})
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	categories, err := h.categoryService.ListByOwner(r.Context(), user.ID)
	if err != nil {
		log.Printf("Error listing categories: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, CategoryListResponse{Categories: categories})
}

func (h *CategoryHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	categories, err := h.categoryService.ListPublic(r.Context(), limit)
	if err != nil {
		log.Printf("Error listing public categories: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string][]models.Category{"categories": categories})
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" || len(trimmed) > 100 {
			writeError(w, http.StatusBadRequest, "Name must be between 1 and 100 characters")
			return
		}
		req.Name = &trimmed
	}

	category, err := h.categoryService.Update(r.Context(), user.ID, categoryID, models.UpdateCategoryParams{
		Name:     req.Name,
		Color:    req.Color,
		Icon:     req.Icon,
		IsPublic: req.IsPublic,
	})
	if errors.Is(err, services.ErrCategoryNotFound) {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	if errors.Is(err, services.ErrNotCategoryOwner) {
		writeError(w, http.StatusForbidden, "You do not own this category")
		return
	}
	if err != nil {
		log.Printf("Error updating category: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	err = h.categoryService.Delete(r.Context(), user.ID, categoryID)
	if errors.Is(err, services.ErrCategoryNotFound) {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	if errors.Is(err, services.ErrNotCategoryOwner) {
		writeError(w, http.StatusForbidden, "You do not own this category")
		return
	}
	if err != nil {
		log.Printf("Error deleting category: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
