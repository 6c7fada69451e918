package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/pindropapp/pindrop/internal/models"
	"github.com/pindropapp/pindrop/internal/services"
)

func TestCategoryHandler_Create_MissingName(t *testing.T) {
	handler := NewCategoryHandler(&mockCategoryService{CreateFunc: func(ctx context.Context, ownerID uuid.UUID, params models.CreateCategoryParams) (*models.Category, error) {
		t.Fatal("Create should not be called without a name")
		return nil, nil
	}}, &mockPinService{})

	body, _ := json.Marshal(CreateCategoryRequest{})
	req := authedRequest(http.MethodPost, "/api/v1/categories", body, &models.User{ID: uuid.New()})
	rr := httptest.NewRecorder()
	handler.Create(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestCategoryHandler_Create_Success(t *testing.T) {
	owner := &models.User{ID: uuid.New()}
	categoryID := uuid.New()
	handler := NewCategoryHandler(&mockCategoryService{CreateFunc: func(ctx context.Context, ownerID uuid.UUID, params models.CreateCategoryParams) (*models.Category, error) {
		if ownerID != owner.ID || params.Name != "Food" {
			t.Fatalf("unexpected create args: %s, %+v", ownerID, params)
		}
		return &models.Category{ID: categoryID, Name: params.Name, OwnerID: ownerID}, nil
	}}, &mockPinService{})

	body, _ := json.Marshal(CreateCategoryRequest{Name: "Food"})
	req := authedRequest(http.MethodPost, "/api/v1/categories", body, owner)
	rr := httptest.NewRecorder()
	handler.Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var category models.Category
	if err := json.Unmarshal(rr.Body.Bytes(), &category); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if category.ID != categoryID {
		t.Fatalf("unexpected category in response: %+v", category)
	}
}

func TestCategoryHandler_Get_NotFound(t *testing.T) {
	handler := NewCategoryHandler(&mockCategoryService{GetByIDFunc: func(ctx context.Context, viewerID, categoryID uuid.UUID) (*models.Category, error) {
		return nil, services.ErrCategoryNotFound
	}}, &mockPinService{})

	req := authedRequest(http.MethodGet, "/api/v1/categories/x", nil, &models.User{ID: uuid.New()})
	req.SetPathValue("id", uuid.New().String())
	rr := httptest.NewRecorder()
	handler.Get(rr, req)
	assertErrorResponse(t, rr, http.StatusNotFound, "Category not found")
}

func TestCategoryHandler_GetPins_FiltersThroughPinService(t *testing.T) {
	viewer := &models.User{ID: uuid.New()}
	categoryID := uuid.New()
	handler := NewCategoryHandler(&mockCategoryService{}, &mockPinService{ListByCategoryFunc: func(ctx context.Context, viewerID, id uuid.UUID) ([]models.Pin, error) {
		if viewerID != viewer.ID || id != categoryID {
			t.Fatalf("unexpected list args: %s, %s", viewerID, id)
		}
		return []models.Pin{{ID: uuid.New(), Title: "Cafe"}}, nil
	}})

	req := authedRequest(http.MethodGet, "/api/v1/categories/x/pins", nil, viewer)
	req.SetPathValue("id", categoryID.String())
	rr := httptest.NewRecorder()
	handler.GetPins(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var response PinListResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(response.Pins) != 1 {
		t.Fatalf("unexpected pins: %+v", response.Pins)
	}
}

func TestCategoryHandler_List_CarriesPinCounts(t *testing.T) {
	handler := NewCategoryHandler(&mockCategoryService{ListByOwnerFunc: func(ctx context.Context, ownerID uuid.UUID) ([]models.CategoryWithPinCount, error) {
		return []models.CategoryWithPinCount{{Category: models.Category{ID: uuid.New(), Name: "Food"}, PinCount: 3}}, nil
	}}, &mockPinService{})

	req := authedRequest(http.MethodGet, "/api/v1/categories", nil, &models.User{ID: uuid.New()})
	rr := httptest.NewRecorder()
	handler.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var response CategoryListResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(response.Categories) != 1 || response.Categories[0].PinCount != 3 {
		t.Fatalf("unexpected categories: %+v", response.Categories)
	}
}

func TestCategoryHandler_Update_NotOwner(t *testing.T) {
	handler := NewCategoryHandler(&mockCategoryService{UpdateFunc: func(ctx context.Context, ownerID, categoryID uuid.UUID, params models.UpdateCategoryParams) (*models.Category, error) {
		return nil, services.ErrNotCategoryOwner
	}}, &mockPinService{})

	body, _ := json.Marshal(UpdateCategoryRequest{})
	req := authedRequest(http.MethodPut, "/api/v1/categories/x", body, &models.User{ID: uuid.New()})
	req.SetPathValue("id", uuid.New().String())
	rr := httptest.NewRecorder()
	handler.Update(rr, req)
	assertErrorResponse(t, rr, http.StatusForbidden, "You do not own this category")
}

func TestCategoryHandler_Delete_Success(t *testing.T) {
	handler := NewCategoryHandler(&mockCategoryService{DeleteFunc: func(ctx context.Context, ownerID, categoryID uuid.UUID) error {
		return nil
	}}, &mockPinService{})

	req := authedRequest(http.MethodDelete, "/api/v1/categories/x", nil, &models.User{ID: uuid.New()})
	req.SetPathValue("id", uuid.New().String())
	rr := httptest.NewRecorder()
	handler.Delete(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
}
