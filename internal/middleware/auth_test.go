package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/pindropapp/pindrop/internal/handlers"
	"github.com/pindropapp/pindrop/internal/models"
	"github.com/pindropapp/pindrop/internal/services"
)

// stubAuth and stubUsers embed the service interfaces so only the methods
// the middleware actually calls need stubbing.
type stubAuth struct {
	services.AuthServiceInterface
	parseFunc func(token string) (uuid.UUID, error)
}

func (s *stubAuth) ParseAccessToken(token string) (uuid.UUID, error) {
	return s.parseFunc(token)
}

type stubUsers struct {
	services.UserServiceInterface
	getByIDFunc func(ctx context.Context, id uuid.UUID) (*models.User, error)
}

func (s *stubUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.getByIDFunc(ctx, id)
}

func TestAuthenticate_ValidToken(t *testing.T) {
	userID := uuid.New()
	am := NewAuthMiddleware(
		&stubAuth{parseFunc: func(token string) (uuid.UUID, error) {
			if token != "good-token" {
				t.Fatalf("unexpected token parsed: %q", token)
			}
			return userID, nil
		}},
		&stubUsers{getByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.User, error) {
			return &models.User{ID: id, Username: "ada"}, nil
		}},
	)

	var gotUser *models.User
	handler := am.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = handlers.GetUserFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pins", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotUser == nil || gotUser.ID != userID {
		t.Fatalf("expected user in context, got %+v", gotUser)
	}
}

func TestAuthenticate_NoHeader(t *testing.T) {
	am := NewAuthMiddleware(
		&stubAuth{parseFunc: func(token string) (uuid.UUID, error) {
			t.Fatal("ParseAccessToken should not be called without a header")
			return uuid.Nil, nil
		}},
		&stubUsers{},
	)

	called := false
	handler := am.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if handlers.GetUserFromContext(r.Context()) != nil {
			t.Fatal("expected no user in context")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pins", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Fatal("expected request to pass through")
	}
}

func TestAuthenticate_InvalidTokenPassesThrough(t *testing.T) {
	am := NewAuthMiddleware(
		&stubAuth{parseFunc: func(token string) (uuid.UUID, error) {
			return uuid.Nil, errors.New("token expired")
		}},
		&stubUsers{},
	)

	called := false
	handler := am.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if handlers.GetUserFromContext(r.Context()) != nil {
			t.Fatal("expected no user in context for an invalid token")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pins", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Fatal("expected request to pass through")
	}
}

func TestRequireAuth_NoUser(t *testing.T) {
	am := &AuthMiddleware{}

	handlerCalled := false
	handler := am.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pins", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if handlerCalled {
		t.Fatal("handler should not be called without a user")
	}
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestRequireAuth_WithUser(t *testing.T) {
	am := &AuthMiddleware{}

	handlerCalled := false
	handler := am.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pins", nil)
	req = req.WithContext(handlers.SetUserInContext(req.Context(), &models.User{ID: uuid.New()}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if !handlerCalled {
		t.Fatal("expected handler to be called")
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc123", "abc123"},
		{"bearer abc123", "abc123"},
		{"Basic abc123", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		if got := bearerToken(req); got != tc.want {
			t.Errorf("bearerToken(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}
