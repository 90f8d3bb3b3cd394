package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kdm-dev/tubevault/internal/api/middleware"
	"github.com/kdm-dev/tubevault/internal/domain/model"
	"github.com/kdm-dev/tubevault/internal/domain/repository"
	"github.com/kdm-dev/tubevault/internal/usecase"
)

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		registerFn func(ctx context.Context, username, email, password string) (*model.User, error)
		wantStatus int
	}{
		{
			name: "success",
			body: `{"username": "alice", "email": "alice@example.com", "password": "secret123"}`,
			registerFn: func(ctx context.Context, username, email, password string) (*model.User, error) {
				return &model.User{ID: uuid.New(), Username: username, Email: email}, nil
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "duplicate username",
			body: `{"username": "alice", "email": "alice@example.com", "password": "secret123"}`,
			registerFn: func(ctx context.Context, username, email, password string) (*model.User, error) {
				return nil, repository.ErrDuplicateUsername
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "invalid email",
			body: `{"username": "alice", "email": "nope", "password": "secret123"}`,
			registerFn: func(ctx context.Context, username, email, password string) (*model.User, error) {
				return nil, model.ErrInvalidEmail
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "invalid json",
			body: `{`,
			registerFn: func(ctx context.Context, username, email, password string) (*model.User, error) {
				t.Fatal("service should not be called for invalid JSON")
				return nil, nil
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&mockUserService{registerFn: tt.registerFn}, &mockSessionManager{}, time.Hour)

			req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Register(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	userID := uuid.New()

	h := NewAuthHandler(&mockUserService{
		authenticateFn: func(ctx context.Context, username, password string) (*model.User, error) {
			if username != "alice" || password != "secret123" {
				return nil, usecase.ErrInvalidCredentials
			}
			return &model.User{ID: userID, Username: username}, nil
		},
	}, &mockSessionManager{}, time.Hour)

	t.Run("sets session cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(`{"username": "alice", "password": "secret123"}`))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}

		var cookie *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == middleware.SessionCookieName {
				cookie = c
			}
		}
		if cookie == nil {
			t.Fatal("expected session cookie to be set")
		}
		if cookie.Value == "" {
			t.Error("session cookie has empty value")
		}
		if !cookie.HttpOnly {
			t.Error("session cookie must be HttpOnly")
		}
		if cookie.MaxAge != int(time.Hour.Seconds()) {
			t.Errorf("cookie MaxAge = %d, want %d", cookie.MaxAge, int(time.Hour.Seconds()))
		}

		var resp UserResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.ID != userID.String() {
			t.Errorf("user ID = %q, want %q", resp.ID, userID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(`{"username": "alice", "password": "wrong"}`))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
		if len(rec.Result().Cookies()) != 0 {
			t.Error("no cookie should be set on failed login")
		}
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	sessions := &mockSessionManager{}
	h := NewAuthHandler(&mockUserService{}, sessions, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "tok-123"})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if len(sessions.deleted) != 1 || sessions.deleted[0] != "tok-123" {
		t.Errorf("deleted tokens = %v, want [tok-123]", sessions.deleted)
	}

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected session cookie to be expired")
	}
}

func TestAuthHandler_Logout_WithoutSession(t *testing.T) {
	sessions := &mockSessionManager{}
	h := NewAuthHandler(&mockUserService{}, sessions, time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if len(sessions.deleted) != 0 {
		t.Errorf("deleted tokens = %v, want none", sessions.deleted)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	userID := uuid.New()
	h := NewAuthHandler(&mockUserService{}, &mockSessionManager{}, time.Hour)

	t.Run("authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
		rec := serveAuthed(http.HandlerFunc(h.Me), req, testSession(userID, "alice"))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}

		var resp UserResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Username != "alice" {
			t.Errorf("username = %q, want %q", resp.Username, "alice")
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
		rec := serveAuthed(http.HandlerFunc(h.Me), req, nil)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})
}
