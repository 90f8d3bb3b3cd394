package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kdm-dev/tubevault/internal/api/middleware"
	"github.com/kdm-dev/tubevault/internal/domain/model"
	"github.com/kdm-dev/tubevault/internal/domain/repository"
	"github.com/kdm-dev/tubevault/internal/infrastructure/session"
	"github.com/kdm-dev/tubevault/internal/usecase"
)

// sessionManager issues and revokes login sessions. *session.Store
// satisfies this interface.
type sessionManager interface {
	Create(ctx context.Context, userID uuid.UUID, username string) (*session.Session, error)
	Delete(ctx context.Context, token string) error
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// AuthHandler handles registration, login, and logout.
type AuthHandler struct {
	users    usecase.UserService
	sessions sessionManager

	sessionTTL time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users usecase.UserService, sessions sessionManager, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
	}
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	user, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusCreated, UserResponse{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
	})
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	sess, err := h.sessions.Create(r.Context(), user.ID, user.Username)
	if err != nil {
		Error(w, http.StatusInternalServerError, "session_error", "Failed to create session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	JSON(w, http.StatusOK, UserResponse{
		ID:       user.ID.String(),
		Username: user.Username,
	})
}

// Logout handles POST /v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			Error(w, http.StatusInternalServerError, "session_error", "Failed to revoke session")
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	if sess == nil {
		Error(w, http.StatusUnauthorized, "unauthorized", "No active session")
		return
	}

	JSON(w, http.StatusOK, UserResponse{
		ID:       sess.UserID.String(),
		Username: sess.Username,
	})
}

func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrDuplicateUsername):
		Error(w, http.StatusConflict, "duplicate_username", "Username already exists")
	case errors.Is(err, repository.ErrDuplicateEmail):
		Error(w, http.StatusConflict, "duplicate_email", "Email already registered")
	case errors.Is(err, usecase.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
	case errors.Is(err, model.ErrEmptyUsername),
		errors.Is(err, model.ErrUsernameTooShort),
		errors.Is(err, model.ErrUsernameTooLong),
		errors.Is(err, model.ErrInvalidEmail),
		errors.Is(err, model.ErrPasswordTooShort):
		Error(w, http.StatusBadRequest, "invalid_input", err.Error())
	default:
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
