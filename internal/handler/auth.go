package handler

import (
	"log/slog"
	"net/http"

	"github.com/gatherly/gatherly/internal/auth"
	"github.com/gatherly/gatherly/internal/handler/dto"
	"github.com/gatherly/gatherly/internal/service"
)

// AuthHandler handles HTTP requests for account and session operations.
type AuthHandler struct {
	svc          *service.AuthService
	logger       *slog.Logger
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		svc:          svc,
		logger:       logger,
		cookieSecure: cookieSecure,
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.svc.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		writeServiceError(w, h.logger, r, err, "Registration failed")
		return
	}

	h.logger.Info("user_registered", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, dto.MessageResponse{
		Message: "User registered successfully, Please log in!",
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, r, err, "Login failed")
		return
	}

	http.SetCookie(w, auth.NewSessionCookie(result.Token, result.ExpiresAt, h.cookieSecure))

	h.logger.Info("user_logged_in", "user_id", result.User.ID)

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Message: "Login successful",
		User: dto.ProfileResponse{
			Name:     result.User.Name,
			PhotoURL: result.User.PhotoURL,
		},
	})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	user, err := h.svc.Me(r.Context(), *identity)
	if err != nil {
		writeServiceError(w, h.logger, r, err, "Failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, dto.ProfileResponse{
		Name:     user.Name,
		PhotoURL: user.PhotoURL,
	})
}

// Logout handles POST /auth/logout.
// Only the cookie is cleared; an already-issued token stays valid until it expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.ClearSessionCookie(h.cookieSecure))
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Logged out successfully!"})
}
