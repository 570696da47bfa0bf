// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gatherly/gatherly/internal/handler/dto"
	"github.com/gatherly/gatherly/internal/service"
)

// Handler serves the service-level endpoints.
type Handler struct {
	now func() time.Time
}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{now: time.Now}
}

// InfoResponse is returned by the root endpoint.
type InfoResponse struct {
	Message   string `json:"message"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Info reports that the server is up.
// GET /
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, InfoResponse{
		Message:   "Server is running!",
		Status:    "OK",
		Timestamp: h.now().Format(time.RFC3339),
	})
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError writes an {error} response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: message})
}

// errInvalidBody marks a request body that is not valid JSON for its target.
var errInvalidBody = errors.New("invalid request body")

// decodeJSON decodes the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeServiceError maps service errors to HTTP responses.
// Unmapped errors become 500 with the failure detail surfaced.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, r *http.Request, err error, internalMessage string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, "Name, email, and password are required")
	case errors.Is(err, errInvalidBody):
		writeError(w, http.StatusBadRequest, "Invalid request body")
	case errors.Is(err, dto.ErrInvalidDateTime):
		writeError(w, http.StatusBadRequest, "Invalid dateTime")
	case errors.Is(err, dto.ErrInvalidField):
		writeError(w, http.StatusBadRequest, "Invalid event fields")
	case errors.Is(err, service.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "Unauthorized")
	case errors.Is(err, service.ErrEventNotFound):
		writeError(w, http.StatusNotFound, "Event not found")
	default:
		logger.Error("internal_error",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
			Error:  internalMessage,
			Detail: err.Error(),
		})
	}
}
