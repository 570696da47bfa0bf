package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gatherly/gatherly/internal/auth"
	"github.com/gatherly/gatherly/internal/handler/dto"
	"github.com/gatherly/gatherly/internal/model"
	"github.com/gatherly/gatherly/internal/service"
)

// EventHandler handles HTTP requests for event operations.
type EventHandler struct {
	svc    *service.EventService
	logger *slog.Logger
	loc    *time.Location
}

// NewEventHandler creates a new EventHandler.
// loc is used to read dateTime values sent without a zone.
func NewEventHandler(svc *service.EventService, logger *slog.Logger, loc *time.Location) *EventHandler {
	if loc == nil {
		loc = time.Local
	}
	return &EventHandler{
		svc:    svc,
		logger: logger,
		loc:    loc,
	}
}

// Create handles POST /event/create-event.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	var req dto.CreateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	scheduledAt, err := req.ScheduledAt(h.loc)
	if err != nil {
		writeServiceError(w, h.logger, r, err, "Failed to create event")
		return
	}

	event, err := h.svc.Create(r.Context(), *identity, service.CreateEventInput{
		Title:       req.Title,
		DateTime:    scheduledAt,
		Location:    req.Location,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, h.logger, r, err, "Failed to create event")
		return
	}

	h.logger.Info("event_created",
		"event_id", event.ID,
		"creator_id", event.CreatorID,
	)

	writeJSON(w, http.StatusCreated, dto.EventEnvelope{
		Message: "Event created successfully",
		Event:   dto.ToEventResponse(event),
	})
}

// List handles GET /event/get-events.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	events, err := h.svc.List(r.Context(), service.ListOptions{
		Title:  query.Get("title"),
		Filter: query.Get("filter"),
		Date:   query.Get("date"),
	})
	if err != nil {
		writeServiceError(w, h.logger, r, err, "Failed to list events")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToEventListResponse(events))
}

// ListMine handles GET /event/my-events.
func (h *EventHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	events, err := h.svc.ListMine(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, h.logger, r, err, "Failed to list events")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToEventListResponse(events))
}

// Update handles PATCH /event/events/{id}.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())
	id := chi.URLParam(r, "id")

	event, err := h.svc.UpdateFrom(r.Context(), *identity, id, func() (model.EventPatch, error) {
		var req dto.UpdateEventRequest
		if err := decodeJSON(r, &req); err != nil {
			return model.EventPatch{}, fmt.Errorf("%w: %v", errInvalidBody, err)
		}
		return req.Patch(h.loc)
	})
	if err != nil {
		writeServiceError(w, h.logger, r, err, "Failed to update event")
		return
	}

	h.logger.Info("event_updated", "event_id", event.ID)

	writeJSON(w, http.StatusOK, dto.EventEnvelope{
		Message: "Event updated successfully",
		Event:   dto.ToEventResponse(event),
	})
}

// Delete handles DELETE /event/events/{id}.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), *identity, id); err != nil {
		writeServiceError(w, h.logger, r, err, "Failed to delete event")
		return
	}

	h.logger.Info("event_deleted", "event_id", id)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Event Deleted Successfully!"})
}

// Join handles PATCH /event/events/{id}/join.
func (h *EventHandler) Join(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())
	id := chi.URLParam(r, "id")

	outcome, err := h.svc.Join(r.Context(), *identity, id)
	if err != nil {
		writeServiceError(w, h.logger, r, err, "Failed to join event")
		return
	}

	message := "Successfully joined the event!"
	if outcome == model.JoinAlreadyMember {
		message = "Already joined the event"
	} else {
		h.logger.Info("event_joined", "event_id", id, "user_id", identity.UserID)
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: message})
}
