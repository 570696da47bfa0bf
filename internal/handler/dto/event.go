// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gatherly/gatherly/internal/model"
)

var (
	// ErrInvalidDateTime is returned when dateTime cannot be parsed.
	ErrInvalidDateTime = errors.New("invalid dateTime")

	// ErrInvalidField is returned when a patch field has the wrong JSON type.
	ErrInvalidField = errors.New("invalid field")
)

// dateTimeLayouts are tried in order for zone-less input.
// The second and third match what HTML datetime-local inputs send.
var dateTimeLayouts = []string{
	time.DateTime,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// ParseDateTime parses a client-supplied timestamp.
// RFC3339 input keeps its offset; zone-less input is read in loc.
func ParseDateTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateTime, value)
}

// CreateEventRequest represents the request body for creating an event.
type CreateEventRequest struct {
	Title       string `json:"title"`
	DateTime    string `json:"dateTime"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// ScheduledAt returns the parsed dateTime, or nil when none was sent.
func (r CreateEventRequest) ScheduledAt(loc *time.Location) (*time.Time, error) {
	if strings.TrimSpace(r.DateTime) == "" {
		return nil, nil
	}
	t, err := ParseDateTime(r.DateTime, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateEventRequest is a partial event keyed by JSON field name.
// Key presence, not value, decides whether a field is replaced.
type UpdateEventRequest map[string]json.RawMessage

// Patch converts the request into a model.EventPatch.
// Keys other than title, name, dateTime, location and description are ignored.
// A null string field sets the value to empty; a null dateTime unschedules the event.
func (r UpdateEventRequest) Patch(loc *time.Location) (model.EventPatch, error) {
	var patch model.EventPatch

	stringFields := []struct {
		key string
		dst **string
	}{
		{"title", &patch.Title},
		{"name", &patch.Name},
		{"location", &patch.Location},
		{"description", &patch.Description},
	}
	for _, f := range stringFields {
		raw, ok := r[f.key]
		if !ok {
			continue
		}
		var v *string
		if err := json.Unmarshal(raw, &v); err != nil {
			return model.EventPatch{}, fmt.Errorf("%w: %s must be a string", ErrInvalidField, f.key)
		}
		if v == nil {
			v = new(string)
		}
		*f.dst = v
	}

	if raw, ok := r["dateTime"]; ok {
		var v *string
		if err := json.Unmarshal(raw, &v); err != nil {
			return model.EventPatch{}, fmt.Errorf("%w: must be a string", ErrInvalidDateTime)
		}
		if v == nil || strings.TrimSpace(*v) == "" {
			patch.ClearDateTime = true
		} else {
			t, err := ParseDateTime(*v, loc)
			if err != nil {
				return model.EventPatch{}, err
			}
			patch.DateTime = &t
		}
	}

	return patch, nil
}

// EventResponse represents an event in API responses.
type EventResponse struct {
	ID            string     `json:"_id"`
	Title         string     `json:"title"`
	Name          string     `json:"name"`
	CreatorID     string     `json:"creatorId"`
	DateTime      *time.Time `json:"dateTime"`
	Location      string     `json:"location"`
	Description   string     `json:"description"`
	AttendeeCount int        `json:"attendeeCount"`
	JoinedUsers   []string   `json:"joinedUsers"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// EventEnvelope wraps an event with a status message.
type EventEnvelope struct {
	Message string         `json:"message"`
	Event   *EventResponse `json:"event"`
}

// ToEventResponse converts an Event model to EventResponse DTO.
func ToEventResponse(event *model.Event) *EventResponse {
	joined := event.JoinedUsers
	if joined == nil {
		joined = []string{}
	}
	return &EventResponse{
		ID:            event.ID,
		Title:         event.Title,
		Name:          event.Name,
		CreatorID:     event.CreatorID,
		DateTime:      event.DateTime,
		Location:      event.Location,
		Description:   event.Description,
		AttendeeCount: event.AttendeeCount,
		JoinedUsers:   joined,
		CreatedAt:     event.CreatedAt,
		UpdatedAt:     event.UpdatedAt,
	}
}

// ToEventListResponse converts events to a JSON array, never null.
func ToEventListResponse(events []*model.Event) []*EventResponse {
	out := make([]*EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, ToEventResponse(e))
	}
	return out
}
