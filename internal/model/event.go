// Package model defines domain entities for the application.
package model

import (
	"slices"
	"time"
)

// Event represents a scheduled gathering.
type Event struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Name          string     `json:"name"`       // Creator display name at creation time
	CreatorID     string     `json:"creator_id"` // Weak reference to users.id
	DateTime      *time.Time `json:"date_time,omitempty"`
	Location      string     `json:"location"`
	Description   string     `json:"description"`
	AttendeeCount int        `json:"attendee_count"`
	JoinedUsers   []string   `json:"joined_users"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsOwnedBy reports whether userID created the event.
func (e *Event) IsOwnedBy(userID string) bool {
	return userID != "" && e.CreatorID == userID
}

// HasJoined reports whether userID is already an attendee.
func (e *Event) HasJoined(userID string) bool {
	return slices.Contains(e.JoinedUsers, userID)
}

// EventPatch carries the fields supplied in an update request.
// A nil field was not supplied; a non-nil field replaces the stored value.
type EventPatch struct {
	Title       *string
	Name        *string
	DateTime    *time.Time
	Location    *string
	Description *string

	// ClearDateTime unschedules the event. Ignored when DateTime is set.
	ClearDateTime bool
}

// IsEmpty returns true if no field was supplied.
func (p EventPatch) IsEmpty() bool {
	return p.Title == nil && p.Name == nil && p.DateTime == nil &&
		p.Location == nil && p.Description == nil && !p.ClearDateTime
}

// ApplyTo merges the supplied fields into e.
func (p EventPatch) ApplyTo(e *Event) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.DateTime != nil {
		t := *p.DateTime
		e.DateTime = &t
	} else if p.ClearDateTime {
		e.DateTime = nil
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
}

// JoinOutcome describes the result of a join attempt.
type JoinOutcome string

const (
	JoinJoined        JoinOutcome = "joined"
	JoinAlreadyMember JoinOutcome = "already_joined"
)
