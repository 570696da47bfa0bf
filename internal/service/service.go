// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"

	"github.com/gatherly/gatherly/internal/model"
	"github.com/gatherly/gatherly/internal/repository"
)

// Service errors.
var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrForbidden          = errors.New("not the event creator")
)

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// EventStore persists events.
type EventStore interface {
	CreateEvent(ctx context.Context, event *model.Event) error
	GetEventByID(ctx context.Context, id string) (*model.Event, error)
	ListEvents(ctx context.Context, filter repository.EventFilter) ([]*model.Event, error)
	ListEventsByCreator(ctx context.Context, creatorID string) ([]*model.Event, error)
	UpdateEvent(ctx context.Context, event *model.Event) error
	DeleteEvent(ctx context.Context, id string) error
	JoinEvent(ctx context.Context, id, userID string) (model.JoinOutcome, error)
}

// newID returns a fresh lexically sortable identifier.
func newID() string {
	return ulid.Make().String()
}
