package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gatherly/gatherly/internal/metrics"
	"github.com/gatherly/gatherly/internal/model"
	"github.com/gatherly/gatherly/internal/repository"
)

// EventService handles event queries and ownership-checked mutations.
type EventService struct {
	events  EventStore
	loc     *time.Location
	metrics metrics.Recorder
	now     func() time.Time
}

// EventOption configures an EventService.
type EventOption func(*EventService)

// WithLocation sets the zone used for calendar filters.
func WithLocation(loc *time.Location) EventOption {
	return func(s *EventService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithNow overrides the clock, mainly for tests.
func WithNow(now func() time.Time) EventOption {
	return func(s *EventService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewEventService creates a new EventService.
func NewEventService(events EventStore, recorder metrics.Recorder, opts ...EventOption) *EventService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	s := &EventService{
		events:  events,
		loc:     time.Local,
		metrics: recorder,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateEventInput defines input for creating an event.
type CreateEventInput struct {
	Title       string
	DateTime    *time.Time
	Location    string
	Description string
}

// Create stores a new event owned by the caller.
func (s *EventService) Create(ctx context.Context, identity model.Identity, input CreateEventInput) (*model.Event, error) {
	now := s.now().UTC()
	event := &model.Event{
		ID:            newID(),
		Title:         input.Title,
		Name:          identity.Name,
		CreatorID:     identity.UserID,
		DateTime:      input.DateTime,
		Location:      input.Location,
		Description:   input.Description,
		AttendeeCount: 0,
		JoinedUsers:   []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.events.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.metrics.IncEventCreated()

	return event, nil
}

// List returns events matching opts, newest scheduled first.
func (s *EventService) List(ctx context.Context, opts ListOptions) ([]*model.Event, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveEventQueryDuration(time.Since(start))
	}()

	filter := BuildFilter(opts, s.now().In(s.loc))

	events, err := s.events.ListEvents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// ListMine returns the events created by userID.
func (s *EventService) ListMine(ctx context.Context, userID string) ([]*model.Event, error) {
	events, err := s.events.ListEventsByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events by creator: %w", err)
	}
	return events, nil
}

// PatchSource produces an update patch. It is called only after the caller
// has been confirmed as the event's creator; its error is returned unchanged.
type PatchSource func() (model.EventPatch, error)

// Update merges patch into the event when the caller created it.
func (s *EventService) Update(ctx context.Context, identity model.Identity, id string, patch model.EventPatch) (*model.Event, error) {
	return s.UpdateFrom(ctx, identity, id, func() (model.EventPatch, error) {
		return patch, nil
	})
}

// UpdateFrom is Update with a patch built after the not-found and ownership
// checks, so a malformed patch from a non-creator is still Forbidden.
func (s *EventService) UpdateFrom(ctx context.Context, identity model.Identity, id string, source PatchSource) (*model.Event, error) {
	event, err := s.authorize(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	patch, err := source()
	if err != nil {
		return nil, err
	}

	patch.ApplyTo(event)
	event.UpdatedAt = s.now().UTC()

	if err := s.events.UpdateEvent(ctx, event); err != nil {
		// Deleted or reassigned between the read and the write.
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.metrics.IncEventUpdated()

	return event, nil
}

// Delete removes the event when the caller created it.
func (s *EventService) Delete(ctx context.Context, identity model.Identity, id string) error {
	if _, err := s.authorize(ctx, identity, id); err != nil {
		return err
	}

	if err := s.events.DeleteEvent(ctx, id); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}

	s.metrics.IncEventDeleted()

	return nil
}

// Join adds the caller to the event's attendees.
// Joining twice is not an error and leaves the event unchanged.
func (s *EventService) Join(ctx context.Context, identity model.Identity, id string) (model.JoinOutcome, error) {
	outcome, err := s.events.JoinEvent(ctx, id, identity.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return "", ErrEventNotFound
		}
		return "", fmt.Errorf("failed to join event: %w", err)
	}

	s.metrics.IncEventJoin(string(outcome))

	return outcome, nil
}

// authorize loads the event and checks the caller is its creator.
func (s *EventService) authorize(ctx context.Context, identity model.Identity, id string) (*model.Event, error) {
	event, err := s.events.GetEventByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if !event.IsOwnedBy(identity.UserID) {
		return nil, ErrForbidden
	}

	return event, nil
}
