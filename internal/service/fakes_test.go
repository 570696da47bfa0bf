package service

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/gatherly/gatherly/internal/model"
	"github.com/gatherly/gatherly/internal/repository"
)

// memUserStore is an in-memory UserStore.
type memUserStore struct {
	mu      sync.Mutex
	byID    map[string]*model.User
	byEmail map[string]*model.User
	err     error
}

func newMemUserStore() *memUserStore {
	return &memUserStore{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (s *memUserStore) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.byEmail[user.Email]; ok {
		return repository.ErrEmailExists
	}
	u := *user
	s.byID[u.ID] = &u
	s.byEmail[u.Email] = &u
	return nil
}

func (s *memUserStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (s *memUserStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

// memEventStore is an in-memory EventStore that mirrors the SQL semantics.
type memEventStore struct {
	mu         sync.Mutex
	events     map[string]*model.Event
	lastFilter repository.EventFilter
}

func newMemEventStore() *memEventStore {
	return &memEventStore{events: make(map[string]*model.Event)}
}

func cloneEvent(e *model.Event) *model.Event {
	out := *e
	out.JoinedUsers = slices.Clone(e.JoinedUsers)
	if e.DateTime != nil {
		t := *e.DateTime
		out.DateTime = &t
	}
	return &out
}

func (s *memEventStore) CreateEvent(_ context.Context, event *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ID] = cloneEvent(event)
	return nil
}

func (s *memEventStore) GetEventByID(_ context.Context, id string) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	return cloneEvent(e), nil
}

func (s *memEventStore) ListEvents(_ context.Context, filter repository.EventFilter) ([]*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFilter = filter

	out := make([]*model.Event, 0)
	for _, e := range s.events {
		if filter.TitleContains != "" &&
			!strings.Contains(strings.ToLower(e.Title), strings.ToLower(filter.TitleContains)) {
			continue
		}
		if filter.From != nil || filter.To != nil {
			if e.DateTime == nil {
				continue
			}
			if filter.From != nil && e.DateTime.Before(*filter.From) {
				continue
			}
			if filter.To != nil && e.DateTime.After(*filter.To) {
				continue
			}
		}
		out = append(out, cloneEvent(e))
	}

	slices.SortFunc(out, func(a, b *model.Event) int {
		switch {
		case a.DateTime == nil && b.DateTime == nil:
		case a.DateTime == nil:
			return 1
		case b.DateTime == nil:
			return -1
		default:
			if c := b.DateTime.Compare(*a.DateTime); c != 0 {
				return c
			}
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

func (s *memEventStore) ListEventsByCreator(_ context.Context, creatorID string) ([]*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Event, 0)
	for _, e := range s.events {
		if e.CreatorID == creatorID {
			out = append(out, cloneEvent(e))
		}
	}
	return out, nil
}

func (s *memEventStore) UpdateEvent(_ context.Context, event *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.events[event.ID]
	if !ok || stored.CreatorID != event.CreatorID {
		return repository.ErrEventNotFound
	}
	stored.Title = event.Title
	stored.Name = event.Name
	stored.DateTime = event.DateTime
	stored.Location = event.Location
	stored.Description = event.Description
	stored.UpdatedAt = event.UpdatedAt
	return nil
}

func (s *memEventStore) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return repository.ErrEventNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *memEventStore) JoinEvent(_ context.Context, id, userID string) (model.JoinOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return "", repository.ErrEventNotFound
	}
	if e.HasJoined(userID) {
		return model.JoinAlreadyMember, nil
	}
	e.JoinedUsers = append(e.JoinedUsers, userID)
	e.AttendeeCount++
	return model.JoinJoined, nil
}
