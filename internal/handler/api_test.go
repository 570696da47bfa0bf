package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gatherly/gatherly/internal/auth"
	"github.com/gatherly/gatherly/internal/middleware"
	"github.com/gatherly/gatherly/internal/model"
	"github.com/gatherly/gatherly/internal/repository"
	"github.com/gatherly/gatherly/internal/service"
)

// stubUsers is a minimal in-memory service.UserStore.
type stubUsers struct {
	mu    sync.Mutex
	users map[string]*model.User
	err   error
}

func (s *stubUsers) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	u := *user
	s.users[u.ID] = &u
	return nil
}

func (s *stubUsers) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if u, ok := s.users[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, repository.ErrUserNotFound
}

func (s *stubUsers) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// stubEvents is a minimal in-memory service.EventStore.
type stubEvents struct {
	mu     sync.Mutex
	events map[string]*model.Event
}

func (s *stubEvents) CreateEvent(_ context.Context, event *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := *event
	s.events[e.ID] = &e
	return nil
}

func (s *stubEvents) GetEventByID(_ context.Context, id string) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.events[id]; ok {
		out := *e
		out.JoinedUsers = slices.Clone(e.JoinedUsers)
		return &out, nil
	}
	return nil, repository.ErrEventNotFound
}

func (s *stubEvents) ListEvents(_ context.Context, filter repository.EventFilter) ([]*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Event
	for _, e := range s.events {
		if !strings.Contains(strings.ToLower(e.Title), strings.ToLower(filter.TitleContains)) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *stubEvents) ListEventsByCreator(_ context.Context, creatorID string) ([]*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Event
	for _, e := range s.events {
		if e.CreatorID == creatorID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubEvents) UpdateEvent(_ context.Context, event *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[event.ID]; !ok {
		return repository.ErrEventNotFound
	}
	e := *event
	s.events[e.ID] = &e
	return nil
}

func (s *stubEvents) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return repository.ErrEventNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *stubEvents) JoinEvent(_ context.Context, id, userID string) (model.JoinOutcome, error) {
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

// testAPI wires the handlers behind a chi router the way cmd/api does.
type testAPI struct {
	router   http.Handler
	users    *stubUsers
	events   *stubEvents
	sessions *auth.SessionManager
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := &stubUsers{users: make(map[string]*model.User)}
	events := &stubEvents{events: make(map[string]*model.Event)}
	sessions := auth.NewSessionManager("handler-test-secret-0123456789abcdef", time.Hour)

	authSvc := service.NewAuthService(users, auth.NewPasswordHasher(bcrypt.MinCost), sessions, nil)
	eventSvc := service.NewEventService(events, nil, service.WithLocation(time.UTC))

	authHandler := NewAuthHandler(authSvc, logger, false)
	eventHandler := NewEventHandler(eventSvc, logger, time.UTC)
	session := middleware.Session(middleware.SessionConfig{Logger: logger, Sessions: sessions})

	r := chi.NewRouter()
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.With(session).Get("/me", authHandler.Me)
		r.With(session).Post("/logout", authHandler.Logout)
	})
	r.Route("/event", func(r chi.Router) {
		r.Use(session)
		r.Post("/create-event", eventHandler.Create)
		r.Get("/get-events", eventHandler.List)
		r.Get("/my-events", eventHandler.ListMine)
		r.Patch("/events/{id}", eventHandler.Update)
		r.Delete("/events/{id}", eventHandler.Delete)
		r.Patch("/events/{id}/join", eventHandler.Join)
	})

	return &testAPI{router: r, users: users, events: events, sessions: sessions}
}

// do sends a request, attaching the session cookie when token is non-empty.
func (a *testAPI) do(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// registerAndLogin creates an account and returns its session token.
func (a *testAPI) registerAndLogin(t *testing.T, name, email string) string {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			return c.Value
		}
	}
	t.Fatal("login did not set a session cookie")
	return ""
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}
