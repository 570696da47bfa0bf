package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gatherly/gatherly/internal/auth"
	"github.com/gatherly/gatherly/internal/metrics"
	"github.com/gatherly/gatherly/internal/model"
	"github.com/gatherly/gatherly/internal/repository"
)

// AuthService handles registration, login and profile lookups.
type AuthService struct {
	users    UserStore
	hasher   *auth.PasswordHasher
	sessions *auth.SessionManager
	validate *validator.Validate
	metrics  metrics.Recorder
	now      func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, hasher *auth.PasswordHasher, sessions *auth.SessionManager, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if hasher == nil {
		hasher = auth.NewPasswordHasher(auth.DefaultPasswordCost)
	}
	return &AuthService{
		users:    users,
		hasher:   hasher,
		sessions: sessions,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		metrics:  recorder,
		now:      time.Now,
	}
}

// RegisterInput defines input for creating an account.
type RegisterInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required"`
	Password string `validate:"required"`
	PhotoURL string
}

// LoginResult is returned on successful login.
type LoginResult struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

// Register creates a new user with a hashed password.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	if _, err := s.users.GetUserByEmail(ctx, input.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           newID(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		PhotoURL:     input.PhotoURL,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserRegistered()

	return user, nil
}

// Login verifies credentials and issues a session token.
// Unknown email and wrong password both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.hasher.Burn(password)
			s.metrics.IncLogin(metrics.OutcomeFailure)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		s.metrics.IncLogin(metrics.OutcomeFailure)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.sessions.Issue(model.Identity{UserID: user.ID, Name: user.Name})
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	s.metrics.IncLogin(metrics.OutcomeSuccess)

	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Me returns the account behind a verified identity.
func (s *AuthService) Me(ctx context.Context, identity model.Identity) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// validationError converts validator output into an ErrValidation with the failing fields.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(fields, ", "))
}
