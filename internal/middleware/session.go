package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gatherly/gatherly/internal/auth"
	"github.com/gatherly/gatherly/internal/metrics"
	"github.com/gatherly/gatherly/internal/model"
)

// Session rejection reasons, used as log attributes and metric labels.
const (
	reasonMissingToken = "missing_token"
	reasonInvalidToken = "invalid_token"
	reasonExpiredToken = "expired_token"
)

// TokenVerifier verifies a session token and returns the identity it carries.
// *auth.SessionManager satisfies it.
type TokenVerifier interface {
	Verify(token string) (*model.Identity, error)
}

// SessionConfig holds configuration for the session middleware.
type SessionConfig struct {
	Logger   *slog.Logger
	Sessions TokenVerifier
	Metrics  metrics.Recorder
}

// Session returns a middleware that requires a valid session token.
// The token is read from the session cookie, falling back to a bearer
// Authorization header. On success the caller's identity is stored in the
// request context.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := cfg.Sessions.Verify(auth.TokenFromRequest(r))
			if err != nil {
				reason, message := rejection(err)
				recorder.IncSessionRejected(reason)
				logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeJSONError(w, http.StatusUnauthorized, message)
				return
			}

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func rejection(err error) (reason, message string) {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return reasonMissingToken, "Not authenticated"
	case errors.Is(err, auth.ErrExpiredToken):
		return reasonExpiredToken, "Session expired"
	default:
		return reasonInvalidToken, "Invalid token"
	}
}
