package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatherly/gatherly/internal/auth"
	"github.com/gatherly/gatherly/internal/handler/dto"
)

func TestAuthHandler_Register(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        any
		seed        bool
		wantStatus  int
		wantMessage string
		wantError   string
	}{
		{
			name:        "success",
			body:        map[string]string{"name": "Alice", "email": "alice@example.com", "password": "pw", "photoURL": "https://img/a.png"},
			wantStatus:  http.StatusCreated,
			wantMessage: "User registered successfully, Please log in!",
		},
		{
			name:       "missing password",
			body:       map[string]string{"name": "Alice", "email": "alice@example.com"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Name, email, and password are required",
		},
		{
			name:       "duplicate email",
			body:       map[string]string{"name": "Alice 2", "email": "alice@example.com", "password": "pw"},
			seed:       true,
			wantStatus: http.StatusBadRequest,
			wantError:  "User already exists",
		},
		{
			name:       "malformed json",
			body:       `{"name":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := newTestAPI(t)
			if tt.seed {
				api.registerAndLogin(t, "Alice", "alice@example.com")
			}

			rec := api.do(t, http.MethodPost, "/auth/register", "", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantError != "" {
				resp := decodeBody[dto.ErrorResponse](t, rec)
				assert.Equal(t, tt.wantError, resp.Error)
				assert.Empty(t, resp.Detail)
				return
			}
			resp := decodeBody[dto.MessageResponse](t, rec)
			assert.Equal(t, tt.wantMessage, resp.Message)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	rec := api.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "hunter22", "photoURL": "https://img/a.png",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("success sets session cookie", func(t *testing.T) {
		rec := api.do(t, http.MethodPost, "/auth/login", "", map[string]string{
			"email": "alice@example.com", "password": "hunter22",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		resp := decodeBody[dto.LoginResponse](t, rec)
		assert.Equal(t, "Login successful", resp.Message)
		assert.Equal(t, dto.ProfileResponse{Name: "Alice", PhotoURL: "https://img/a.png"}, resp.User)

		var cookie *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == auth.SessionCookieName {
				cookie = c
			}
		}
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, "/", cookie.Path)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

		identity, err := api.sessions.Verify(cookie.Value)
		require.NoError(t, err)
		assert.Equal(t, "Alice", identity.Name)
	})

	for _, creds := range []map[string]string{
		{"email": "alice@example.com", "password": "wrong"},
		{"email": "nobody@example.com", "password": "hunter22"},
	} {
		t.Run("invalid credentials "+creds["email"], func(t *testing.T) {
			rec := api.do(t, http.MethodPost, "/auth/login", "", creds)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Invalid credentials", decodeBody[dto.ErrorResponse](t, rec).Error)
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestAuthHandler_Me(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	token := api.registerAndLogin(t, "Alice", "alice@example.com")

	rec := api.do(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alice", decodeBody[dto.ProfileResponse](t, rec).Name)

	rec = api.do(t, http.MethodGet, "/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authenticated", decodeBody[dto.ErrorResponse](t, rec).Error)

	rec = api.do(t, http.MethodGet, "/auth/me", token+"x", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", decodeBody[dto.ErrorResponse](t, rec).Error)
}

func TestAuthHandler_MeDeletedUser(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	token := api.registerAndLogin(t, "Alice", "alice@example.com")

	api.users.mu.Lock()
	clear(api.users.users)
	api.users.mu.Unlock()

	rec := api.do(t, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	token := api.registerAndLogin(t, "Alice", "alice@example.com")

	rec := api.do(t, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged out successfully!", decodeBody[dto.MessageResponse](t, rec).Message)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.SessionCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)

	// Stateless sessions: the old token keeps working until it expires.
	rec = api.do(t, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHandler_InternalErrorSurfacesDetail(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t)
	api.users.err = errors.New("connection refused")

	rec := api.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "pw",
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	resp := decodeBody[dto.ErrorResponse](t, rec)
	assert.Equal(t, "Registration failed", resp.Error)
	assert.Contains(t, resp.Detail, "connection refused")
}
