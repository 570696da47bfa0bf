package dto

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	PhotoURL string `json:"photoURL"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileResponse is the public view of a user.
type ProfileResponse struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Message string          `json:"message"`
	User    ProfileResponse `json:"user"`
}

// MessageResponse carries a human-readable status.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an API error.
// Detail is only set for internal failures.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}
