package auth

import "adhi/internal/session"

// HomeDestination is where the client goes after signing in
const HomeDestination = "/(tabs)"

// LoginRequest is the request payload for email/password sign in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the request payload for creating an account
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Role            string `json:"role"`
}

// AuthResponse is the response after a successful sign in or registration
type AuthResponse struct {
	Session  *session.Session `json:"session"`
	Redirect string           `json:"redirect"`
}
