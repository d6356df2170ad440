package dto

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents a new account request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
}

// RefreshTokenRequest represents a token rotation request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest carries the refresh token to revoke on sign-out
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"access_token"`
	TokenType             string `json:"token_type" example:"Bearer"`
	ExpiresIn             int    `json:"expires_in"`
	RefreshToken          string `json:"refresh_token,omitempty"`
	RefreshTokenExpiresIn int    `json:"refresh_token_expires_in,omitempty"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name,omitempty"`
}

// AuthResponse represents a successful authentication response. RedirectTo
// tells the client where to land after sign-in or sign-up.
type AuthResponse struct {
	Token      TokenResponse `json:"token"`
	User       UserResponse  `json:"user"`
	RedirectTo string        `json:"redirect_to,omitempty" example:"http://localhost:3000/dashboard/default"`
}

// SessionResponse reports the resolved session for the bearer token
type SessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *UserResponse `json:"user,omitempty"`
}
