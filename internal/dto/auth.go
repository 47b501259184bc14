package dto

// ── auth DTOs ──

// LoginRequest staff login
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required,max=128"`
}

// RegisterRequest public account with a requested staff role
type RegisterRequest struct {
	Username      string `json:"username"       binding:"required,min=3,max=64,alphanum"`
	Password      string `json:"password"       binding:"required,min=8,max=128"`
	Email         string `json:"email"          binding:"required,email"`
	FullName      string `json:"full_name"      binding:"required,min=2,max=120"`
	RequestedRole string `json:"requested_role" binding:"required"`
	Organization  string `json:"organization"   binding:"omitempty,max=120"`
	Phone         string `json:"phone"          binding:"omitempty,max=32"`
}

// RefreshTokenRequest refresh body
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RequestRoleRequest asks for a (different) role
type RequestRoleRequest struct {
	RequestedRole string `json:"requested_role" binding:"required"`
}

// TokenResponse issued token pair
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // seconds
	User         UserResponse `json:"user"`
}
