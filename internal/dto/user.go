package dto

// ── user DTOs ──

// CreateUserRequest staff account created by a manager
type CreateUserRequest struct {
	Username     string `json:"username"     binding:"required,min=3,max=64,alphanum"`
	Password     string `json:"password"     binding:"required,min=8,max=128"`
	Email        string `json:"email"        binding:"omitempty,email"`
	FullName     string `json:"full_name"    binding:"required,min=2,max=120"`
	Role         string `json:"role"         binding:"required"`
	Organization string `json:"organization" binding:"omitempty,max=120"`
	Phone        string `json:"phone"        binding:"omitempty,max=32"`
}

// UserListRequest list query parameters
type UserListRequest struct {
	PaginationRequest
	Role       string `form:"role"`
	RoleStatus string `form:"role_status" binding:"omitempty,oneof=pending approved rejected"`
}

// RejectRoleRequest optional reason
type RejectRoleRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// UserResponse user without credentials
type UserResponse struct {
	ID            string `json:"user_id"`
	Username      string `json:"username"`
	Email         string `json:"email,omitempty"`
	FullName      string `json:"full_name"`
	Role          string `json:"role"`
	RoleStatus    string `json:"role_status"`
	RequestedRole string `json:"requested_role,omitempty"`
	Organization  string `json:"organization,omitempty"`
	Phone         string `json:"phone,omitempty"`
	IsActive      bool   `json:"is_active"`
	LastLoginAt   string `json:"last_login_at,omitempty"`
	CreatedAt     string `json:"created_at"`
}
