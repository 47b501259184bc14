package model

import (
	"time"

	"gorm.io/gorm"
)

// User is a staff or public account, stored in users.
// Role is the effective role; RequestedRole holds a pending request until a
// manager approves it.
type User struct {
	UserID        string     `gorm:"type:uuid;primaryKey"                       json:"user_id"`
	Username      string     `gorm:"type:varchar(64);not null;uniqueIndex"      json:"username"`
	Email         string     `gorm:"type:varchar(255);not null;default:''"      json:"email"`
	FullName      string     `gorm:"type:varchar(120);not null;default:''"      json:"full_name"`
	PasswordHash  string     `gorm:"type:varchar(255);not null"                 json:"-"`
	Role          string     `gorm:"type:varchar(32);not null;default:'public'" json:"role"`
	RoleStatus    string     `gorm:"type:varchar(16);not null;default:'pending';index" json:"role_status"`
	RequestedRole string     `gorm:"type:varchar(32);not null;default:''"       json:"requested_role,omitempty"`
	Organization  string     `gorm:"type:varchar(120);not null;default:''"      json:"organization,omitempty"`
	Phone         string     `gorm:"type:varchar(32);not null;default:''"       json:"phone,omitempty"`
	IsActive      bool       `gorm:"not null"                                   json:"is_active"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	VersionedModel
}

// TableName table name
func (User) TableName() string { return "users" }

// BeforeCreate assigns the id.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.UserID == "" {
		u.UserID = NewID()
	}
	return nil
}
