package identity

import (
	"time"

	"github.com/backoffice/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
)

// LoginInput contains credentials for a login attempt
type LoginInput struct {
	TenantID uuid.UUID `json:"-"`
	Username string    `json:"username" binding:"required"`
	Password string    `json:"password" binding:"required"`
}

// LoginResult is returned on successful login
type LoginResult struct {
	User      UserInfo        `json:"user"`
	TokenPair *auth.TokenPair `json:"tokens"`
}

// UserInfo is the user payload exposed to clients
type UserInfo struct {
	ID               uuid.UUID  `json:"id"`
	TenantID         uuid.UUID  `json:"tenantId"`
	Username         string     `json:"username"`
	DisplayName      string     `json:"displayName"`
	IsAdmin          bool       `json:"isAdmin"`
	LinkedCustomerID *uuid.UUID `json:"linkedCustomerId,omitempty"`
	LastLoginAt      *time.Time `json:"lastLoginAt,omitempty"`
}

// LogoutInput identifies the token being revoked
type LogoutInput struct {
	TokenID   string
	ExpiresAt time.Time
	UserID    uuid.UUID
	TenantID  uuid.UUID
}
