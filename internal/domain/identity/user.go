package identity

import (
	"strings"
	"time"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusDeactivated UserStatus = "deactivated"
)

// Password cost for bcrypt
const bcryptCost = 12

// User is an operator of the back office. Administrators see every customer
// of their tenant; non-administrators carry a LinkedCustomerID and every
// report and allocation they trigger is scoped to that customer.
type User struct {
	shared.TenantEntity
	Username         string
	PasswordHash     string
	DisplayName      string
	IsAdmin          bool
	LinkedCustomerID *uuid.UUID
	Status           UserStatus
	LastLoginAt      *time.Time
}

// NewUser creates an active user
func NewUser(tenantID uuid.UUID, username, password string) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if len(username) < 3 || len(username) > 50 {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username must be 3-50 characters")
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Username:     username,
		PasswordHash: string(hash),
		Status:       UserStatusActive,
	}, nil
}

// WithDisplayName sets the display name
func (u *User) WithDisplayName(name string) *User {
	u.DisplayName = strings.TrimSpace(name)
	return u
}

// GrantAdmin marks the user as an administrator and clears any customer link
func (u *User) GrantAdmin() *User {
	u.IsAdmin = true
	u.LinkedCustomerID = nil
	return u
}

// LinkCustomer pins a non-administrator to a single customer
func (u *User) LinkCustomer(customerID uuid.UUID) error {
	if u.IsAdmin {
		return shared.NewDomainError("INVALID_STATE", "Administrators cannot be linked to a customer")
	}
	if customerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	u.LinkedCustomerID = &customerID
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsActive reports whether the account may log in
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// RecordLogin stamps a successful login
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
}

// Scope derives the data access scope the user's requests run under
func (u *User) Scope() shared.AccessScope {
	if u.IsAdmin || u.LinkedCustomerID == nil {
		return shared.AdminScope(u.TenantID)
	}
	return shared.CustomerScope(u.TenantID, *u.LinkedCustomerID)
}
