package shared

import "github.com/google/uuid"

// AccessScope describes what slice of a tenant's data the caller may read.
// Administrators carry a nil CustomerID and see the whole tenant; scoped
// callers are pinned to their linked customer. The scope is applied before
// any other filter on every store query.
type AccessScope struct {
	TenantID   uuid.UUID
	CustomerID *uuid.UUID
}

// AdminScope returns a scope covering the whole tenant
func AdminScope(tenantID uuid.UUID) AccessScope {
	return AccessScope{TenantID: tenantID}
}

// CustomerScope returns a scope pinned to a single customer
func CustomerScope(tenantID, customerID uuid.UUID) AccessScope {
	return AccessScope{TenantID: tenantID, CustomerID: &customerID}
}

// IsAdmin reports whether the scope covers the whole tenant
func (s AccessScope) IsAdmin() bool {
	return s.CustomerID == nil
}

// EffectiveCustomer combines the scope with an optional requested customer
// filter. Scoped callers always get their own customer; asking for a
// different one is a cross-customer read and is rejected.
func (s AccessScope) EffectiveCustomer(requested *uuid.UUID) (*uuid.UUID, error) {
	if s.CustomerID == nil {
		return requested, nil
	}
	if requested != nil && *requested != *s.CustomerID {
		return nil, ErrForbidden
	}
	return s.CustomerID, nil
}
