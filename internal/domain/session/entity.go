// internal/domain/session/entity.go
package session

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of identity roles a credential may carry.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// ParseRole maps a raw claim onto a known Role. Unknown values are rejected
// so that a tampered token cannot introduce new roles.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleCustomer:
		return RoleCustomer, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Credential is the opaque bearer token issued by the authentication API.
type Credential string

func (c Credential) String() string {
	return string(c)
}

// Identity is derived from a Credential and is never authoritative.
type Identity struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Role        Role      `json:"role"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the identity's credential is no longer usable at now.
func (i *Identity) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// Phase tracks whether the first validation pass has run.
type Phase string

const (
	PhasePending  Phase = "pending"
	PhaseComplete Phase = "complete"
)

// State is the session state machine position.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateInitializing  State = "initializing"
	StateAuthenticated State = "authenticated"
	StateAnonymous     State = "anonymous"
)

// Snapshot is the read-only view of the session handed to views and guards.
type Snapshot struct {
	State           State     `json:"state"`
	Phase           Phase     `json:"phase"`
	Identity        *Identity `json:"identity,omitempty"`
	IsAuthenticated bool      `json:"is_authenticated"`
	IsLoading       bool      `json:"is_loading"`
}

// IsAdmin reports whether the snapshot carries an authenticated admin identity.
func (s Snapshot) IsAdmin() bool {
	return s.IsAuthenticated && s.Identity != nil && s.Identity.Role.IsAdmin()
}
