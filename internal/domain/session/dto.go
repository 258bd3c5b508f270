// internal/domain/session/dto.go
package session

import "storefront-client/internal/ui"

// LoginRequest carries the credentials typed into the login view.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest carries the profile typed into the registration view.
type RegisterRequest struct {
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
}

// LoginResponse is the authentication API's successful login payload.
type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// UserInfo is the user object returned next to the token. It is informational
// only; the Identity is always decoded from the token itself.
type UserInfo struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Result reports the outcome of Login, Logout and Register. Failures are
// reported through Notice rather than returned as errors.
type Result struct {
	Success  bool       `json:"success"`
	Snapshot Snapshot   `json:"session"`
	Notice   *ui.Notice `json:"notice,omitempty"`
	Target   ui.View    `json:"navigate_to,omitempty"`
	Err      error      `json:"-"`
}
