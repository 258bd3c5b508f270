// Package guard decides whether a view may render for the current session.
package guard

import (
	domain "storefront-client/internal/domain/session"
	"storefront-client/internal/ui"
)

type Outcome string

const (
	OutcomeWait     Outcome = "wait"
	OutcomeRender   Outcome = "render"
	OutcomeRedirect Outcome = "redirect"
)

// Decision is exactly one of wait, render, or redirect to Target.
type Decision struct {
	Outcome Outcome `json:"outcome"`
	Target  ui.View `json:"target,omitempty"`
}

func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeRender
}

var (
	wait          = Decision{Outcome: OutcomeWait}
	render        = Decision{Outcome: OutcomeRender}
	redirectLogin = Decision{Outcome: OutcomeRedirect, Target: ui.ViewLogin}
)

// AuthenticatedOnly renders for any authenticated session.
func AuthenticatedOnly(s domain.Snapshot) Decision {
	if s.IsLoading {
		return wait
	}
	if s.IsAuthenticated {
		return render
	}
	return redirectLogin
}

// AdminOnly renders only for an authenticated admin.
func AdminOnly(s domain.Snapshot) Decision {
	if s.IsLoading {
		return wait
	}
	if s.IsAdmin() {
		return render
	}
	return redirectLogin
}

type Policy string

const (
	PolicyPublic        Policy = "public"
	PolicyAuthenticated Policy = "authenticated"
	PolicyAdmin         Policy = "admin"
)

// Evaluate applies the guard that matches p.
func Evaluate(p Policy, s domain.Snapshot) Decision {
	switch p {
	case PolicyAuthenticated:
		return AuthenticatedOnly(s)
	case PolicyAdmin:
		return AdminOnly(s)
	default:
		return render
	}
}
