package guard

import domain "storefront-client/internal/domain/session"

// SnapshotSource is anything that can report the live session.
type SnapshotSource interface {
	Snapshot() domain.Snapshot
}

// Authorizer is the single place where policies meet the live session. View
// resolution, the HTTP guard middleware and the guarded cart all use it.
type Authorizer struct {
	source SnapshotSource
	routes *Routes
}

func NewAuthorizer(source SnapshotSource, routes *Routes) *Authorizer {
	if routes == nil {
		routes = DefaultRoutes()
	}
	return &Authorizer{source: source, routes: routes}
}

// Check evaluates policy against the current session.
func (a *Authorizer) Check(policy Policy) Decision {
	_, d := a.Decide(policy)
	return d
}

// Decide evaluates policy and returns the snapshot the decision was made on.
func (a *Authorizer) Decide(policy Policy) (domain.Snapshot, Decision) {
	snap := a.source.Snapshot()
	return snap, Evaluate(policy, snap)
}

// Resolve looks up the policy for a view path and evaluates it.
func (a *Authorizer) Resolve(path string) (Policy, Decision) {
	policy := a.routes.Policy(path)
	return policy, a.Check(policy)
}
