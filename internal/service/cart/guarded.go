package cart

import (
	domain "storefront-client/internal/domain/cart"
	"storefront-client/internal/guard"
	"storefront-client/internal/ui"
)

const msgLoginToAdd = "Please log in to add products to the cart!"

// GuardedStore gates AddItem behind an authenticated session. When the
// session is not authenticated the user is sent to the login view instead.
type GuardedStore struct {
	store    *Store
	authz    *guard.Authorizer
	nav      ui.Navigator
	notifier ui.Notifier
}

func NewGuardedStore(store *Store, authz *guard.Authorizer, nav ui.Navigator, notifier ui.Notifier) *GuardedStore {
	return &GuardedStore{store: store, authz: authz, nav: nav, notifier: notifier}
}

func (g *GuardedStore) Snapshot() domain.Snapshot { return g.store.Snapshot() }

func (g *GuardedStore) SetQuantity(productID string, quantity int) {
	g.store.SetQuantity(productID, quantity)
}

func (g *GuardedStore) RemoveItem(productID string) { g.store.RemoveItem(productID) }

// AddItem adds product when allowed. The returned decision tells the caller
// whether the cart changed (render) or the user was redirected.
func (g *GuardedStore) AddItem(p domain.Product) (domain.LineItem, guard.Decision) {
	d := g.authz.Check(guard.PolicyAuthenticated)
	switch d.Outcome {
	case guard.OutcomeRender:
		return g.store.AddItem(p), d
	case guard.OutcomeRedirect:
		g.notifier.Notify(ui.NewNotice(ui.NoticeInfo, msgLoginToAdd))
		g.nav.Navigate(d.Target)
	}
	return domain.LineItem{}, d
}
