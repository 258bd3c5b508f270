// internal/service/cart/store.go
package cart

import (
	"fmt"
	"sync"

	domain "storefront-client/internal/domain/cart"
	"storefront-client/internal/ui"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Store is the in-memory cart. It lives as long as the process and is never
// persisted.
type Store struct {
	mu    sync.RWMutex
	items []domain.LineItem
	index map[string]int

	notifier ui.Notifier
	logger   *zap.Logger

	subMu   sync.Mutex
	subs    map[uint64]func(domain.Snapshot)
	nextSub uint64
}

func NewStore(notifier ui.Notifier, logger *zap.Logger) *Store {
	return &Store{
		index:    make(map[string]int),
		notifier: notifier,
		logger:   logger,
		subs:     make(map[uint64]func(domain.Snapshot)),
	}
}

// AddItem adds one unit of product, appending a new line item the first time
// the product is seen.
func (s *Store) AddItem(p domain.Product) domain.LineItem {
	s.mu.Lock()
	var item domain.LineItem
	if i, ok := s.index[p.ID]; ok {
		s.items[i].Quantity++
		item = s.items[i]
	} else {
		item = domain.LineItem{
			ProductID:   p.ID,
			DisplayName: p.Name,
			UnitPrice:   p.Price,
			Quantity:    1,
			ImageRef:    p.PrimaryImage(),
		}
		s.index[p.ID] = len(s.items)
		s.items = append(s.items, item)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug("cart item added",
		zap.String("product_id", p.ID),
		zap.Int("quantity", item.Quantity),
	)
	s.notifier.Notify(ui.NewNotice(ui.NoticeSuccess, fmt.Sprintf("%s has been added to the cart!", p.Name)))
	s.publish(snap)
	return item
}

// RemoveItem drops the line item for productID. Unknown ids are ignored.
func (s *Store) RemoveItem(productID string) {
	s.mu.Lock()
	if !s.removeLocked(productID) {
		s.mu.Unlock()
		return
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
}

// SetQuantity sets the exact quantity of a line item. A quantity of zero or
// less removes it; unknown ids are ignored.
func (s *Store) SetQuantity(productID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(productID)
		return
	}

	s.mu.Lock()
	i, ok := s.index[productID]
	if !ok || s.items[i].Quantity == quantity {
		s.mu.Unlock()
		return
	}
	s.items[i].Quantity = quantity
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	if len(s.items) == 0 {
		s.mu.Unlock()
		return
	}
	s.items = nil
	s.index = make(map[string]int)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
}

// Totals is recomputed from the line items on every call.
func (s *Store) Totals() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalOf(s.items)
}

// ItemCount is the sum of all quantities.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return countOf(s.items)
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []domain.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.LineItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every mutation.
func (s *Store) Subscribe(fn func(domain.Snapshot)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) removeLocked(productID string) bool {
	i, ok := s.index[productID]
	if !ok {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, productID)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j].ProductID] = j
	}
	return true
}

func (s *Store) snapshotLocked() domain.Snapshot {
	items := make([]domain.LineItem, len(s.items))
	copy(items, s.items)
	return domain.Snapshot{
		Items:     items,
		ItemCount: countOf(items),
		Total:     totalOf(items),
	}
}

func (s *Store) publish(snap domain.Snapshot) {
	s.subMu.Lock()
	fns := make([]func(domain.Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func totalOf(items []domain.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

func countOf(items []domain.LineItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
