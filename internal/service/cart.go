package service

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"tripdesk/internal/domain"
)

// Cart is the session-scoped trip cart: the ordered list of pending
// bookable items. Pure data, no I/O. Mutations from concurrent UI surfaces
// serialize through the mutex; each call is atomic.
type Cart struct {
	mu    sync.Mutex
	items []domain.TripItem
}

// NewCart creates an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// AddItem appends a new item with a freshly generated id. Always succeeds
// and never deduplicates; validation of details is the producer's job.
func (c *Cart) AddItem(itemType domain.ItemType, price float64, details json.RawMessage) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := domain.TripItem{
		ID:      uuid.New().String(),
		Type:    itemType,
		Price:   price,
		Details: details,
		AddedAt: time.Now(),
	}
	c.items = append(c.items, item)

	return item.ID
}

// RemoveItem removes the item with the given id. No-op when absent.
func (c *Cart) RemoveItem(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, item := range c.items {
		if item.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// RemoveItems removes every item whose id appears in ids. Used after a
// confirmed checkout to clear exactly the purchased entries.
func (c *Cart) RemoveItems(ids []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	purchased := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		purchased[id] = struct{}{}
	}

	kept := c.items[:0]
	for _, item := range c.items {
		if _, ok := purchased[item.ID]; !ok {
			kept = append(kept, item)
		}
	}
	c.items = kept
}

// List returns the current contents in insertion order. The returned slice
// is a copy; it is both the display list and the exact checkout payload.
func (c *Cart) List() []domain.TripItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.TripItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of items in the cart.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// CartManager hands out one cart per browsing session. Carts live in process
// memory for the lifetime of the session; there are no true globals, every
// component receives the manager explicitly.
type CartManager struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

// NewCartManager creates an empty CartManager.
func NewCartManager() *CartManager {
	return &CartManager{carts: make(map[string]*Cart)}
}

// Get returns the cart for a session, creating it on first use.
func (m *CartManager) Get(sessionID string) *Cart {
	m.mu.Lock()
	defer m.mu.Unlock()

	cart, ok := m.carts[sessionID]
	if !ok {
		cart = NewCart()
		m.carts[sessionID] = cart
	}
	return cart
}

// Drop discards a session's cart entirely.
func (m *CartManager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
}
