package cart

import (
	"math"
	"sync"

	"qrmenu-telegram/models"
)

// Entry is one cart line: a denormalized menu item plus its quantity.
// Quantity is always >= 1 while the entry exists; an entry that would drop
// to zero is removed instead.
type Entry struct {
	Item     models.MenuItem
	Quantity int
}

// Cart maps item ids to entries, preserving first-added order for display.
// There is a single writer per session, but flow timers clear the cart from
// their own goroutine, so mutations are guarded.
type Cart struct {
	mu      sync.Mutex
	order   []string // item ids, first-added-first-shown
	entries map[string]*Entry
}

func New() *Cart {
	return &Cart{entries: make(map[string]*Entry)}
}

// Add inserts the item with quantity 1, or increments an existing entry.
func (c *Cart) Add(item models.MenuItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[item.ID]; ok {
		e.Quantity++
		return
	}
	c.entries[item.ID] = &Entry{Item: item, Quantity: 1}
	c.order = append(c.order, item.ID)
}

// UpdateQuantity sets the quantity to an absolute value. qty <= 0 removes
// the entry. Unknown ids are ignored.
func (c *Cart) UpdateQuantity(itemID string, qty int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[itemID]
	if !ok {
		return
	}
	if qty <= 0 {
		c.removeLocked(itemID)
		return
	}
	e.Quantity = qty
}

// Remove deletes the entry if present.
func (c *Cart) Remove(itemID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(itemID)
}

func (c *Cart) removeLocked(itemID string) {
	if _, ok := c.entries[itemID]; !ok {
		return
	}
	delete(c.entries, itemID)
	for i, id := range c.order {
		if id == itemID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Entry)
	c.order = nil
}

// Total returns sum(price * quantity) rounded to 2 fractional digits.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, e := range c.entries {
		total += e.Item.Price * float64(e.Quantity)
	}
	return math.Round(total*100) / 100
}

// ItemCount returns sum of quantities (the cart badge number).
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.entries {
		n += e.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries) == 0
}

// QuantityMap returns an id -> quantity snapshot for per-item quantity
// controls, without exposing cart internals.
func (c *Cart) QuantityMap() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := make(map[string]int, len(c.entries))
	for id, e := range c.entries {
		m[id] = e.Quantity
	}
	return m
}

// Items returns a snapshot of entries in first-added order.
func (c *Cart) Items() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.entries[id])
	}
	return out
}
