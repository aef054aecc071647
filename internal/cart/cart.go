// Package cart holds the shopper's cart: the line items they intend to buy
// and the totals derived from them.
//
// A Container is the single source of truth for one client session. Every
// mutation recomputes Total and ItemCount from the line items and writes a
// snapshot to the injected SnapshotStore. Snapshots carry only the items, so
// aggregates are never trusted from storage.
//
// Two processes sharing one snapshot store each keep their own in-memory
// copy. Writes do not propagate between them and the last one to save wins
// on the next load.
package cart

import (
	"math"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Product is the reference a product page hands to the cart.
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Category string          `json:"category"`
}

// LineItem is a product reference plus the quantity the shopper wants.
type LineItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal returns price × quantity for the line.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// State is a read-only view of the cart.
type State struct {
	Items     []LineItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// Empty reports whether the cart has no lines.
func (s State) Empty() bool {
	return len(s.Items) == 0
}

// Container owns the cart state for one session.
type Container struct {
	mu     sync.Mutex
	items  []LineItem
	store  SnapshotStore
	logger zerolog.Logger
}

// Option customizes a Container.
type Option func(*Container)

// WithLogger sets the logger used for persistence warnings.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Container) {
		c.logger = logger
	}
}

// New builds a container and rehydrates it from store. A nil store keeps
// the cart in memory only.
func New(store SnapshotStore, opts ...Option) *Container {
	if store == nil {
		store = nopStore{}
	}
	c := &Container{
		store:  store,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.items = c.rehydrate()
	return c
}

// State returns a copy of the current cart.
func (c *Container) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// AddItem appends p with the given quantity, or increments the existing line
// for p.ID. Quantities below 1 are treated as 1. Increments saturate at
// math.MaxInt.
func (c *Container) AddItem(p Product, quantity int) State {
	if quantity < 1 {
		quantity = 1
	}
	if p.Price.IsNegative() {
		p.Price = decimal.Zero
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if idx := c.indexLocked(p.ID); idx >= 0 {
		c.items[idx].Quantity = addQuantity(c.items[idx].Quantity, quantity)
	} else {
		c.items = append(c.items, LineItem{Product: p, Quantity: quantity})
	}
	return c.commitLocked()
}

// UpdateQuantity sets the absolute quantity of an existing line. Zero or
// negative quantities remove the line. Unknown ids are ignored.
func (c *Container) UpdateQuantity(id string, quantity int) State {
	if quantity <= 0 {
		return c.RemoveItem(id)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexLocked(id)
	if idx < 0 {
		return c.stateLocked()
	}
	c.items[idx].Quantity = quantity
	return c.commitLocked()
}

// RemoveItem deletes the line for id if present.
func (c *Container) RemoveItem(id string) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexLocked(id)
	if idx < 0 {
		return c.stateLocked()
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	return c.commitLocked()
}

// Clear empties the cart and drops the persisted snapshot.
func (c *Container) Clear() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	if err := c.store.Clear(); err != nil {
		c.logger.Warn().Err(err).Msg("cart: clear snapshot")
	}
	return c.stateLocked()
}

func (c *Container) indexLocked(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Container) commitLocked() State {
	if err := c.store.Save(Snapshot{Items: cloneItems(c.items)}); err != nil {
		c.logger.Warn().Err(err).Int("lines", len(c.items)).Msg("cart: save snapshot")
	}
	return c.stateLocked()
}

func (c *Container) stateLocked() State {
	return Derive(c.items)
}

func (c *Container) rehydrate() []LineItem {
	snap, ok, err := c.store.Load()
	if err != nil {
		c.logger.Warn().Err(err).Msg("cart: discarding unreadable snapshot")
		if err := c.store.Clear(); err != nil {
			c.logger.Warn().Err(err).Msg("cart: clear snapshot")
		}
		return nil
	}
	if !ok {
		return nil
	}
	items, dropped := normalize(snap.Items)
	if dropped > 0 {
		c.logger.Warn().Int("dropped", dropped).Msg("cart: snapshot contained invalid lines")
	}
	return items
}

// Derive computes a State from items. Total and ItemCount are always
// computed here and never carried separately.
func Derive(items []LineItem) State {
	out := State{
		Items: cloneItems(items),
		Total: decimal.Zero,
	}
	for _, it := range out.Items {
		out.Total = out.Total.Add(it.Subtotal())
		out.ItemCount = addQuantity(out.ItemCount, it.Quantity)
	}
	return out
}

// normalize applies the line rules to rehydrated data: non-empty
// unique ids, quantity >= 1 and non-negative price. Duplicate ids are merged
// into the first occurrence.
func normalize(in []LineItem) ([]LineItem, int) {
	out := make([]LineItem, 0, len(in))
	seen := make(map[string]int, len(in))
	dropped := 0
	for _, it := range in {
		if it.ID == "" || it.Quantity < 1 {
			dropped++
			continue
		}
		if it.Price.IsNegative() {
			it.Price = decimal.Zero
		}
		if idx, ok := seen[it.ID]; ok {
			out[idx].Quantity = addQuantity(out[idx].Quantity, it.Quantity)
			continue
		}
		seen[it.ID] = len(out)
		out = append(out, it)
	}
	if len(out) == 0 {
		return nil, dropped
	}
	return out, dropped
}

// addQuantity sums two non-negative quantities, clamping at math.MaxInt.
func addQuantity(a, b int) int {
	if b > math.MaxInt-a {
		return math.MaxInt
	}
	return a + b
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
