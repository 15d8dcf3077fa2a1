// Package cart holds the shopping cart aggregate: at most one entry per
// product, quantities always >= 1, a full snapshot persisted after every
// mutation.
package cart

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/snapshot"
)

// StorageKey is the snapshot namespace of the cart.
const StorageKey = "app_cart_v1"

// MaxQuantity caps a single entry. Larger adds are rejected.
const MaxQuantity = 9999

var ErrQuantity = errors.Wrap(catalog.ErrInvalidArgument, "quantity out of range")

type Item struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

func (i Item) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Snapshot is the read model handed to subscribers and API clients.
type Snapshot struct {
	Items      []Item          `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// persistTimeout bounds a snapshot write, which is detached from the caller's
// deadline.
const persistTimeout = 5 * time.Second

type Cart struct {
	mu    sync.Mutex
	key   string
	items []Item
	store snapshot.Store
	log   *slog.Logger

	subMu sync.RWMutex
	subs  []func(Snapshot)
}

// Open loads the cart persisted under key. A missing or unreadable snapshot
// yields an empty cart.
func Open(ctx context.Context, store snapshot.Store, key string, log *slog.Logger) *Cart {
	if log == nil {
		log = slog.Default()
	}
	c := &Cart{key: key, store: store, log: log, items: []Item{}}

	b, err := store.Get(ctx, key)
	switch {
	case errors.Is(err, snapshot.ErrNotFound):
	case err != nil:
		log.Warn("cart snapshot unreadable, starting empty", "key", key, "err", err)
	default:
		var items []Item
		if err := json.Unmarshal(b, &items); err != nil {
			log.Warn("cart snapshot corrupted, starting empty", "key", key, "err", err)
			break
		}
		c.items = normalize(items)
	}
	return c
}

// normalize restores the aggregate invariants on loaded data.
func normalize(items []Item) []Item {
	out := make([]Item, 0, len(items))
	idx := map[string]int{}
	for _, it := range items {
		if it.Product.ID == "" || it.Quantity < 1 {
			continue
		}
		it.Quantity = min(it.Quantity, MaxQuantity)
		if i, ok := idx[it.Product.ID]; ok {
			out[i].Quantity = min(out[i].Quantity+it.Quantity, MaxQuantity)
			continue
		}
		idx[it.Product.ID] = len(out)
		out = append(out, it)
	}
	return out
}

// Add merges quantity into the entry for p, appending a new entry when p is
// absent. An entry whose quantity drops below 1 is removed; a non-positive
// quantity for an absent product changes nothing. An add that would take the
// entry above MaxQuantity fails with ErrQuantity and changes nothing.
func (c *Cart) Add(ctx context.Context, p catalog.Product, quantity int) error {
	if quantity > MaxQuantity || quantity < -MaxQuantity {
		return ErrQuantity
	}
	var rejected bool
	err := c.mutate(ctx, func(items []Item) ([]Item, bool) {
		for i, it := range items {
			if it.Product.ID != p.ID {
				continue
			}
			q := it.Quantity + quantity
			if q > MaxQuantity {
				rejected = true
				return items, false
			}
			if q >= 1 {
				items[i].Quantity = q
				return items, true
			}
			return append(items[:i], items[i+1:]...), true
		}
		if quantity < 1 {
			return items, false
		}
		return append(items, Item{Product: p, Quantity: quantity}), true
	})
	if rejected {
		return ErrQuantity
	}
	return err
}

// Remove deletes the entry for productID. Removing an absent id is a no-op.
func (c *Cart) Remove(ctx context.Context, productID string) error {
	return c.mutate(ctx, func(items []Item) ([]Item, bool) {
		for i, it := range items {
			if it.Product.ID == productID {
				return append(items[:i], items[i+1:]...), true
			}
		}
		return items, false
	})
}

func (c *Cart) Clear(ctx context.Context) error {
	return c.mutate(ctx, func([]Item) ([]Item, bool) { return []Item{}, true })
}

// mutate applies fn under the lock and, when fn reports a change, persists the
// new state before releasing it so snapshot writes land in mutation order.
// A persistence failure is returned but the in-memory state stands.
func (c *Cart) mutate(ctx context.Context, fn func([]Item) ([]Item, bool)) error {
	c.mu.Lock()
	items, changed := fn(c.items)
	if !changed {
		c.mu.Unlock()
		return nil
	}
	c.items = items
	err := c.persist(ctx)
	snap := snapshotOf(c.items)
	c.mu.Unlock()

	c.notify(snap)
	return err
}

func (c *Cart) persist(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	b, err := json.Marshal(c.items)
	if err != nil {
		return errors.Wrap(err, "encode cart")
	}
	if err := c.store.Put(ctx, c.key, b); err != nil {
		c.log.Warn("cart snapshot write failed", "key", c.key, "err", err)
		return errors.Wrap(err, "persist cart")
	}
	return nil
}

func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Item(nil), c.items...)
}

func (c *Cart) TotalItems() int {
	return TotalItems(c.Items())
}

func (c *Cart) TotalPrice() decimal.Decimal {
	return TotalPrice(c.Items())
}

func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return snapshotOf(c.items)
}

// Subscribe registers fn to be called with the new state after every change.
func (c *Cart) Subscribe(fn func(Snapshot)) {
	c.subMu.Lock()
	c.subs = append(c.subs, fn)
	c.subMu.Unlock()
}

func (c *Cart) notify(s Snapshot) {
	c.subMu.RLock()
	subs := append([]func(Snapshot){}, c.subs...)
	c.subMu.RUnlock()
	for _, fn := range subs {
		fn(s)
	}
}

func snapshotOf(items []Item) Snapshot {
	cp := append([]Item{}, items...)
	return Snapshot{Items: cp, TotalItems: TotalItems(cp), TotalPrice: TotalPrice(cp)}
}

func TotalItems(items []Item) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func TotalPrice(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}
