package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ariefcatur/go-storefront/internal/snapshot"
)

// Registry owns the carts of the process, opening each one lazily from the
// snapshot store on first access.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*Cart
	store snapshot.Store
	log   *slog.Logger
	subs  []func(id string, s Snapshot)
}

func NewRegistry(store snapshot.Store, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{carts: map[string]*Cart{}, store: store, log: log}
}

// Key is the snapshot key of cart id. The empty id maps to the bare namespace.
func Key(id string) string {
	if id == "" {
		return StorageKey
	}
	return StorageKey + ":" + id
}

func (r *Registry) Get(ctx context.Context, id string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.carts[id]; ok {
		return c
	}
	c := Open(ctx, r.store, Key(id), r.log.With("cart_id", id))
	for _, fn := range r.subs {
		fn := fn
		c.Subscribe(func(s Snapshot) { fn(id, s) })
	}
	r.carts[id] = c
	return c
}

// Subscribe registers fn on every cart opened after the call.
func (r *Registry) Subscribe(fn func(id string, s Snapshot)) {
	r.mu.Lock()
	r.subs = append(r.subs, fn)
	r.mu.Unlock()
}
