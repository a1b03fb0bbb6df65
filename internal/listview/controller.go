package listview

import (
	"context"
	"sort"
	"sync"

	"github.com/apotekanet/crm-api/internal/gateway"
)

// Entity is anything a Controller can hold in its snapshot.
type Entity interface {
	EntityID() string
}

// Controller keeps the in-memory snapshot of one collection and reconciles
// optimistic mutations against it. Mutation callbacks are applied in the
// order their calls resolve; last resolved wins.
type Controller[E Entity] struct {
	mu      sync.Mutex
	items   []E
	loading bool
	closed  bool

	gw         gateway.Gateway
	collection string
	orderBy    string
	decode     func(gateway.Record) (E, error)
	// less, when set, keeps the snapshot sorted after every insert.
	// When nil, freshly created entities are prepended.
	less func(a, b E) bool
}

// New builds a controller for one collection. decode is the typed boundary
// for the collection's records; less is nil for newest-first insert order.
func New[E Entity](gw gateway.Gateway, collection, orderBy string, decode func(gateway.Record) (E, error), less func(a, b E) bool) *Controller[E] {
	return &Controller[E]{
		gw:         gw,
		collection: collection,
		orderBy:    orderBy,
		decode:     decode,
		less:       less,
	}
}

// Load replaces the snapshot with the backend's current rows, preserving
// server order. On failure the previous snapshot stays untouched and the
// error is returned; retrying is the caller's decision.
func (c *Controller[E]) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.loading = true
	c.mu.Unlock()

	records, err := c.gw.List(ctx, c.collection, c.orderBy)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if c.closed {
		// torn down while the call was in flight, drop the result
		return nil
	}
	if err != nil {
		return err
	}

	next := make([]E, 0, len(records))
	for _, rec := range records {
		e, err := c.decode(rec)
		if err != nil {
			return err
		}
		next = append(next, e)
	}
	c.items = next
	return nil
}

// Items returns a copy of the current snapshot.
func (c *Controller[E]) Items() []E {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]E, len(c.items))
	copy(out, c.items)
	return out
}

// IsLoading reports whether a Load is in flight.
func (c *Controller[E]) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Len returns the snapshot size.
func (c *Controller[E]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// OnCreated inserts a server-confirmed entity. An id already present is
// replaced, never duplicated, so stale or repeated callbacks are safe.
func (c *Controller[E]) OnCreated(e E) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(e.EntityID())
	if c.less == nil {
		c.items = append([]E{e}, c.items...)
		return
	}
	c.items = append(c.items, e)
	sort.SliceStable(c.items, func(i, j int) bool { return c.less(c.items[i], c.items[j]) })
}

// OnUpdated replaces the element with a matching id in place. Unknown ids
// are ignored.
func (c *Controller[E]) OnUpdated(e E) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].EntityID() == e.EntityID() {
			c.items[i] = e
			return
		}
	}
}

// OnDeleted removes the element with a matching id. Unknown ids are ignored.
func (c *Controller[E]) OnDeleted(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(id)
}

func (c *Controller[E]) removeLocked(id string) {
	for i := range c.items {
		if c.items[i].EntityID() == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Close marks the controller as torn down. A Load resolving afterwards
// discards its result instead of mutating state.
func (c *Controller[E]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}
