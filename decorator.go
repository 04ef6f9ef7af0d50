package container

import (
	"sort"
	"sync"
)

// DecoratorFunc transforms a freshly constructed instance, threading the
// current value through to the next stage of the chain.
type DecoratorFunc func(instance any, c *Container) any

type decoratorEntry struct {
	priority int
	order    int
	fn       DecoratorFunc
}

// decoratorChain is the Decorator Chain subsystem (spec §4.6): a
// priority-ordered decorator list plus a FIFO middleware list, both applied
// after construction and distinct from registry.Extend (spec §4.2), which
// wraps the concrete factory itself rather than running as a post-resolution
// pipeline stage.
type decoratorChain struct {
	mu         sync.RWMutex
	decorators map[string][]decoratorEntry
	middleware map[string][]DecoratorFunc
	seq        int
}

func newDecoratorChain() *decoratorChain {
	return &decoratorChain{
		decorators: make(map[string][]decoratorEntry),
		middleware: make(map[string][]DecoratorFunc),
	}
}

// AddDecorator appends (priority, fn); the list is kept sorted ascending by
// priority with a stable sort, so lower-priority decorators run first.
func (d *decoratorChain) AddDecorator(id string, fn DecoratorFunc, priority int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	d.decorators[id] = append(d.decorators[id], decoratorEntry{priority: priority, order: d.seq, fn: fn})
	list := d.decorators[id]
	sort.SliceStable(list, func(i, j int) bool { return list[i].priority < list[j].priority })
}

// AddMiddleware appends fn in FIFO registration order, to a list applied
// after all decorators.
func (d *decoratorChain) AddMiddleware(id string, fn DecoratorFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.middleware[id] = append(d.middleware[id], fn)
}

// apply runs the decorator chain in ascending-priority order, then the
// middleware chain in FIFO order, threading instance through each.
func (d *decoratorChain) apply(id string, instance any, c *Container) any {
	d.mu.RLock()
	decs := append([]decoratorEntry{}, d.decorators[id]...)
	mids := append([]DecoratorFunc{}, d.middleware[id]...)
	d.mu.RUnlock()

	for _, e := range decs {
		instance = e.fn(instance, c)
	}
	for _, m := range mids {
		instance = m(instance, c)
	}
	return instance
}

// Decorate registers a decorator for id at a priority (ascending order;
// lower runs first).
func (c *Container) Decorate(id string, fn DecoratorFunc, priority int) {
	c.decorators.AddDecorator(id, fn, priority)
}

// Middleware registers a FIFO-ordered post-decorator transform for id.
func (c *Container) Middleware(id string, fn DecoratorFunc) {
	c.decorators.AddMiddleware(id, fn)
}
