package container

import "sync"

// contextualImplKind classifies the payload forms spec §4.4 names for a
// contextual binding's implementation.
type contextualImplKind int

const (
	implClassName contextualImplKind = iota
	implFactory
	implTagged
	implConfigured
	implValue
)

type contextualImpl struct {
	kind      contextualImplKind
	className string
	factory   Factory
	tag       string
	configID  string
	configMap map[string]any
	value     any
}

// Configurable is the optional capability a resolved instance may satisfy so
// that GiveConfigured can apply configuration after resolution.
type Configurable interface {
	Configure(map[string]any)
}

// contextualManager is the Contextual Manager subsystem (spec §4.4): a
// (consumer -> (needed -> impl)) table. The per-call-chain context stack
// itself lives in resolveState, not here — it is scoped per resolution call
// chain rather than shared mutable container state, which is the natural Go
// rendering of "pushed when the resolver constructs that class, popped on
// return" for a library whose Get may be called concurrently from
// independent call chains on the same container.
type contextualManager struct {
	mu       sync.RWMutex
	bindings map[string]map[string]*contextualImpl // consumer -> needed -> impl
}

func newContextualManager() *contextualManager {
	return &contextualManager{bindings: make(map[string]map[string]*contextualImpl)}
}

func (m *contextualManager) set(consumer, needed string, impl *contextualImpl) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bindings[consumer] == nil {
		m.bindings[consumer] = make(map[string]*contextualImpl)
	}
	m.bindings[consumer][needed] = impl
}

// lookup returns the contextual impl for (consumer, needed), consulting only
// that exact top-of-stack consumer — spec §4.4: "intermediate stack entries
// are not searched."
func (m *contextualManager) lookup(consumer, needed string) (*contextualImpl, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	needs, ok := m.bindings[consumer]
	if !ok {
		return nil, false
	}
	impl, ok := needs[needed]
	return impl, ok
}

// resolveImpl dispatches a contextual impl to its concrete form.
func (m *contextualManager) resolveImpl(impl *contextualImpl, c *Container, st *resolveState) (any, error) {
	switch impl.kind {
	case implClassName:
		return c.resolve(impl.className, st)
	case implFactory:
		return impl.factory(c)
	case implTagged:
		return c.tagged.Tagged(impl.tag, c, st), nil
	case implConfigured:
		v, err := c.resolve(impl.configID, st)
		if err != nil {
			return nil, err
		}
		if cfgable, ok := v.(Configurable); ok {
			cfgable.Configure(impl.configMap)
		}
		return v, nil
	case implValue:
		return impl.value, nil
	default:
		return nil, &InvalidBindingError{ID: impl.className, Kind: "contextual", Reason: "unknown implementation kind"}
	}
}

// ContextualBuilder is the fluent capability returned by Container.When.
//
//	c.When("Alpha").Needs("I").Give("AltImpl")
type ContextualBuilder struct {
	container *Container
	consumer  string
	needs     string
	needsSet  bool
}

// Needs specifies which abstract the consumer depends on.
func (b *ContextualBuilder) Needs(abstract string) *ContextualBuilder {
	b.needs = abstract
	b.needsSet = true
	return b
}

// Give supplies a class name (string) or a factory (Factory) to use when the
// consumer resolves the needed abstract. Fails InvalidUsage if Needs has not
// been called.
func (b *ContextualBuilder) Give(impl any) error {
	if !b.needsSet {
		return &InvalidUsageError{Reason: "Give called before Needs"}
	}
	switch v := impl.(type) {
	case string:
		b.container.contextual.set(b.consumer, b.needs, &contextualImpl{kind: implClassName, className: v})
	case Factory:
		b.container.contextual.set(b.consumer, b.needs, &contextualImpl{kind: implFactory, factory: v})
	case func(c *Container) (any, error):
		b.container.contextual.set(b.consumer, b.needs, &contextualImpl{kind: implFactory, factory: Factory(v)})
	default:
		b.container.contextual.set(b.consumer, b.needs, &contextualImpl{kind: implValue, value: v})
	}
	return nil
}

// GiveTagged supplies a tag: the consumer's needed abstract resolves to
// Tagged(tag).
func (b *ContextualBuilder) GiveTagged(tag string) error {
	if !b.needsSet {
		return &InvalidUsageError{Reason: "GiveTagged called before Needs"}
	}
	b.container.contextual.set(b.consumer, b.needs, &contextualImpl{kind: implTagged, tag: tag})
	return nil
}

// GiveConfigured resolves class, then — if the result satisfies Configurable
// — invokes Configure(cfg) on it.
func (b *ContextualBuilder) GiveConfigured(class string, cfg map[string]any) error {
	if !b.needsSet {
		return &InvalidUsageError{Reason: "GiveConfigured called before Needs"}
	}
	b.container.contextual.set(b.consumer, b.needs, &contextualImpl{kind: implConfigured, configID: class, configMap: cfg})
	return nil
}
