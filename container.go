// Package container implements a dependency-injection container: a binding
// registry with shared/transient lifetimes, reflection-driven constructor
// resolution, contextual overrides, tagged/multi resolution, decorator
// chains, scoped bindings, and an optional ahead-of-time compiler that
// emits a reflection-free resolver (see the compiler subpackage).
package container

import (
	"errors"

	"github.com/denosyscore/container/introspect"
)

// Container is the façade tying the registry, resolver, contextual manager,
// tagged registry, decorator chain, mocks, events, and metrics together —
// mirrors the teacher's single Container struct, generalized from a fixed
// set of maps to the cooperating subsystems spec §2 names.
type Container struct {
	registry     *registry
	introspector *introspect.Introspector
	contextual   *contextualManager
	tagged       *taggedRegistry
	decorators   *decoratorChain
	mocks        *mockRegistry
	events       *Events
	metrics      *metricsRecorder
	logger       Logger

	// autoDiscover toggles ResolveAll step 2 (spec §4.5): whether declared
	// concretes participate even without an explicit multi-bind or tag.
	autoDiscover bool

	// deferredResolver runs once when Get encounters an unbound identifier,
	// giving a caller a last chance to register a binding on demand — the
	// Go stand-in for spec §4.3 step 6's "deferred provider hook".
	deferredResolver func(id string, c *Container)
}

// Option customizes a new Container at construction time.
type Option func(*Container)

// WithAutoDiscovery enables ResolveAll's declared-concrete auto-discovery
// step. Off by default, since most Go programs declare their candidate set
// explicitly via MultiBind or Tag.
func WithAutoDiscovery(enabled bool) Option {
	return func(c *Container) { c.autoDiscover = enabled }
}

// WithLogger overrides the default *log.Logger used for Tagged's
// per-item skip diagnostics.
func WithLogger(l Logger) Option {
	return func(c *Container) { c.logger = l }
}

// WithDeferredResolver installs a hook invoked once whenever Get is asked
// for an identifier with no binding, instance, or resolvable class.
func WithDeferredResolver(fn func(id string, c *Container)) Option {
	return func(c *Container) { c.deferredResolver = fn }
}

// New creates an empty container, bound to itself under the identifier
// "container" — matching the teacher's own self-registration idiom.
func New(opts ...Option) *Container {
	logger := defaultLogger()
	c := &Container{
		introspector: introspect.New(),
		contextual:   newContextualManager(),
		decorators:   newDecoratorChain(),
		mocks:        newMockRegistry(),
		events:       newEvents(),
		metrics:      newMetricsRecorder(0),
		logger:       logger,
	}
	c.registry = newRegistry(c.introspector)
	c.tagged = newTaggedRegistry(logger)

	for _, opt := range opts {
		opt(c)
	}
	if c.logger != nil {
		c.tagged.logger = c.logger
	}

	c.registry.Instance("container", c)
	return c
}

// RegisterConstructor caches name's constructor signature so the resolver
// can build it by name — spec §4.1's registration entry point. ctor must be
// a function returning one value, optionally plus a trailing error.
func (c *Container) RegisterConstructor(name string, ctor any, opts ...introspect.Option) error {
	return c.introspector.Register(name, ctor, opts...)
}

// WithDefault forwards to introspect.WithDefault, for use with
// RegisterConstructor.
func WithDefault(i int, value any) introspect.Option { return introspect.WithDefault(i, value) }

// WithAlternates forwards to introspect.WithAlternates, for use with
// RegisterConstructor.
func WithAlternates(i int, ids ...string) introspect.Option {
	return introspect.WithAlternates(i, ids...)
}

// Bind registers a transient factory, class name, or "construct by
// identifier" (nil) concrete for id.
func (c *Container) Bind(id string, concrete any) {
	c.registry.Bind(id, concrete, false)
	c.events.fireBind(id, concrete, false)
}

// Singleton registers a shared concrete for id: the first resolution is
// cached and returned on every subsequent Get.
func (c *Container) Singleton(id string, concrete any) {
	c.registry.Bind(id, concrete, true)
	c.events.fireBind(id, concrete, true)
}

// Instance stores value directly as id's cached resolution, type-checking
// it against any interface previously declared for id via DeclareInterface.
func (c *Container) Instance(id string, value any) error {
	return c.registry.Instance(id, value)
}

// DeclareInterface records that id names an interface type, so future
// Instance calls against id are type-checked. ifacePtr is a nil pointer of
// the interface, e.g. (*Logger)(nil).
func (c *Container) DeclareInterface(id string, ifacePtr any) {
	c.registry.DeclareInterface(id, ifacePtr)
}

// Alias registers alias as another name for id. Fails NotFound unless id is
// currently bound, instantiated, or a resolvable class.
func (c *Container) Alias(alias, id string) error {
	return c.registry.Alias(alias, id)
}

// Extend wraps id's concrete with transformer, applied once per
// construction (or immediately, if id already has a cached instance).
func (c *Container) Extend(id string, transformer func(any, *Container) any) error {
	return c.registry.Extend(id, transformer, c)
}

// Has reports whether id is bound, instantiated, or a resolvable class.
func (c *Container) Has(id string) bool {
	return c.registry.Has(id) || c.introspector.Has(id)
}

// Forget removes every registration for id: binding, instance, and
// constructor record.
func (c *Container) Forget(id string) {
	c.registry.Forget(id)
	c.introspector.Forget(id)
}

// GetBindings returns a snapshot of every identifier with a binding or
// cached instance.
func (c *Container) GetBindings() []string {
	return c.registry.GetBindings()
}

// When begins a contextual binding: c.When("Consumer").Needs("I").Give("Impl").
func (c *Container) When(consumer string) *ContextualBuilder {
	return &ContextualBuilder{container: c, consumer: consumer}
}

// Tag associates every id in ids with every tag in tags.
func (c *Container) Tag(ids []string, tags ...string) {
	c.tagged.Tag(ids, tags)
}

// Tagged resolves every identifier registered under tag, in insertion order,
// logging and skipping individual resolution failures rather than failing
// the batch — distinct from ResolveAll, which aggregates multi-bindings and
// declared concretes and fails only when nothing resolves.
func (c *Container) Tagged(tag string) []any {
	return c.tagged.Tagged(tag, c, &resolveState{})
}

// MultiBind registers id as an explicit candidate for abstract's
// ResolveAll, at priority (higher runs first; ties by insertion order).
func (c *Container) MultiBind(abstract, id string, priority int) {
	c.tagged.MultiBind(abstract, id, priority)
}

// RegisterConcrete declares that concrete satisfies iface for ResolveAll's
// auto-discovery step (see WithAutoDiscovery).
func (c *Container) RegisterConcrete(iface, concrete string) {
	c.tagged.RegisterConcrete(iface, concrete)
}

// SetDeferredResolver installs or replaces the deferred-provider hook.
func (c *Container) SetDeferredResolver(fn func(id string, c *Container)) {
	c.deferredResolver = fn
}

// Validate resolves every currently bound identifier once, discarding the
// results, to surface construction errors eagerly rather than at first use.
// Shared bindings that succeed remain cached as a side effect.
func (c *Container) Validate() error {
	var errs []error
	for _, id := range c.registry.GetBindings() {
		if _, err := c.Get(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Events returns the event hook registration surface (spec §6).
func (c *Container) Events() *Events {
	return c.events
}
