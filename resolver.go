package container

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/denosyscore/container/introspect"
)

// resolveState is the per-call-chain state spec §3 calls the "resolving
// stack" and the contextual "resolution context stack". It is threaded
// explicitly through recursive resolution rather than held as shared
// container state, so independent top-level Get calls on the same
// container never contend or cross-contaminate each other's cycle
// detection or contextual-override state — see DESIGN.md.
type resolveState struct {
	resolving     []string // identifiers under construction on this call chain
	context       []string // consumer-class context stack for this call chain
	correlationID string
}

func (s *resolveState) top() string {
	if len(s.context) == 0 {
		return ""
	}
	return s.context[len(s.context)-1]
}

func (s *resolveState) inResolving(id string) bool {
	for _, r := range s.resolving {
		if r == id {
			return true
		}
	}
	return false
}

// Get resolves id, running the full pipeline spec §4.3 describes: mock
// short-circuit and contextual override (both on id as given), alias
// rewrite, instance cache,
// deferred-provider hook, factory selection, cycle detection, construction,
// sharing, decoration, and event/metric dispatch.
func (c *Container) Get(id string) (any, error) {
	st := &resolveState{correlationID: uuid.NewString()}
	return c.resolve(id, st)
}

// resolve is the unexported, recursion-safe core of Get. Nested dependency
// resolution calls this directly (threading the caller's resolveState)
// rather than the public Get, so a single call chain's cycle detection and
// contextual context stack are shared across the whole construction.
func (c *Container) resolve(id string, st *resolveState) (any, error) {
	start := time.Now()
	c.events.fireStarting(id)

	// Step 2: mock check — records resolution, skips cycle guard entirely.
	if v, ok := c.mocks.lookup(id); ok {
		c.events.fireDone(id, v)
		c.metrics.record(id, start, st.correlationID)
		if spy := c.spyFor(id); spy != nil {
			spy.record()
		}
		return v, nil
	}

	// Step 3: contextual override — consult only the current top of the
	// context stack, per spec §4.4.
	if consumer := st.top(); consumer != "" {
		if impl, ok := c.contextual.lookup(consumer, id); ok {
			v, err := c.contextual.resolveImpl(impl, c, st)
			if err != nil {
				werr := wrapFailure(id, st.resolving, err)
				c.events.fireFailed(id, werr)
				return nil, werr
			}
			c.events.fireDone(id, v)
			c.metrics.record(id, start, st.correlationID)
			if spy := c.spyFor(id); spy != nil {
				spy.record()
			}
			return v, nil
		}
	}

	// Step 4: alias rewrite.
	key := c.registry.canonical(id)

	// Step 5: instance cache.
	if inst, ok := c.registry.lookupInstance(key); ok {
		c.events.fireDone(id, inst)
		c.metrics.record(id, start, st.correlationID)
		if spy := c.spyFor(id); spy != nil {
			spy.record()
		}
		return inst, nil
	}

	// Step 6: deferred-provider hook — invoked once if id is unbound.
	if !c.registry.Has(key) && c.deferredResolver != nil {
		c.deferredResolver(key, c)
	}

	// Step 7: select a factory.
	b, bkey, bound := c.registry.lookupBinding(key)

	// Steps 8-9: cycle guard.
	if st.inResolving(bkey) {
		err := &CircularError{ID: bkey, Chain: append([]string{}, st.resolving...)}
		werr := wrapFailure(id, st.resolving, err)
		c.events.fireFailed(id, werr)
		return nil, werr
	}
	st.resolving = append(st.resolving, bkey)
	popped := false
	pop := func() {
		if popped {
			return
		}
		popped = true
		st.resolving = st.resolving[:len(st.resolving)-1]
	}
	defer pop()

	var instance any
	var err error
	if bound {
		instance, err = c.invokeConcrete(bkey, b.concrete, st)
	} else {
		instance, err = c.constructClass(bkey, st)
	}

	if err == nil && bound {
		for _, ext := range b.extenders {
			instance = ext(instance, c)
		}
	}

	pop() // guaranteed on all exit paths, including the error path below

	if err != nil {
		werr := wrapFailure(id, st.resolving, err)
		c.events.fireFailed(id, werr)
		return nil, werr
	}

	// Step 11: decorator chain, then middleware, at most once, before the
	// value is cached — a shared binding must cache the decorated instance,
	// or the cache-hit path above returns the raw value on every call after
	// the first.
	instance = c.decorators.apply(bkey, instance, c)

	if bound && b.shared {
		c.registry.storeInstance(bkey, instance)
	}

	c.events.fireDone(id, instance)
	c.metrics.record(id, start, st.correlationID)
	if spy := c.spyFor(id); spy != nil {
		spy.record()
	}
	return instance, nil
}

// invokeConcrete dispatches a binding's concrete to its constructing form:
// spec §3's (a) factory closure, (b) class name, (c) nil meaning "construct
// the identifier itself".
func (c *Container) invokeConcrete(key string, concrete any, st *resolveState) (any, error) {
	switch v := concrete.(type) {
	case Factory:
		return v(c)
	case func(c *Container) (any, error):
		return v(c)
	case string:
		return c.constructClass(v, st)
	case nil:
		return c.constructClass(key, st)
	default:
		return nil, fmt.Errorf("container: [%s]: %w: unsupported concrete type %T", key, ErrInvalidBinding, concrete)
	}
}

// constructClass reflects on name's registered constructor, binding each
// parameter per spec §4.3's table, pushing/popping the contextual
// consumer-class stack immediately around parameter binding (spec §4.4).
func (c *Container) constructClass(name string, st *resolveState) (any, error) {
	class, err := c.introspector.GetClass(name)
	if err != nil {
		return nil, &NotFoundError{ID: name}
	}
	if !class.Instantiable {
		return nil, &NotInstantiableError{ID: name, Reason: "constructor returns an interface type"}
	}

	st.context = append(st.context, name)
	defer func() { st.context = st.context[:len(st.context)-1] }()

	args := make([]reflect.Value, len(class.Params))
	for i, p := range class.Params {
		v, err := c.resolveParam(name, p, st)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	out := class.Ctor.Call(args)
	if len(out) > 1 {
		last := out[len(out)-1]
		if isErrorType(last.Type()) && !last.IsNil() {
			return nil, last.Interface().(error)
		}
	}
	return out[0].Interface(), nil
}

// resolveParam implements the constructor parameter table of spec §4.3.
func (c *Container) resolveParam(owner string, p introspect.Param, st *resolveState) (reflect.Value, error) {
	switch p.Kind {
	case introspect.KindBuiltin:
		if p.HasDefault {
			return coerce(p.Default, p.Type)
		}
		return reflect.Value{}, &UnresolvableError{ID: owner, Param: p.Name, ParamType: p.TypeName}

	case introspect.KindNamed:
		if c.hasSourceFor(owner, p.TypeName) {
			v, err := c.resolve(p.TypeName, st)
			if err != nil {
				return reflect.Value{}, err
			}
			return coerce(v, p.Type)
		}
		if p.Nullable {
			return reflect.Zero(p.Type), nil
		}
		if p.HasDefault {
			return coerce(p.Default, p.Type)
		}
		return reflect.Value{}, &UnresolvableError{ID: owner, Param: p.Name, ParamType: p.TypeName}

	case introspect.KindUnion:
		for _, alt := range p.Alternates {
			if c.hasSourceFor(owner, alt) {
				v, err := c.resolve(alt, st)
				if err != nil {
					return reflect.Value{}, err
				}
				return coerce(v, p.Type)
			}
		}
		if p.Nullable {
			return reflect.Zero(p.Type), nil
		}
		if p.HasDefault {
			return coerce(p.Default, p.Type)
		}
		return reflect.Value{}, &UnresolvableError{ID: owner, Param: p.Name, ParamType: p.TypeName}

	case introspect.KindIntersection:
		if p.HasDefault {
			return coerce(p.Default, p.Type)
		}
		if p.Nullable {
			return reflect.Zero(p.Type), nil
		}
		return reflect.Value{}, &UnresolvableError{ID: owner, Param: p.Name, ParamType: p.TypeName}

	default: // KindNone — "untyped"
		if p.HasDefault {
			return coerce(p.Default, p.Type)
		}
		return reflect.Value{}, &UnresolvableError{ID: owner, Param: p.Name, ParamType: p.TypeName}
	}
}

// hasSourceFor reports whether name can be resolved as a dependency of
// owner: either directly (bound, instantiated, or a registered class) or
// via a contextual override registered for (owner, name) — spec §4.4's
// "when owner needs name, give it impl" must apply even when name itself
// carries no binding of its own.
func (c *Container) hasSourceFor(owner, name string) bool {
	if c.registry.Has(name) || c.introspector.Has(name) {
		return true
	}
	_, ok := c.contextual.lookup(owner, name)
	return ok
}

func coerce(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		if t == nil {
			return reflect.Value{}, nil
		}
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(v)
	if t == nil {
		return rv, nil
	}
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	if rv.Type().ConvertibleTo(t) {
		return rv.Convert(t), nil
	}
	return reflect.Value{}, &TypeMismatchError{Expected: t.String(), Got: rv.Type().String()}
}

func isErrorType(t reflect.Type) bool {
	return t.Implements(reflect.TypeOf((*error)(nil)).Elem())
}

// GetDependencies returns the identifiers id's registered constructor would
// attempt to resolve by name (named and union-alternate parameters;
// builtins carry no identifier).
func (c *Container) GetDependencies(id string) []string {
	key := c.registry.canonical(id)
	name := key
	if b, _, bound := c.registry.lookupBinding(key); bound {
		if s, ok := b.concrete.(string); ok {
			name = s
		}
	}
	class, err := c.introspector.GetClass(name)
	if err != nil {
		return nil
	}
	var out []string
	for _, p := range class.Params {
		switch p.Kind {
		case introspect.KindNamed:
			out = append(out, p.TypeName)
		case introspect.KindUnion:
			out = append(out, p.Alternates...)
		}
	}
	return out
}
