// Package introspect is the Type Introspector subsystem (spec §4.1).
//
// Go has no runtime concept of "the constructor of a class": there is no
// reflection API that enumerates a struct's construction parameters. Every
// binding in this module therefore registers an explicit constructor
// function, and the introspector caches what reflection over that function's
// signature can tell us — parameter kinds, names (best-effort, since Go
// does not retain argument names in reflect.Type), nullability, and any
// defaults/alternates supplied at registration time (Go has no default
// parameter values, so these are metadata the caller attaches, not something
// derived from the language).
package introspect

import (
	"fmt"
	"reflect"
	"sync"
)

// Kind classifies a constructor parameter the way spec §4.1 requires.
type Kind int

const (
	KindNone Kind = iota
	KindBuiltin
	KindNamed
	KindUnion
	KindIntersection
)

func (k Kind) String() string {
	switch k {
	case KindBuiltin:
		return "builtin"
	case KindNamed:
		return "named"
	case KindUnion:
		return "union"
	case KindIntersection:
		return "intersection"
	default:
		return "none"
	}
}

// Param is the per-parameter record spec §4.1 names:
// (name, typeKind, typeName, nullable, hasDefault, defaultValue).
type Param struct {
	Name       string
	Kind       Kind
	TypeName   string
	Nullable   bool
	HasDefault bool
	Default    any
	// Alternates holds, for a union-shaped parameter, the identifiers to try
	// in declared order before falling back to nullable/default/failure —
	// the Go-idiomatic stand-in for source-order union member resolution
	// (Go has no union types). Empty for every other Kind.
	Alternates []string
	Type       reflect.Type
}

// Class is the cached per-constructor record.
type Class struct {
	Name         string
	Instantiable bool
	Ctor         reflect.Value
	ReturnType   reflect.Type
	Params       []Param
}

// Option customizes how a registered constructor's parameters are
// classified, supplying what Go's reflection cannot: default values and
// union-style alternates.
type Option func(*spec)

type spec struct {
	defaults   map[int]any
	alternates map[int][]string
	nullable   map[int]bool
}

// WithDefault attaches a default value to the parameter at index i, used
// when that parameter cannot otherwise be resolved.
func WithDefault(i int, value any) Option {
	return func(s *spec) { s.defaults[i] = value }
}

// WithAlternates marks the parameter at index i as union-shaped: ids are
// tried, in order, as alternative identifiers before falling back to
// nullable/default/failure.
func WithAlternates(i int, ids ...string) Option {
	return func(s *spec) { s.alternates[i] = ids }
}

// WithNullable forces the nullable classification of parameter i, overriding
// the kind-derived default. The resolver consults it for named, union and
// intersection parameters; a builtin parameter without a default stays
// unresolvable whatever its nullability.
func WithNullable(i int, nullable bool) Option {
	return func(s *spec) { s.nullable[i] = nullable }
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// Introspector caches constructor signatures keyed by canonical class name.
// Read-mostly: safe for concurrent Get* calls once Register has completed.
type Introspector struct {
	mu      sync.RWMutex
	classes map[string]*Class
}

// New creates an empty introspector.
func New() *Introspector {
	return &Introspector{classes: make(map[string]*Class)}
}

// Register caches the constructor signature for name. ctor must be a func
// returning exactly one value (optionally plus a trailing error).
func (in *Introspector) Register(name string, ctor any, opts ...Option) error {
	ctorVal := reflect.ValueOf(ctor)
	if ctorVal.Kind() != reflect.Func {
		return fmt.Errorf("introspect: constructor for [%s] must be a function, got %T", name, ctor)
	}
	ctorType := ctorVal.Type()
	if ctorType.NumOut() == 0 {
		return fmt.Errorf("introspect: constructor for [%s] must return a value", name)
	}

	s := &spec{
		defaults:   make(map[int]any),
		alternates: make(map[int][]string),
		nullable:   make(map[int]bool),
	}
	for _, opt := range opts {
		opt(s)
	}

	params := make([]Param, ctorType.NumIn())
	for i := 0; i < ctorType.NumIn(); i++ {
		pt := ctorType.In(i)
		p := Param{
			Name:     fmt.Sprintf("arg%d", i),
			TypeName: pt.String(),
			Type:     pt,
		}

		if alts, ok := s.alternates[i]; ok && len(alts) > 0 {
			p.Kind = KindUnion
			p.Alternates = alts
		} else if isBuiltinKind(pt.Kind()) {
			p.Kind = KindBuiltin
		} else {
			p.Kind = KindNamed
		}

		if nb, ok := s.nullable[i]; ok {
			p.Nullable = nb
		} else {
			p.Nullable = isNilable(pt.Kind())
		}

		if dv, ok := s.defaults[i]; ok {
			p.HasDefault = true
			p.Default = dv
		}

		params[i] = p
	}

	returnType := ctorType.Out(0)

	in.mu.Lock()
	defer in.mu.Unlock()
	in.classes[name] = &Class{
		Name:         name,
		Instantiable: returnType.Kind() != reflect.Interface,
		Ctor:         ctorVal,
		ReturnType:   returnType,
		Params:       params,
	}
	return nil
}

// GetClass returns the cached record for name.
func (in *Introspector) GetClass(name string) (*Class, error) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	c, ok := in.classes[name]
	if !ok {
		return nil, fmt.Errorf("introspect: [%s]: %w", name, errNotFound)
	}
	return c, nil
}

// GetConstructorParams returns the cached parameter records for name.
func (in *Introspector) GetConstructorParams(name string) ([]Param, error) {
	c, err := in.GetClass(name)
	if err != nil {
		return nil, err
	}
	return c.Params, nil
}

// GetMethodParams returns parameter records for a method on the return type
// of a previously-registered class constructor, used by CallStatic.
func (in *Introspector) GetMethodParams(class, method string) ([]Param, reflect.Value, error) {
	c, err := in.GetClass(class)
	if err != nil {
		return nil, reflect.Value{}, err
	}
	var recv reflect.Value
	// Methods may be declared on *T or T; try both.
	mt, ok := reflect.PtrTo(c.ReturnType).MethodByName(method)
	if !ok {
		mt, ok = c.ReturnType.MethodByName(method)
		if !ok {
			return nil, reflect.Value{}, fmt.Errorf("introspect: [%s] has no method %q: %w", class, method, errNotFound)
		}
	}
	recv = mt.Func
	ft := mt.Func.Type()
	// Skip receiver (index 0).
	params := make([]Param, ft.NumIn()-1)
	for i := 1; i < ft.NumIn(); i++ {
		pt := ft.In(i)
		kind := KindNamed
		if isBuiltinKind(pt.Kind()) {
			kind = KindBuiltin
		}
		params[i-1] = Param{
			Name:     fmt.Sprintf("arg%d", i-1),
			Kind:     kind,
			TypeName: pt.String(),
			Nullable: isNilable(pt.Kind()),
			Type:     pt,
		}
	}
	return params, recv, nil
}

// IsInstantiable reports whether name's registered constructor produces a
// concrete (non-interface) value.
func (in *Introspector) IsInstantiable(name string) bool {
	c, err := in.GetClass(name)
	if err != nil {
		return false
	}
	return c.Instantiable
}

// Has reports whether name has a cached constructor record.
func (in *Introspector) Has(name string) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	_, ok := in.classes[name]
	return ok
}

// Forget evicts name's constructor record. Per spec §4.1, eviction must drop
// a class's constructor record together with its method records — since
// method records are derived on demand from ReturnType and never cached
// separately, dropping the Class entry is sufficient.
func (in *Introspector) Forget(name string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	delete(in.classes, name)
}

func isBuiltinKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

func isNilable(k reflect.Kind) bool {
	switch k {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return true
	default:
		return false
	}
}

var errNotFound = fmt.Errorf("not found")
