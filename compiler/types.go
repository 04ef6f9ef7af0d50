// Package compiler implements the Compiler subsystem (spec §4.8): it reads
// a snapshot of a registry's bindings, aliases, contextual bindings, and
// constructor signatures, and emits the Go source of a specialized resolver
// that never uses reflect at runtime.
//
// Go has no subclassing; spec's "subclass of the base container" is
// rendered the idiomatic Go way — a generated struct that embeds
// *container.Container and shadows the methods it needs to override
// (Bind), exactly the composition-over-inheritance pattern the rest of the
// pack uses for "mirrors Laravel's X" types.
package compiler

// ConcreteKind classifies how a binding's value is produced, mirroring
// spec §3's three concrete forms as they survive reflection erasure in Go.
type ConcreteKind int

const (
	// KindFactory is a Go closure (Factory). Its static return type is
	// always `any` (Go has no covariant closure return narrowing without
	// generics the reflect.Value call site can see), so — per spec §4.8's
	// own "closure whose declared return type identifies a concrete class"
	// clause — a bare Factory binding can never be proven compilable here
	// and is always excluded from the plan. See DESIGN.md.
	KindFactory ConcreteKind = iota
	// KindClass names a registered constructor by name.
	KindClass
	// KindSelf means "construct the identifier itself by reflection".
	KindSelf
)

// BindingInfo is one registry entry as the compiler sees it.
type BindingInfo struct {
	ID            string
	Kind          ConcreteKind
	ClassName     string // valid for KindClass/KindSelf
	Shared        bool
	HasDecorators bool
	HasTags       bool
}

// AliasInfo is one alias -> canonical identifier mapping.
type AliasInfo struct {
	Alias  string
	Target string
}

// ContextualInfo is one (consumer, needed) -> impl contextual binding.
type ContextualInfo struct {
	Consumer string
	Needed   string
	Kind     string // "class" | "factory" | "tagged" | "configured" | "value"
	Payload  string // class name, tag name, or configured class name
	// ConfigLiteral is a best-effort Go map literal for a "configured"
	// override's configuration map, used only when Kind is "configured".
	ConfigLiteral string
}

// ParamInfo mirrors introspect.Param, narrowed to what code generation and
// fingerprinting need (no reflect.Type — the compiler never runs reflection
// itself, only reads facts a live introspector already computed).
type ParamInfo struct {
	Name       string
	Kind       string // builtin | named | union | intersection | none
	TypeName   string
	Nullable   bool
	HasDefault bool
	// DefaultLiteral is a best-effort Go literal for the default value,
	// emitted whenever a parameter of any kind falls back to its default.
	// Only string/bool/numeric defaults have a literal form; any other
	// default is rendered as nil with a comment (see literalFor in the root
	// package's compiler_bridge.go).
	DefaultLiteral string
	Alternates     []string
}

// ClassInfo is a registered constructor's signature, as the compiler needs
// it for dependency walking and emission.
type ClassInfo struct {
	Name         string
	Instantiable bool
	Params       []ParamInfo
}

// Source is the read-only view of a container's registry the compiler
// consumes. container.Container implements it via an unexported adapter —
// see compiler_bridge.go in the root package.
type Source interface {
	Bindings() []BindingInfo
	Aliases() []AliasInfo
	Contextual() []ContextualInfo
	ClassInfo(name string) (ClassInfo, bool)
}
