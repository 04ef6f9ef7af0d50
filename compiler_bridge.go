package container

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/denosyscore/container/compiler"
)

// compilerSource adapts a *Container to compiler.Source, the read-only view
// the compiler package walks to build its plan. It never runs reflection
// itself beyond what the live introspector has already cached.
type compilerSource struct {
	c *Container
}

// CompilerSource returns the read-only view compiler.Build/compiler.New
// consume to analyze c's current registry state.
func (c *Container) CompilerSource() compiler.Source {
	return compilerSource{c: c}
}

func (s compilerSource) Bindings() []compiler.BindingInfo {
	s.c.registry.mu.RLock()
	defer s.c.registry.mu.RUnlock()

	out := make([]compiler.BindingInfo, 0, len(s.c.registry.bindings))
	for id, b := range s.c.registry.bindings {
		info := compiler.BindingInfo{ID: id, Shared: b.shared, HasDecorators: s.hasDecorators(id)}
		if _, tagged := s.c.tagged.idToTags[id]; tagged {
			info.HasTags = true
		}
		switch v := b.concrete.(type) {
		case string:
			info.Kind = compiler.KindClass
			info.ClassName = v
		case nil:
			info.Kind = compiler.KindSelf
			info.ClassName = id
		default:
			info.Kind = compiler.KindFactory
		}
		out = append(out, info)
	}
	return out
}

func (s compilerSource) hasDecorators(id string) bool {
	s.c.decorators.mu.RLock()
	defer s.c.decorators.mu.RUnlock()
	return len(s.c.decorators.decorators[id]) > 0 || len(s.c.decorators.middleware[id]) > 0
}

func (s compilerSource) Aliases() []compiler.AliasInfo {
	s.c.registry.mu.RLock()
	defer s.c.registry.mu.RUnlock()

	out := make([]compiler.AliasInfo, 0, len(s.c.registry.aliases))
	for alias, target := range s.c.registry.aliases {
		out = append(out, compiler.AliasInfo{Alias: alias, Target: target})
	}
	return out
}

func (s compilerSource) Contextual() []compiler.ContextualInfo {
	s.c.contextual.mu.RLock()
	defer s.c.contextual.mu.RUnlock()

	var out []compiler.ContextualInfo
	for consumer, needs := range s.c.contextual.bindings {
		for needed, impl := range needs {
			ci := compiler.ContextualInfo{Consumer: consumer, Needed: needed}
			switch impl.kind {
			case implClassName:
				ci.Kind, ci.Payload = "class", impl.className
			case implFactory:
				ci.Kind = "factory"
			case implTagged:
				ci.Kind, ci.Payload = "tagged", impl.tag
			case implConfigured:
				ci.Kind, ci.Payload = "configured", impl.configID
				ci.ConfigLiteral = literalForMap(impl.configMap)
			case implValue:
				ci.Kind = "value"
			}
			out = append(out, ci)
		}
	}
	return out
}

func (s compilerSource) ClassInfo(name string) (compiler.ClassInfo, bool) {
	class, err := s.c.introspector.GetClass(name)
	if err != nil {
		return compiler.ClassInfo{}, false
	}
	params := make([]compiler.ParamInfo, len(class.Params))
	for i, p := range class.Params {
		params[i] = compiler.ParamInfo{
			Name:           p.Name,
			Kind:           p.Kind.String(),
			TypeName:       p.TypeName,
			Nullable:       p.Nullable,
			HasDefault:     p.HasDefault,
			DefaultLiteral: literalFor(p.Default),
			Alternates:     p.Alternates,
		}
	}
	return compiler.ClassInfo{Name: class.Name, Instantiable: class.Instantiable, Params: params}, true
}

// literalFor renders a best-effort Go literal for a default value. Only
// string/bool/numeric defaults have a literal form; a nil default renders
// as nil, and anything else as nil followed by an "unsupported default
// literal" comment.
func literalFor(v any) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprintf("%v", val)
	case nil:
		return "nil"
	default:
		return "nil /* unsupported default literal */"
	}
}

// literalForMap renders a best-effort Go map literal for a GiveConfigured
// configuration map, keys sorted for deterministic output. Non-literal
// values fall back through literalFor's own default case.
func literalForMap(m map[string]any) string {
	if len(m) == 0 {
		return "map[string]any{}"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("map[string]any{")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q: %s", k, literalFor(m[k]))
	}
	b.WriteString("}")
	return b.String()
}

// InvokeRegistered calls name's registered constructor directly with args
// already resolved, skipping alias rewriting, contextual lookup, and cycle
// detection — the compiled resolver's job is to have already proven the
// dependency graph acyclic and fully wired at compile time.
func (c *Container) InvokeRegistered(name string, args ...any) (any, error) {
	class, err := c.introspector.GetClass(name)
	if err != nil {
		return nil, &NotFoundError{ID: name}
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		if a == nil {
			in[i] = reflect.Zero(class.Ctor.Type().In(i))
			continue
		}
		in[i] = reflect.ValueOf(a)
	}
	out := class.Ctor.Call(in)
	if len(out) > 1 {
		last := out[len(out)-1]
		if isErrorType(last.Type()) && !last.IsNil() {
			return nil, last.Interface().(error)
		}
	}
	return out[0].Interface(), nil
}

// BindCompiled registers a compiled factory for id with the given sharing
// flag, the way Bind/Singleton do, but named separately so generated code
// reads as calling out to the compiler rather than a hand-written binding.
// Unlike Bind and Singleton it does not fire BindingRegistered.
func (c *Container) BindCompiled(id string, shared bool, factory Factory) {
	c.registry.Bind(id, factory, shared)
}

// Compile analyzes c's current registry and writes a reflection-free
// resolver file named path inside opts.OutputDir, using opts (or
// compiler.DefaultOptions() if the zero value is passed for PackageName).
func (c *Container) Compile(path string, opts compiler.Options) (string, error) {
	if opts.PackageName == "" {
		opts = compiler.DefaultOptions()
	}
	comp := compiler.New(c.CompilerSource(), opts)
	if err := comp.Compile(path); err != nil {
		return "", &CompilationFailedError{Reason: "emit/write failed", Cause: err}
	}
	return comp.Fingerprint(), nil
}
