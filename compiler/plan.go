package compiler

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// CompiledFactory is one scheduled factory method in the plan.
type CompiledFactory struct {
	ClassName   string
	FuncName    string // deterministic, stable-hashed name
	Params      []CompiledParam
	Instantiable bool
}

// CompiledParam is one resolved argument expression for a compiled factory.
type CompiledParam struct {
	Kind ParamSourceKind
	// ClassName is set when Kind is paramFromFactory/paramFromGet.
	ClassName string
	// Literal is a Go literal expression, set when Kind is paramLiteral.
	Literal string
	// ParamType is the declared Go type name of the parameter. It feeds the
	// fingerprint; the emitter does not read it.
	ParamType string
}

// ParamSourceKind says where a compiled factory argument comes from.
type ParamSourceKind int

const (
	paramFromFactory ParamSourceKind = iota // another compiled factory in this plan
	paramFromGet                            // runtime get(name) fallback (bound, but not itself compiled)
	paramNil
	paramLiteral
)

// CompiledBinding is a top-level binding the plan will pre-register.
type CompiledBinding struct {
	ID        string
	ClassName string
	Shared    bool
}

// Plan is the compiler's analyzed output: the set of compilable bindings,
// the factories needed to build them (including transitive dependencies),
// and which top-level bindings could not be compiled and why.
type Plan struct {
	Bindings  []CompiledBinding
	Factories []CompiledFactory // deterministic order: depth-first, dependencies before dependents
	Aliases   []AliasInfo
	Contextual []ContextualInfo
	Skipped   map[string]string // id -> reason
}

// contextualIndex is a (consumer -> needed -> override) lookup built once
// from the full set of contextual bindings a registry carries, so nested
// constructor parameters can be checked against the same per-consumer
// overrides the runtime resolver consults.
type contextualIndex map[string]map[string]ContextualInfo

func buildContextualIndex(entries []ContextualInfo) contextualIndex {
	idx := make(contextualIndex, len(entries))
	for _, e := range entries {
		if idx[e.Consumer] == nil {
			idx[e.Consumer] = make(map[string]ContextualInfo)
		}
		idx[e.Consumer][e.Needed] = e
	}
	return idx
}

// Build performs the depth-first plan construction of spec §4.8.
func Build(src Source) *Plan {
	plan := &Plan{Skipped: make(map[string]string)}
	factories := make(map[string]*CompiledFactory) // className -> factory
	order := []string{}

	allContextual := src.Contextual()
	ctxIndex := buildContextualIndex(allContextual)

	contextualTargets := make(map[string]bool)
	for _, ctxb := range allContextual {
		contextualTargets[ctxb.Needed] = true
	}

	bindings := append([]BindingInfo{}, src.Bindings()...)
	sort.Slice(bindings, func(i, j int) bool { return bindings[i].ID < bindings[j].ID })

	for _, b := range bindings {
		if b.Kind == KindFactory {
			plan.Skipped[b.ID] = "factory-kind bindings have an erased return type in Go and cannot be proven compilable"
			continue
		}
		if b.HasDecorators {
			plan.Skipped[b.ID] = "binding has decorators"
			continue
		}
		if b.HasTags {
			plan.Skipped[b.ID] = "binding is tagged"
			continue
		}
		if contextualTargets[b.ID] {
			plan.Skipped[b.ID] = "identifier is the target of a contextual override"
			continue
		}

		className := b.ClassName
		if className == "" {
			className = b.ID
		}

		visiting := map[string]bool{}
		if err := walk(src, className, factories, &order, visiting, ctxIndex); err != "" {
			plan.Skipped[b.ID] = err
			continue
		}

		plan.Bindings = append(plan.Bindings, CompiledBinding{ID: b.ID, ClassName: className, Shared: b.Shared})
	}

	for _, name := range order {
		plan.Factories = append(plan.Factories, *factories[name])
	}
	plan.Aliases = append(plan.Aliases, src.Aliases()...)

	// A "factory" or "value" contextual override carries a live Go closure
	// or an arbitrary runtime value that has no static source representation
	// — re-applying it from generated code is impossible, so it is recorded
	// as skipped (spec §4.8's emission step can only "re-apply contextual
	// bindings using the public builder calls" for forms the builder can be
	// called with literal arguments).
	for _, ctxb := range allContextual {
		switch ctxb.Kind {
		case "factory", "value":
			plan.Skipped[fmt.Sprintf("contextual:%s needs %s", ctxb.Consumer, ctxb.Needed)] =
				fmt.Sprintf("contextual override is a %s, which has no static Go source representation", ctxb.Kind)
		default:
			plan.Contextual = append(plan.Contextual, ctxb)
		}
	}
	return plan
}

// walk recursively schedules factory methods for className and its
// constructor dependencies, depth-first, returning a non-empty reason if
// className cannot be compiled.
func walk(src Source, className string, factories map[string]*CompiledFactory, order *[]string, visiting map[string]bool, ctxIndex contextualIndex) string {
	if _, done := factories[className]; done {
		return ""
	}
	if visiting[className] {
		return fmt.Sprintf("cycle detected at [%s]", className)
	}
	visiting[className] = true
	defer delete(visiting, className)

	ci, ok := src.ClassInfo(className)
	if !ok {
		return fmt.Sprintf("no registered constructor for [%s]", className)
	}
	if !ci.Instantiable {
		return fmt.Sprintf("[%s] is not instantiable", className)
	}

	params := make([]CompiledParam, len(ci.Params))
	for i, p := range ci.Params {
		cp, reason := resolveCompiledParam(src, className, p, factories, order, visiting, ctxIndex)
		if reason != "" {
			return fmt.Sprintf("parameter %q of [%s]: %s", p.Name, className, reason)
		}
		params[i] = cp
	}

	factories[className] = &CompiledFactory{
		ClassName:    className,
		FuncName:     factoryFuncName(className),
		Params:       params,
		Instantiable: true,
	}
	*order = append(*order, className)
	return ""
}

// resolveContextualOverride routes a nested parameter through a contextual
// override registered for (owner, needed). Only a "class" override can be
// wired statically — it walks and schedules the override's target like any
// other dependency; any other kind means this parameter cannot be proven
// compilable, since the runtime resolver's choice for (owner, needed)
// cannot be reproduced as generated source.
func resolveContextualOverride(src Source, owner, needed string, p ParamInfo, override ContextualInfo, factories map[string]*CompiledFactory, order *[]string, visiting map[string]bool, ctxIndex contextualIndex) (CompiledParam, string) {
	if override.Kind != "class" {
		return CompiledParam{}, fmt.Sprintf("[%s] needs [%s] via a contextual %s binding, which the compiler cannot statically wire", owner, needed, override.Kind)
	}
	if _, ok := src.ClassInfo(override.Payload); !ok {
		return CompiledParam{}, fmt.Sprintf("contextual override target [%s] has no registered constructor", override.Payload)
	}
	if reason := walk(src, override.Payload, factories, order, visiting, ctxIndex); reason != "" {
		return CompiledParam{}, reason
	}
	return CompiledParam{Kind: paramFromFactory, ClassName: override.Payload, ParamType: p.TypeName}, ""
}

func resolveCompiledParam(src Source, owner string, p ParamInfo, factories map[string]*CompiledFactory, order *[]string, visiting map[string]bool, ctxIndex contextualIndex) (CompiledParam, string) {
	switch p.Kind {
	case "builtin":
		if p.HasDefault {
			return CompiledParam{Kind: paramLiteral, Literal: p.DefaultLiteral, ParamType: p.TypeName}, ""
		}
		return CompiledParam{}, "builtin with no default is not statically resolvable"

	case "named":
		if override, ok := ctxIndex[owner][p.TypeName]; ok {
			return resolveContextualOverride(src, owner, p.TypeName, p, override, factories, order, visiting, ctxIndex)
		}
		if _, ok := src.ClassInfo(p.TypeName); ok {
			if reason := walk(src, p.TypeName, factories, order, visiting, ctxIndex); reason != "" {
				if p.Nullable {
					return CompiledParam{Kind: paramNil, ParamType: p.TypeName}, ""
				}
				if p.HasDefault {
					return CompiledParam{Kind: paramLiteral, Literal: p.DefaultLiteral, ParamType: p.TypeName}, ""
				}
				return CompiledParam{}, reason
			}
			return CompiledParam{Kind: paramFromFactory, ClassName: p.TypeName, ParamType: p.TypeName}, ""
		}
		if p.Nullable {
			return CompiledParam{Kind: paramNil, ParamType: p.TypeName}, ""
		}
		if p.HasDefault {
			return CompiledParam{Kind: paramLiteral, Literal: p.DefaultLiteral, ParamType: p.TypeName}, ""
		}
		return CompiledParam{}, fmt.Sprintf("no static source for named type [%s]", p.TypeName)

	case "union":
		for _, alt := range p.Alternates {
			if override, ok := ctxIndex[owner][alt]; ok {
				return resolveContextualOverride(src, owner, alt, p, override, factories, order, visiting, ctxIndex)
			}
			if _, ok := src.ClassInfo(alt); ok {
				if reason := walk(src, alt, factories, order, visiting, ctxIndex); reason == "" {
					return CompiledParam{Kind: paramFromFactory, ClassName: alt, ParamType: p.TypeName}, ""
				}
			}
		}
		if p.Nullable {
			return CompiledParam{Kind: paramNil, ParamType: p.TypeName}, ""
		}
		if p.HasDefault {
			return CompiledParam{Kind: paramLiteral, Literal: p.DefaultLiteral, ParamType: p.TypeName}, ""
		}
		return CompiledParam{}, "union parameter has no resolvable alternate and no default/nullable"

	case "intersection":
		if p.HasDefault {
			return CompiledParam{Kind: paramLiteral, Literal: p.DefaultLiteral, ParamType: p.TypeName}, ""
		}
		if p.Nullable {
			return CompiledParam{Kind: paramNil, ParamType: p.TypeName}, ""
		}
		return CompiledParam{}, "intersection parameter requires a default or nullable"

	default:
		if p.HasDefault {
			return CompiledParam{Kind: paramLiteral, Literal: p.DefaultLiteral, ParamType: p.TypeName}, ""
		}
		return CompiledParam{}, "untyped parameter with no default"
	}
}

// factoryFuncName deterministically names a compiled factory method from a
// stable hash of the class name, so repeated compiles of the same registry
// produce byte-identical output (spec §4.8's "reproducible" requirement).
func factoryFuncName(className string) string {
	sum := sha256.Sum256([]byte(className))
	return "factory_" + hex.EncodeToString(sum[:])[:12]
}
