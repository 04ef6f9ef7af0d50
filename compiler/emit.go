package compiler

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"
)

// emitData is the template rendering context for the generated resolver.
type emitData struct {
	PackageName  string
	Fingerprint  string
	GeneratedAt  string
	Plan         *Plan
	factoryNames map[string]string // className -> CompiledFactory.FuncName
}

// FactoryName looks up the stable, hashed function name generated for
// className's factory, so every call site (registration, param wiring)
// agrees with the one place the name is actually defined.
func (d emitData) FactoryName(className string) string {
	if name, ok := d.factoryNames[className]; ok {
		return name
	}
	return "factory_" + className
}

// ContextualStmt renders the builder-call statement that re-applies one
// contextual override, per spec §4.8's emission step — "re-apply contextual
// bindings using the public builder calls." Only kinds with a literal
// payload reach here; Build already routes "factory"/"value" overrides to
// Plan.Skipped, since a closure or arbitrary runtime value has no Go source
// form.
func (d emitData) ContextualStmt(ci ContextualInfo) string {
	switch ci.Kind {
	case "class":
		return fmt.Sprintf("c.Container.When(%q).Needs(%q).Give(%q)", ci.Consumer, ci.Needed, ci.Payload)
	case "tagged":
		return fmt.Sprintf("c.Container.When(%q).Needs(%q).GiveTagged(%q)", ci.Consumer, ci.Needed, ci.Payload)
	case "configured":
		cfg := ci.ConfigLiteral
		if cfg == "" {
			cfg = "map[string]any{}"
		}
		return fmt.Sprintf("c.Container.When(%q).Needs(%q).GiveConfigured(%q, %s)", ci.Consumer, ci.Needed, ci.Payload, cfg)
	default:
		return fmt.Sprintf("// unsupported contextual override kind %q for [%s]->[%s]", ci.Kind, ci.Consumer, ci.Needed)
	}
}

// ArgExpr renders the argument-building expression for a compiled
// parameter, resolving factory references through FactoryName so renamed or
// hash-collision-free factory names stay consistent across the file.
func (d emitData) ArgExpr(p CompiledParam) string {
	switch p.Kind {
	case paramFromFactory:
		return fmt.Sprintf("%s(c)", d.FactoryName(p.ClassName))
	case paramFromGet:
		return fmt.Sprintf("c.Get(%q)", p.ClassName)
	case paramLiteral:
		return fmt.Sprintf("%s, error(nil)", p.Literal)
	case paramNil:
		return "any(nil), error(nil)"
	default:
		return "any(nil), error(nil)"
	}
}

var sourceTemplate = template.Must(template.New("compiled").Parse(`// Code generated by container/compiler. DO NOT EDIT.
// Fingerprint: {{.Fingerprint}}
// GeneratedAt: {{.GeneratedAt}}

package {{.PackageName}}

import "github.com/denosyscore/container"

const (
	Fingerprint  = "{{.Fingerprint}}"
	GeneratedAt  = "{{.GeneratedAt}}"
	BindingCount = {{len .Plan.Bindings}}
)

// Compiled embeds the base container, shadowing Bind so that identifiers
// the compiler proved statically resolvable bypass reflection entirely.
// This is the idiomatic Go stand-in for spec §4.8's "generated subclass of
// the base container" — Go has no subclassing, so composition takes its
// place.
type Compiled struct {
	*container.Container
}

// New builds a Compiled container around base, pre-registering every
// compiled binding, alias, and contextual override recorded in this plan.
func New(base *container.Container) *Compiled {
	c := &Compiled{Container: base}
	c.register()
	return c
}

// Bind substitutes the compiled factory when (id, className) matches a
// compiled binding, and otherwise falls through to the base container.
func (c *Compiled) Bind(id string, concrete any) {
	if className, ok := concrete.(string); ok {
		switch id + "|" + className {
{{- range .Plan.Bindings}}
		case "{{.ID}}|{{.ClassName}}":
			c.Container.Bind(id, container.Factory({{$.FactoryName .ClassName}}))
			return
{{- end}}
		}
	}
	c.Container.Bind(id, concrete)
}

func (c *Compiled) register() {
{{- $d := . -}}
{{- range .Plan.Bindings}}
	c.Container.BindCompiled("{{.ID}}", {{.Shared}}, func(cc *container.Container) (any, error) {
		return {{$d.FactoryName .ClassName}}(cc)
	})
{{- end}}
{{- range .Plan.Aliases}}
	c.Container.Alias("{{.Alias}}", "{{.Target}}")
{{- end}}
{{- range .Plan.Contextual}}
	{{$d.ContextualStmt .}}
{{- end}}
}

{{$d := .}}
{{range .Plan.Factories}}
func {{$d.FactoryName .ClassName}}(c *container.Container) (any, error) {
	{{range $i, $p := .Params}}arg{{$i}}, err{{$i}} := {{$d.ArgExpr $p}}
	if err{{$i}} != nil {
		return nil, err{{$i}}
	}
	{{end}}
	return c.InvokeRegistered("{{.ClassName}}"{{range $i, $p := .Params}}, arg{{$i}}{{end}})
}
{{end}}
`))

// Emit renders the Go source for p, formatted via go/format. generatedAt and
// fingerprint are supplied by the caller (Date/time helpers are off-limits
// inside this module's own code paths that must stay reproducible and
// test-friendly; Compiler.Compile supplies real wall-clock values).
func Emit(p *Plan, packageName, fingerprint, generatedAt string) ([]byte, error) {
	names := make(map[string]string, len(p.Factories))
	for _, f := range p.Factories {
		names[f.ClassName] = f.FuncName
	}

	var buf bytes.Buffer
	data := emitData{
		PackageName:  packageName,
		Fingerprint:  fingerprint,
		GeneratedAt:  generatedAt,
		Plan:         p,
		factoryNames: names,
	}
	if err := sourceTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("compiler: render template: %w", err)
	}
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("compiler: gofmt generated source: %w", err)
	}
	return formatted, nil
}
