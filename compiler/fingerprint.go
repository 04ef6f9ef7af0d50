package compiler

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Fingerprint computes a stable SHA-256 digest over the plan's normalized,
// sorted contents. Two compiles of an equivalent registry — same bindings,
// aliases, and contextual overrides, regardless of registration order —
// produce the same fingerprint, satisfying spec §4.8's determinism
// requirement and letting a caller skip a no-op re-emit.
func Fingerprint(p *Plan) string {
	var b strings.Builder

	bindings := append([]CompiledBinding{}, p.Bindings...)
	sort.Slice(bindings, func(i, j int) bool { return bindings[i].ID < bindings[j].ID })
	for _, bd := range bindings {
		fmt.Fprintf(&b, "bind|%s|%s|%t\n", bd.ID, bd.ClassName, bd.Shared)
	}

	aliases := append([]AliasInfo{}, p.Aliases...)
	sort.Slice(aliases, func(i, j int) bool { return aliases[i].Alias < aliases[j].Alias })
	for _, a := range aliases {
		fmt.Fprintf(&b, "alias|%s|%s\n", a.Alias, a.Target)
	}

	ctx := append([]ContextualInfo{}, p.Contextual...)
	sort.Slice(ctx, func(i, j int) bool {
		if ctx[i].Consumer != ctx[j].Consumer {
			return ctx[i].Consumer < ctx[j].Consumer
		}
		return ctx[i].Needed < ctx[j].Needed
	})
	for _, c := range ctx {
		fmt.Fprintf(&b, "ctx|%s|%s|%s|%s|%s\n", c.Consumer, c.Needed, c.Kind, c.Payload, c.ConfigLiteral)
	}

	factories := append([]CompiledFactory{}, p.Factories...)
	sort.Slice(factories, func(i, j int) bool { return factories[i].FuncName < factories[j].FuncName })
	for _, f := range factories {
		fmt.Fprintf(&b, "factory|%s|%s\n", f.FuncName, f.ClassName)
		for _, param := range f.Params {
			fmt.Fprintf(&b, "  param|%d|%s|%s|%s\n", param.Kind, param.ClassName, param.Literal, param.ParamType)
		}
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
