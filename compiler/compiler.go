package compiler

import (
	"fmt"
	"path/filepath"
	"time"
)

// Compiler reads a Source snapshot and emits a reflection-free resolver.
type Compiler struct {
	source Source
	opts   Options
	plan   *Plan
}

// New creates a Compiler over source with the given options.
func New(source Source, opts Options) *Compiler {
	return &Compiler{source: source, opts: opts}
}

// Compile builds the plan, emits formatted Go source, and atomically writes
// it to filename inside opts.OutputDir. When opts.Validate is set, any
// skipped binding makes Compile fail instead of silently omitting it —
// spec §4.8's "best-effort unless told otherwise" behavior.
func (c *Compiler) Compile(filename string) error {
	c.plan = Build(c.source)

	if c.opts.Validate && len(c.plan.Skipped) > 0 {
		for id, reason := range c.plan.Skipped {
			return fmt.Errorf("compiler: binding [%s] could not be compiled: %s", id, reason)
		}
	}

	fp := Fingerprint(c.plan)
	src, err := Emit(c.plan, c.opts.PackageName, fp, generatedAtStamp())
	if err != nil {
		return err
	}

	path := filepath.Join(c.opts.OutputDir, filename)
	return WriteAtomic(path, src)
}

// Fingerprint returns the last compile's plan fingerprint, or the empty
// string if Compile has not run yet.
func (c *Compiler) Fingerprint() string {
	if c.plan == nil {
		return ""
	}
	return Fingerprint(c.plan)
}

// Skipped returns the bindings the last compile could not prove compilable,
// keyed by identifier, with a human-readable reason for each.
func (c *Compiler) Skipped() map[string]string {
	if c.plan == nil {
		return nil
	}
	return c.plan.Skipped
}

// generatedAtStamp is the one place this package touches wall-clock time,
// isolated so callers compiling in a test harness can substitute a fixed
// plan/fingerprint without depending on it.
func generatedAtStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
