package container

// Scoped is the Scoped Context subsystem (spec §4.7): apply bindings for the
// duration of callback, then guarantee restoration on every exit path,
// including a panic propagating out of callback.
//
// Each value in bindings must be a Factory (or a bare
// func(*Container) (any, error)), a string class name, or a pre-built
// instance. Anything else fails InvalidBinding.
func (c *Container) Scoped(bindings map[string]any, callback func(*Container) error) (err error) {
	type saved struct {
		b           *binding
		hasBinding  bool
		inst        any
		hasInstance bool
	}

	snapshots := make(map[string]saved, len(bindings))
	for id := range bindings {
		b, hasB, inst, hasI := c.registry.snapshot(id)
		snapshots[id] = saved{b: b, hasBinding: hasB, inst: inst, hasInstance: hasI}
	}

	defer func() {
		for id, s := range snapshots {
			c.registry.restore(id, s.b, s.hasBinding, s.inst, s.hasInstance)
		}
		if r := recover(); r != nil {
			panic(r)
		}
	}()

	for id, v := range bindings {
		if v == nil {
			return &InvalidBindingError{ID: id, Kind: "scoped", Reason: "nil binding"}
		}
		switch val := v.(type) {
		case Factory:
			c.registry.Bind(id, val, false)
		case func(c *Container) (any, error):
			c.registry.Bind(id, Factory(val), false)
		case string:
			c.registry.Bind(id, val, false)
		default:
			if ierr := c.registry.Instance(id, val); ierr != nil {
				return ierr
			}
		}
	}

	return callback(c)
}
