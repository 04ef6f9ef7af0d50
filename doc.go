// Package container implements a dependency-injection container: a
// registry of bindings with transient/shared lifetimes, a reflection-driven
// resolver, contextual overrides, tagged/multi resolution, decorator
// chains, scoped bindings, and an ahead-of-time compiler that emits a
// reflection-free resolver (subpackage compiler).
//
// Go has no runtime constructor reflection: there is no API that, given a
// type, enumerates how to build one. Every constructible class therefore
// registers an explicit constructor function, and the introspect subpackage
// caches what reflection over that function's signature can tell us.
//
// # Bindings
//
//	c := container.New()
//	c.RegisterConstructor("Logger", func() (*Logger, error) { return &Logger{}, nil })
//
//	// Transient — a new instance on every Get.
//	c.Bind("Logger", nil) // nil concrete means "construct the identifier itself"
//
//	// Singleton — built once, cached thereafter.
//	c.Singleton("cache", func(c *container.Container) (any, error) {
//	    cfg, err := c.Get("config")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return NewRedisCache(cfg.(*Config)), nil
//	})
//
//	// Pre-built value.
//	c.Instance("config", myConfig)
//
//	// Alias.
//	c.Alias("cacheManager", "cache")
//
// # Resolving
//
//	v, err := c.Get("cache")
//
// # Contextual Binding
//
//	c.When("PhotoController").Needs("Filesystem").Give("S3Filesystem")
//
// # Tags and Multi-Resolution
//
//	c.Tag([]string{"CPUReport", "MemReport"}, "reports")
//	reports, err := c.ResolveAll("reports")
//
// # Extend and Decorate
//
//	c.Extend("logger", func(instance any, c *container.Container) any {
//	    return &TimestampLogger{Inner: instance.(*Logger)}
//	})
//	c.Decorate("logger", func(instance any, c *container.Container) any {
//	    return &RedactingLogger{Inner: instance.(Logger)}
//	}, 0)
//
// # Scoped Bindings
//
//	err := c.Scoped(map[string]any{"db": testDB}, func(c *container.Container) error {
//	    return runMigration(c)
//	})
//
// # Compiling
//
// A container's current registry can be compiled to a reflection-free
// resolver package for identifiers the compiler can prove statically
// constructible (no factory-kind bindings, no decorators, no tags, no
// contextual overrides on the target):
//
//	fingerprint, err := c.Compile("resolver_gen.go", compiler.DefaultOptions())
package container
