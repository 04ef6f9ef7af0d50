package container

import "sync"

// LazyProxy implements spec §6's lazy proxy contract. First GetInstance
// triggers Resolve; subsequent calls return the cached instance.
// Method-forwarding is explicitly out of scope (spec §1/§6).
type LazyProxy struct {
	container *Container
	abstract  string

	once     sync.Once
	instance any
	err      error
	hasRun   bool
}

// Lazy returns a proxy that defers resolving abstract until first use.
func (c *Container) Lazy(abstract string) *LazyProxy {
	return &LazyProxy{container: c, abstract: abstract}
}

// GetAbstract returns the identifier this proxy was created for.
func (l *LazyProxy) GetAbstract() string { return l.abstract }

// IsResolved reports whether Resolve has run (successfully or not).
func (l *LazyProxy) IsResolved() bool {
	return l.hasRun
}

// Resolve forces resolution now, memoizing the result (or error) for GetInstance.
func (l *LazyProxy) Resolve() (any, error) {
	l.once.Do(func() {
		l.instance, l.err = l.container.Get(l.abstract)
		l.hasRun = true
	})
	return l.instance, l.err
}

// GetInstance triggers Resolve on first call and returns the cached
// instance on every call thereafter. Errors are swallowed to nil on this
// path — callers that need the error should call Resolve directly.
func (l *LazyProxy) GetInstance() any {
	instance, _ := l.Resolve()
	return instance
}
