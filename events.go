package container

import "sync"

// Events carries the hook points spec §6 names (ResolutionStarting,
// ResolutionDone, ResolutionFailed, BindingRegistered). Only the payload and
// call sites are specified; dispatch to an actual event bus is an external
// collaborator (spec §1 non-goal) — these are plain Go func fields, not a
// pub/sub system, grounded on the teacher's own AfterResolving/Rebinding
// callback slices (framework/container/container.go).
type Events struct {
	mu sync.RWMutex

	onStarting []func(id string)
	onDone     []func(id string, instance any)
	onFailed   []func(id string, err error)
	onBind     []func(id string, concrete any, shared bool)
}

func newEvents() *Events { return &Events{} }

// OnResolutionStarting registers a handler for spec's ResolutionStarting{id}.
// Handlers must not re-enter the resolver for the same id on the same call
// chain (spec §6) — doing so recurses into the same in-progress resolution.
func (e *Events) OnResolutionStarting(fn func(id string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onStarting = append(e.onStarting, fn)
}

// OnResolutionDone registers a handler for ResolutionDone{id, instance}.
func (e *Events) OnResolutionDone(fn func(id string, instance any)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onDone = append(e.onDone, fn)
}

// OnResolutionFailed registers a handler for ResolutionFailed{id, error}.
func (e *Events) OnResolutionFailed(fn func(id string, err error)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onFailed = append(e.onFailed, fn)
}

// OnBindingRegistered registers a handler for BindingRegistered{id, concrete, shared}.
func (e *Events) OnBindingRegistered(fn func(id string, concrete any, shared bool)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onBind = append(e.onBind, fn)
}

func (e *Events) fireStarting(id string) {
	e.mu.RLock()
	hs := append([]func(string){}, e.onStarting...)
	e.mu.RUnlock()
	for _, h := range hs {
		h(id)
	}
}

func (e *Events) fireDone(id string, instance any) {
	e.mu.RLock()
	hs := append([]func(string, any){}, e.onDone...)
	e.mu.RUnlock()
	for _, h := range hs {
		h(id, instance)
	}
}

func (e *Events) fireFailed(id string, err error) {
	e.mu.RLock()
	hs := append([]func(string, error){}, e.onFailed...)
	e.mu.RUnlock()
	for _, h := range hs {
		h(id, err)
	}
}

func (e *Events) fireBind(id string, concrete any, shared bool) {
	e.mu.RLock()
	hs := append([]func(string, any, bool){}, e.onBind...)
	e.mu.RUnlock()
	for _, h := range hs {
		h(id, concrete, shared)
	}
}
