package container

import "sync"

// mockRegistry backs Container.Mock/Spy — spec §4.3 step 2: "If a mock is
// registered for id, return it (records resolution, skips cycle guard)."
// Mocks and Spy bookkeeping are testing helpers; their presence as a hook
// point is specified, their internals are not (spec §1 non-goal).
type mockRegistry struct {
	mu    sync.RWMutex
	mocks map[string]any
	spies map[string]*SpyHandle
}

func newMockRegistry() *mockRegistry {
	return &mockRegistry{mocks: make(map[string]any), spies: make(map[string]*SpyHandle)}
}

func (m *mockRegistry) lookup(id string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.mocks[id]
	return v, ok
}

// Mock registers value to be returned unconditionally for id, bypassing the
// resolving stack. Passing nil clears the mock.
func (c *Container) Mock(id string, value any) {
	c.mocks.mu.Lock()
	defer c.mocks.mu.Unlock()
	if value == nil {
		delete(c.mocks.mocks, id)
		return
	}
	c.mocks.mocks[id] = value
}

// SpyHandle records how many times Get(id) completed while the spy was
// active, without altering the resolved value.
type SpyHandle struct {
	mu    sync.Mutex
	calls int
}

// Calls returns the number of completed resolutions observed so far.
func (s *SpyHandle) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *SpyHandle) record() {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
}

// Spy installs a counter on id's future resolutions and returns a handle to
// inspect it. The real resolution path runs unchanged; Spy only observes it.
func (c *Container) Spy(id string) *SpyHandle {
	c.mocks.mu.Lock()
	defer c.mocks.mu.Unlock()
	h, ok := c.mocks.spies[id]
	if !ok {
		h = &SpyHandle{}
		c.mocks.spies[id] = h
	}
	return h
}

func (c *Container) spyFor(id string) *SpyHandle {
	c.mocks.mu.RLock()
	defer c.mocks.mu.RUnlock()
	return c.mocks.spies[id]
}
