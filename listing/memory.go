package listing

import (
	"context"
	"sync"
)

var _ Lister[int] = (*Map[int])(nil)

// Map is an in-memory Lister. It is safe for concurrent use.
// It also counts how many times each node has been listed.
//
// A Map with no records at all reports every node as not found,
// including the root.
type Map[K comparable] struct {
	mu       sync.Mutex
	children map[K][]Entry[K]
	calls    map[K]int
}

// NewMap creates a Map from an id to children mapping.
// The mapping is copied.
func NewMap[K comparable](m map[K][]Entry[K]) *Map[K] {
	mm := &Map[K]{
		children: make(map[K][]Entry[K], len(m)),
		calls:    make(map[K]int),
	}
	for id, ch := range m {
		mm.children[id] = clone(ch)
	}
	return mm
}

// Set records the children of id, replacing any previous record.
func (m *Map[K]) Set(id K, children ...Entry[K]) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.children == nil {
		m.children = make(map[K][]Entry[K])
		m.calls = make(map[K]int)
	}
	m.children[id] = clone(children)
}

func (m *Map[K]) List(ctx context.Context, id K) ([]Entry[K], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.calls == nil {
		m.calls = make(map[K]int)
	}
	m.calls[id]++

	ch, ok := m.children[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(ch), nil
}

// Calls returns the number of times id has been listed.
func (m *Map[K]) Calls(id K) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[id]
}

// TotalCalls returns the number of List calls over all ids.
func (m *Map[_]) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

// ResetCalls forgets all recorded calls.
func (m *Map[K]) ResetCalls() {
	m.mu.Lock()
	m.calls = make(map[K]int)
	m.mu.Unlock()
}

func clone[K comparable](s []Entry[K]) []Entry[K] {
	// keep empty-but-known distinct from nil when copying
	out := make([]Entry[K], len(s))
	copy(out, s)
	return out
}
