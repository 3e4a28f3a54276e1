package game

import "sync"

// Members is the process-wide set of group members, seeded at startup
// and maintained by join/leave events.
type Members struct {
	mu  sync.Mutex
	ids map[int64]struct{}
}

func NewMembers(ids []int64) *Members {
	m := &Members{ids: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		m.ids[id] = struct{}{}
	}

	return m
}

func (m *Members) Add(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ids[id] = struct{}{}
}

func (m *Members) Remove(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.ids, id)
}

func (m *Members) Has(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.ids[id]

	return ok
}
