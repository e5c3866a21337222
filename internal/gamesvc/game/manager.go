package game

import (
	"math/rand"
	"sync"

	"github.com/jonboulle/clockwork"
)

// Manager owns the live rooms. Rooms are created on first join and removed
// once their last player is gone.
type Manager struct {
	mu      sync.Mutex
	rooms   map[string]*Room
	catalog Catalog
	pub     Publisher
	clock   clockwork.Clock
	seed    func() *rand.Rand
}

func NewManager(catalog Catalog, pub Publisher, clock clockwork.Clock, seed func() *rand.Rand) *Manager {
	return &Manager{
		rooms:   make(map[string]*Room),
		catalog: catalog,
		pub:     pub,
		clock:   clock,
		seed:    seed,
	}
}

// GetOrCreate returns the room with the given id, creating it on demand.
func (m *Manager) GetOrCreate(roomID string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.rooms[roomID]; ok {
		return r
	}
	r := NewRoom(roomID, m.catalog, m.pub, m.clock, m.seed(), func() {
		m.remove(roomID)
	})
	m.rooms[roomID] = r
	return r
}

// Get returns the room with the given id, or nil.
func (m *Manager) Get(roomID string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rooms[roomID]
}

func (m *Manager) remove(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, roomID)
}

// ReapIfEmpty drops a room nobody is in, covering the case where the join
// that created it was rejected. The emptiness check runs outside the
// manager lock; rooms call back into the manager while holding their own.
func (m *Manager) ReapIfEmpty(roomID string) {
	r := m.Get(roomID)
	if r == nil || !r.Empty() {
		return
	}
	m.remove(roomID)
}

// Count returns the number of live rooms.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rooms)
}
