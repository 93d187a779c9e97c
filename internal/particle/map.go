package particle

import "sort"

// Map is the particle collection for a run. It owns the particles: insertion
// assigns identity, mutation bumps the generation counter, and the (ID,
// generation) pair lets a consumer of previously issued actions detect that a
// particle has since been removed or changed.
type Map struct {
	nextID int32
	data   map[int32]*Particle
}

func NewMap() *Map {
	return &Map{data: make(map[int32]*Particle)}
}

// Insert copies p into the collection, assigning a fresh ID and generation
// zero, and returns the owned instance.
func (m *Map) Insert(p Particle) *Particle {
	p.ID = m.nextID
	p.Generation = 0
	m.nextID++
	owned := p
	m.data[owned.ID] = &owned
	return &owned
}

// Remove deletes the particle with the given ID, if present.
func (m *Map) Remove(id int32) {
	delete(m.data, id)
}

// Get returns the particle with the given ID.
func (m *Map) Get(id int32) (*Particle, bool) {
	p, ok := m.data[id]
	return p, ok
}

// Alive reports whether the particle still exists unmutated since the given
// generation was observed.
func (m *Map) Alive(id int32, generation int) bool {
	p, ok := m.data[id]
	return ok && p.Generation == generation
}

// Touch marks the particle as mutated, invalidating actions that reference
// its previous state.
func (m *Map) Touch(id int32) {
	if p, ok := m.data[id]; ok {
		p.Generation++
	}
}

// All returns the particles in ascending ID order. The order matters:
// iteration order feeds the random draw order, which is the reproducibility
// contract of a run.
func (m *Map) All() []*Particle {
	out := make([]*Particle, 0, len(m.data))
	for _, p := range m.data {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Map) Len() int { return len(m.data) }
