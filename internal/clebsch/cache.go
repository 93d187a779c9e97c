package clebsch

import (
	"sort"
	"sync"
)

// Cache memoizes Clebsch-Gordan coefficients. The map is keyed by the full
// ThreeSpins tuple: physically adjacent triples can share a packed index (see
// ThreeSpins.Index), and a collision there would silently corrupt branching
// ratios, so exact keys are a correctness requirement rather than a
// performance choice. Lookups and inserts may run concurrently; a racing
// recompute for the same key is harmless (the computation is deterministic)
// and the first stored value wins, so repeated lookups are bit-identical.
type Cache struct {
	mu    sync.RWMutex
	table map[ThreeSpins]float64
}

func NewCache() *Cache {
	return &Cache{table: make(map[ThreeSpins]float64)}
}

// Coefficient returns the coupling coefficient for (j1,m1) x (j2,m2) -> (j3,m3),
// all doubled. On a miss it computes the value from the closed form, stores
// it, and returns it; caching is purely an optimization.
func (c *Cache) Coefficient(j1, j2, j3, m1, m2, m3 int) float64 {
	key := ThreeSpins{j1, j2, j3, m1, m2, m3}

	c.mu.RLock()
	v, ok := c.table[key]
	c.mu.RUnlock()
	if ok {
		return v
	}

	v = calculate(j1, j2, j3, m1, m2, m3)

	c.mu.Lock()
	if prior, ok := c.table[key]; ok {
		v = prior
	} else {
		c.table[key] = v
	}
	c.mu.Unlock()
	return v
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.table)
}

// Preseed stores precomputed entries, typically loaded from a data table at
// startup. Existing entries are left untouched.
func (c *Cache) Preseed(entries []Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range entries {
		key := e.Key()
		if _, ok := c.table[key]; !ok {
			c.table[key] = e.Value
		}
	}
}

// Dump returns the cached entries in canonical table order: ascending
// Rasch-Yu index, full tuple as tie break. The tabulate command uses this to
// regenerate seed tables deterministically.
func (c *Cache) Dump() []Entry {
	c.mu.RLock()
	entries := make([]Entry, 0, len(c.table))
	for k, v := range c.table {
		entries = append(entries, Entry{k.J1, k.J2, k.J3, k.M1, k.M2, k.M3, v})
	}
	c.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].Key(), entries[j].Key()
		if ai, bi := a.Index(), b.Index(); ai != bi {
			return ai < bi
		}
		if a.J1 != b.J1 {
			return a.J1 < b.J1
		}
		if a.J2 != b.J2 {
			return a.J2 < b.J2
		}
		if a.J3 != b.J3 {
			return a.J3 < b.J3
		}
		if a.M1 != b.M1 {
			return a.M1 < b.M1
		}
		return a.M2 < b.M2
	})
	return entries
}
