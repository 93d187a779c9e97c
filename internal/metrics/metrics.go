// Package metrics provides run-level aggregates over executed decays.
package metrics

import "github.com/tkoskela/decaykit/internal/scheduler"

// DecayCount counts executed decays.
type DecayCount struct {
	name  string
	count int
}

func NewDecayCount() *DecayCount {
	return &DecayCount{name: "decays"}
}

func (d *DecayCount) Name() string { return d.name }

func (d *DecayCount) Observe(rec scheduler.Record) { d.count++ }

func (d *DecayCount) Value() float64 { return float64(d.count) }

func (d *DecayCount) Reset() { d.count = 0 }

// MeanDelay averages the lab-frame delay between a decay being scheduled and
// the parent's prior position time. Forced zero-delay decays pull the mean
// down, which makes the metric a quick check on how many resonances reached
// the horizon.
type MeanDelay struct {
	name    string
	sum     float64
	samples int
}

func NewMeanDelay() *MeanDelay {
	return &MeanDelay{name: "mean_delay"}
}

func (m *MeanDelay) Name() string { return m.name }

func (m *MeanDelay) Observe(rec scheduler.Record) {
	m.sum += rec.Delay
	m.samples++
}

func (m *MeanDelay) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanDelay) Reset() {
	m.sum = 0
	m.samples = 0
}

// SpeciesCount counts decays of one parent species.
type SpeciesCount struct {
	species string
	count   int
}

func NewSpeciesCount(species string) *SpeciesCount {
	return &SpeciesCount{species: species}
}

func (s *SpeciesCount) Name() string { return "decays_" + s.species }

func (s *SpeciesCount) Observe(rec scheduler.Record) {
	if rec.Parent == s.species {
		s.count++
	}
}

func (s *SpeciesCount) Value() float64 { return float64(s.count) }

func (s *SpeciesCount) Reset() { s.count = 0 }
