// Package decay finds the decay actions in a timestep.
//
// The finder is read-only over its inputs: it never mutates particles or
// channel tables, and allocates only the actions it returns. It does not
// decide which channel fires, does not arbitrate against other action kinds,
// and keeps no decay-clock state between steps: the candidate delay is drawn
// fresh every step, which is statistically equivalent for the memoryless
// exponential law and avoids persisting per-particle state.
package decay

import (
	"errors"
	"fmt"

	"github.com/tkoskela/decaykit/internal/action"
	"github.com/tkoskela/decaykit/internal/clebsch"
	"github.com/tkoskela/decaykit/internal/particle"
	"github.com/tkoskela/decaykit/internal/phys"
	"github.com/tkoskela/decaykit/internal/random"
)

// ErrNoChannels signals a species-catalog defect: an unstable species with
// nothing to decay into at the forced final pass.
var ErrNoChannels = errors.New("decay: unstable species has no decay channels")

// Finder produces pending decay actions for the particles in a cell.
type Finder struct {
	coeffs *clebsch.Cache
	eng    *random.Engine
}

func NewFinder(coeffs *clebsch.Cache, eng *random.Engine) *Finder {
	return &Finder{coeffs: coeffs, eng: eng}
}

// FindActionsInCell scans the particles of one cell for decays within the
// next dt. For each unstable particle one exponential delay is drawn at rate
// width * inverseGamma / hbarc (the resonance's internal clock runs slow in
// the lab frame); the candidate is kept only when the delay falls inside
// [0, dt) and the particle is formed by the decay instant. Rejected
// candidates leave no trace; the particle is re-evaluated, independently,
// next step.
func (f *Finder) FindActionsInCell(cell []*particle.Particle, dt float64) action.List {
	// Short timesteps rarely see more than a handful of decays.
	actions := make(action.List, 0, 10)

	for _, p := range cell {
		if p.Type.IsStable() {
			continue
		}

		branches := p.Type.Channels(p.EffectiveMass(), f.coeffs)
		width := particle.TotalWeight(branches)
		if !(width > 0.0) {
			// No open hadronic channels at this mass: effectively
			// stable for this step.
			continue
		}

		delay := f.eng.Exponential(p.InverseGamma() * width / phys.HBarC)

		if delay < dt && p.Formation <= p.Position.X0()+delay {
			actions = append(actions, action.NewDecay(p, delay, branches))
		}
	}
	return actions
}

// FindFinalActions builds one zero-delay decay per remaining unstable
// particle, with the full channel set, so no resonance survives into the
// final state. An unstable species with an empty channel set is corrupt
// catalog data and aborts the pass.
func (f *Finder) FindFinalActions(parts *particle.Map) (action.List, error) {
	actions := make(action.List, 0, parts.Len())

	for _, p := range parts.All() {
		if p.Type.IsStable() {
			continue
		}
		branches := p.Type.AllChannels(p.EffectiveMass(), f.coeffs)
		if len(branches) == 0 {
			return nil, fmt.Errorf("%w: %s (m=%.4f GeV)", ErrNoChannels, p.Type.Name, p.EffectiveMass())
		}
		actions = append(actions, action.NewDecay(p, 0.0, branches))
	}
	return actions, nil
}
