// Package action defines the pending actions a finder hands to the scheduler.
//
// Actions reference their particle non-owningly: the particle collection is
// owned elsewhere and keeps mutating after an action is built, so every
// action snapshots the particle's (ID, generation) pair and a consumer checks
// [Action.Stale] before executing. The finder never decides which channel
// fires; it packages the weighted candidates and the scheduled time, and the
// choice happens at execution.
package action

import (
	"sort"

	"github.com/tkoskela/decaykit/internal/particle"
	"github.com/tkoskela/decaykit/internal/random"
)

// Action is a pending state change scheduled at an absolute time.
type Action interface {
	// Time is the absolute lab time at which the action executes.
	Time() float64
	// ParticleID identifies the target particle.
	ParticleID() int32
	// Stale reports whether the referenced particle has been removed or
	// mutated since the action was built.
	Stale(parts *particle.Map) bool
}

// List is the per-cell, per-step action collection. Production order is not
// semantically significant; the scheduler orders by time.
type List []Action

// SortByTime orders the list by ascending scheduled time. The sort is stable
// so equal times keep insertion order, which keeps runs reproducible.
func (l List) SortByTime() {
	sort.SliceStable(l, func(i, j int) bool { return l[i].Time() < l[j].Time() })
}

// Decay is a pending decay: the originating particle, the absolute execution
// time, and the weighted candidate channels the execution will choose from.
type Decay struct {
	id         int32
	generation int
	parent     *particle.Particle
	time       float64
	branches   []particle.DecayBranch
	totalWidth float64
}

// NewDecay builds a decay action for p executing delay after p's current
// position time. The branch list must be non-empty: the finder's width guard
// makes an empty list unreachable, so hitting one is a programming error.
func NewDecay(p *particle.Particle, delay float64, branches []particle.DecayBranch) *Decay {
	if len(branches) == 0 {
		panic("action: decay with no candidate channels")
	}
	return &Decay{
		id:         p.ID,
		generation: p.Generation,
		parent:     p,
		time:       p.Position.X0() + delay,
		branches:   branches,
		totalWidth: particle.TotalWeight(branches),
	}
}

func (d *Decay) Time() float64     { return d.time }
func (d *Decay) ParticleID() int32 { return d.id }

func (d *Decay) Stale(parts *particle.Map) bool {
	return !parts.Alive(d.id, d.generation)
}

// Parent returns the referenced particle. Valid only while the action is not
// stale.
func (d *Decay) Parent() *particle.Particle { return d.parent }

// Branches returns the candidate channels.
func (d *Decay) Branches() []particle.DecayBranch { return d.branches }

// TotalWidth is the summed weight of the candidates.
func (d *Decay) TotalWidth() float64 { return d.totalWidth }

// ChooseBranch picks one channel with probability proportional to its
// weight. When every weight is zero (forced decays below threshold) the
// choice is uniform. Exactly one draw is consumed either way.
func (d *Decay) ChooseBranch(eng *random.Engine) particle.DecayBranch {
	if d.totalWidth <= 0 {
		return d.branches[eng.Intn(len(d.branches))]
	}
	x := eng.Uniform(0, d.totalWidth)
	for _, b := range d.branches {
		x -= b.Weight
		if x < 0 {
			return b
		}
	}
	return d.branches[len(d.branches)-1]
}
