// Package scheduler consumes pending actions against the particle collection.
//
// The transport loop owns arbitration between action kinds; this scheduler
// handles the part the decay finder needs: execute actions in ascending
// scheduled time (insertion order on ties), drop the ones whose particle
// reference went stale, and realize a chosen decay channel as new particles.
package scheduler

import (
	"errors"
	"fmt"
	"math"

	"github.com/tkoskela/decaykit/internal/action"
	"github.com/tkoskela/decaykit/internal/particle"
	"github.com/tkoskela/decaykit/internal/phys"
	"github.com/tkoskela/decaykit/internal/random"
)

// ErrFinalState signals a decay channel whose final state the kinematics
// cannot realize.
var ErrFinalState = errors.New("scheduler: unsupported final state")

// Record is one executed decay.
type Record struct {
	Time     float64
	Parent   string
	ParentID int32
	Delay    float64
	Products []string
}

type Scheduler struct {
	eng *random.Engine
}

func New(eng *random.Engine) *Scheduler {
	return &Scheduler{eng: eng}
}

// Execute runs the pending actions against parts, earliest first, skipping
// stale ones. It returns a record per executed decay, in execution order.
func (s *Scheduler) Execute(parts *particle.Map, pending action.List) ([]Record, error) {
	pending.SortByTime()

	records := make([]Record, 0, len(pending))
	for _, a := range pending {
		if a.Stale(parts) {
			continue
		}
		d, ok := a.(*action.Decay)
		if !ok {
			return records, fmt.Errorf("scheduler: unknown action type %T", a)
		}
		rec, err := s.decay(parts, d)
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Scheduler) decay(parts *particle.Map, d *action.Decay) (Record, error) {
	parent := d.Parent()
	branch := d.ChooseBranch(s.eng)
	if len(branch.Products) != 2 {
		return Record{}, fmt.Errorf("%w: %d-body decay of %s",
			ErrFinalState, len(branch.Products), parent.Type.Name)
	}

	// Propagate the parent to the decay instant, then split.
	pos := freeStream(parent, d.Time())
	p1, p2 := twoBody(parent, branch.Products[0], branch.Products[1], s.eng)

	rec := Record{
		Time:     d.Time(),
		Parent:   parent.Type.Name,
		ParentID: parent.ID,
		Delay:    d.Time() - parent.Position.X0(),
		Products: []string{branch.Products[0].Name, branch.Products[1].Name},
	}

	parts.Remove(parent.ID)
	for i, typ := range branch.Products {
		mom := p1
		if i == 1 {
			mom = p2
		}
		parts.Insert(particle.Particle{
			Type:      typ,
			Momentum:  mom,
			Position:  pos,
			Formation: d.Time(),
			EffMass:   typ.Mass,
		})
	}
	return rec, nil
}

func freeStream(p *particle.Particle, t float64) phys.FourVector {
	dt := t - p.Position.X0()
	bx, by, bz := p.Momentum.Velocity()
	return phys.NewFourVector(t,
		p.Position.X1()+bx*dt,
		p.Position.X2()+by*dt,
		p.Position.X3()+bz*dt)
}

// twoBody samples an isotropic two-body final state in the parent rest frame
// and boosts it to the lab. Exactly two draws are consumed. Below threshold
// (forced decays of under-mass resonances) the relative momentum clamps to
// zero and the products share the parent's remaining energy.
func twoBody(parent *particle.Particle, t1, t2 *particle.Type, eng *random.Engine) (phys.FourVector, phys.FourVector) {
	m := parent.EffectiveMass()
	m1, m2 := t1.Mass, t2.Mass

	pcm2 := (m*m - (m1+m2)*(m1+m2)) * (m*m - (m1-m2)*(m1-m2)) / (4 * m * m)
	pcm := 0.0
	if pcm2 > 0 {
		pcm = math.Sqrt(pcm2)
	}

	cosTheta := eng.Uniform(-1, 1)
	phi := eng.Uniform(0, 2*math.Pi)
	sinTheta := math.Sqrt(1 - cosTheta*cosTheta)

	px := pcm * sinTheta * math.Cos(phi)
	py := pcm * sinTheta * math.Sin(phi)
	pz := pcm * cosTheta

	e1 := math.Sqrt(m1*m1 + pcm*pcm)
	e2 := math.Sqrt(m2*m2 + pcm*pcm)

	bx, by, bz := parent.Momentum.Velocity()
	out1 := phys.NewFourVector(e1, px, py, pz).Boost(bx, by, bz)
	out2 := phys.NewFourVector(e2, -px, -py, -pz).Boost(bx, by, bz)
	return out1, out2
}
