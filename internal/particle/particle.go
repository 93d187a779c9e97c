package particle

import "github.com/tkoskela/decaykit/internal/phys"

// Particle is one particle instance. Particles are owned and mutated by the
// collection they live in; everything else holds them read-only.
type Particle struct {
	ID         int32
	Generation int
	Type       *Type
	Momentum   phys.FourVector // (E, px, py, pz) in GeV
	Position   phys.FourVector // (t, x, y, z) in fm
	Formation  float64         // time at which the particle is fully formed, fm/c
	EffMass    float64         // invariant mass for width evaluation, GeV
}

// EffectiveMass is the invariant mass used to evaluate mass-dependent decay
// widths. Falls back to the momentum invariant when not set explicitly.
func (p *Particle) EffectiveMass() float64 {
	if p.EffMass > 0 {
		return p.EffMass
	}
	return p.Momentum.Abs()
}

// InverseGamma is the time-dilation factor m/E converting the proper decay
// rate to the lab frame.
func (p *Particle) InverseGamma() float64 {
	return p.EffectiveMass() / p.Momentum.X0()
}
