package particle

import (
	"github.com/tkoskela/decaykit/internal/clebsch"
	"github.com/tkoskela/decaykit/internal/phys"
)

// Type is an immutable species descriptor, shared read-only by every particle
// of that species. Spin and isospin values are doubled.
type Type struct {
	Name     string
	PDG      int
	Mass     float64 // pole mass, GeV
	Width    float64 // total width at the pole, GeV
	Spin     int
	Isospin  int
	IsospinZ int
	Hadron   bool
	Modes    []DecayMode
}

// DecayMode is one decay channel of a species at its pole mass.
type DecayMode struct {
	Branching float64
	Products  []*Type
}

// DecayBranch is one candidate channel at a specific effective mass: the
// outgoing species and a non-negative statistical weight (partial width).
type DecayBranch struct {
	Products []*Type
	Weight   float64
}

// TotalWeight is the total decay width: the sum of branch weights.
func TotalWeight(branches []DecayBranch) float64 {
	total := 0.0
	for _, b := range branches {
		total += b.Weight
	}
	return total
}

// IsStable reports whether the species never decays. Stability is declared
// by a vanishing width, not inferred from the mode list: an unstable species
// with no modes is a catalog defect the forced final pass must be able to
// detect.
func (t *Type) IsStable() bool {
	return t.Width <= 0
}

func (t *Type) String() string { return t.Name }

// threshold is the minimum invariant mass at which a mode is open.
func (m DecayMode) threshold() float64 {
	sum := 0.0
	for _, p := range m.Products {
		sum += p.Mass
	}
	return sum
}

// isospinFactor is the squared coupling amplitude of the products' isospins
// onto the parent's, for two-body modes. Other multiplicities couple through
// intermediate states this model does not resolve and get factor one.
func (m DecayMode) isospinFactor(parent *Type, coeffs *clebsch.Cache) float64 {
	if len(m.Products) != 2 {
		return 1.0
	}
	a, b := m.Products[0], m.Products[1]
	c := coeffs.Coefficient(a.Isospin, b.Isospin, parent.Isospin,
		a.IsospinZ, b.IsospinZ, parent.IsospinZ)
	return c * c
}

// Channels returns the open hadronic decay branches at the given effective
// mass, weights scaled by the isospin coupling. Closed or zero-weight
// branches are omitted, so the returned weights are all positive.
func (t *Type) Channels(effMass float64, coeffs *clebsch.Cache) []DecayBranch {
	return t.channels(effMass, coeffs, true, true)
}

// AllChannels returns every decay branch regardless of hadronic content,
// for forced decays at the end of a run. The mass threshold is not applied:
// a resonance below threshold still has to be removed from the final state,
// with weights taken at the pole.
func (t *Type) AllChannels(effMass float64, coeffs *clebsch.Cache) []DecayBranch {
	return t.channels(effMass, coeffs, false, false)
}

func (t *Type) channels(effMass float64, coeffs *clebsch.Cache, hadronicOnly, gate bool) []DecayBranch {
	if t.IsStable() {
		return nil
	}
	branches := make([]DecayBranch, 0, len(t.Modes))
	for _, m := range t.Modes {
		if hadronicOnly && !m.hadronic() {
			continue
		}
		if gate && effMass <= m.threshold() {
			continue
		}
		w := t.Width * m.Branching * m.isospinFactor(t, coeffs)
		if gate && w < phys.ReallySmall*t.Width {
			continue
		}
		branches = append(branches, DecayBranch{Products: m.Products, Weight: w})
	}
	return branches
}

func (m DecayMode) hadronic() bool {
	for _, p := range m.Products {
		if !p.Hadron {
			return false
		}
	}
	return true
}
