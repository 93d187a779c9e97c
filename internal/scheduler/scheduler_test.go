package scheduler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkoskela/decaykit/internal/action"
	"github.com/tkoskela/decaykit/internal/particle"
	"github.com/tkoskela/decaykit/internal/phys"
	"github.com/tkoskela/decaykit/internal/random"
)

func rhoFixture() (*particle.Type, *particle.Type, *particle.Type) {
	piPlus := &particle.Type{Name: "pi+", Mass: 0.13957, Isospin: 2, IsospinZ: 2, Hadron: true}
	piMinus := &particle.Type{Name: "pi-", Mass: 0.13957, Isospin: 2, IsospinZ: -2, Hadron: true}
	rho := &particle.Type{
		Name: "rho0", Mass: 0.77526, Width: 0.1474,
		Spin: 2, Isospin: 2, IsospinZ: 0, Hadron: true,
		Modes: []particle.DecayMode{
			{Branching: 1.0, Products: []*particle.Type{piPlus, piMinus}},
		},
	}
	return rho, piPlus, piMinus
}

func movingRho(parts *particle.Map, rho *particle.Type, pz float64) *particle.Particle {
	e := math.Sqrt(rho.Mass*rho.Mass + pz*pz)
	return parts.Insert(particle.Particle{
		Type:     rho,
		Momentum: phys.NewFourVector(e, 0, 0, pz),
		Position: phys.NewFourVector(0, 0, 0, 0),
		EffMass:  rho.Mass,
	})
}

func branchesFor(rho *particle.Type) []particle.DecayBranch {
	return []particle.DecayBranch{{Products: rho.Modes[0].Products, Weight: rho.Width}}
}

func TestExecuteReplacesParent(t *testing.T) {
	rho, _, _ := rhoFixture()
	parts := particle.NewMap()
	p := movingRho(parts, rho, 0.5)

	pending := action.List{action.NewDecay(p, 1.0, branchesFor(rho))}
	recs, err := New(random.NewEngine(3)).Execute(parts, pending)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.Equal(t, "rho0", recs[0].Parent)
	assert.Equal(t, 1.0, recs[0].Delay)
	assert.Equal(t, []string{"pi+", "pi-"}, recs[0].Products)

	// Parent gone, two pions present.
	assert.False(t, parts.Alive(p.ID, 0))
	assert.Equal(t, 2, parts.Len())
	for _, q := range parts.All() {
		assert.Equal(t, 1.0, q.Formation, "products form at the decay instant")
		assert.Equal(t, 1.0, q.Position.X0())
	}
}

func TestExecuteConservesMomentum(t *testing.T) {
	rho, _, _ := rhoFixture()
	parts := particle.NewMap()
	p := movingRho(parts, rho, 1.7)
	before := p.Momentum

	pending := action.List{action.NewDecay(p, 0.3, branchesFor(rho))}
	_, err := New(random.NewEngine(11)).Execute(parts, pending)
	require.NoError(t, err)

	var after phys.FourVector
	for _, q := range parts.All() {
		after = after.Add(q.Momentum)
	}
	for i := 0; i < 4; i++ {
		assert.InDelta(t, before[i], after[i], 1e-12, "component %d", i)
	}

	// Products carry the invariant masses of their species.
	for _, q := range parts.All() {
		assert.InDelta(t, q.Type.Mass, q.Momentum.Abs(), 1e-9)
	}
}

func TestExecuteSkipsStale(t *testing.T) {
	rho, _, _ := rhoFixture()
	parts := particle.NewMap()
	a := movingRho(parts, rho, 0)
	b := movingRho(parts, rho, 0)

	pending := action.List{
		action.NewDecay(a, 0.5, branchesFor(rho)),
		action.NewDecay(b, 0.8, branchesFor(rho)),
	}

	// Mutate a after its action was issued; only b's decay may run.
	parts.Touch(a.ID)

	recs, err := New(random.NewEngine(7)).Execute(parts, pending)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, b.ID, recs[0].ParentID)

	// a survived untouched by the stale action.
	assert.True(t, parts.Alive(a.ID, 1))
}

func TestExecuteEarliestFirst(t *testing.T) {
	rho, _, _ := rhoFixture()
	parts := particle.NewMap()
	late := movingRho(parts, rho, 0)
	early := movingRho(parts, rho, 0)

	pending := action.List{
		action.NewDecay(late, 2.0, branchesFor(rho)),
		action.NewDecay(early, 0.1, branchesFor(rho)),
	}
	recs, err := New(random.NewEngine(1)).Execute(parts, pending)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, early.ID, recs[0].ParentID)
	assert.Equal(t, late.ID, recs[1].ParentID)
}

func TestExecuteRejectsManyBody(t *testing.T) {
	rho, piPlus, piMinus := rhoFixture()
	pi0 := &particle.Type{Name: "pi0", Mass: 0.13498, Isospin: 2, Hadron: true}

	parts := particle.NewMap()
	p := movingRho(parts, rho, 0)

	three := []particle.DecayBranch{{
		Products: []*particle.Type{piPlus, piMinus, pi0},
		Weight:   0.1,
	}}
	pending := action.List{action.NewDecay(p, 0, three)}

	_, err := New(random.NewEngine(1)).Execute(parts, pending)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFinalState)
}

func TestForcedBelowThresholdClamps(t *testing.T) {
	rho, _, _ := rhoFixture()
	parts := particle.NewMap()
	// Effective mass below the two-pion threshold.
	p := parts.Insert(particle.Particle{
		Type:     rho,
		Momentum: phys.NewFourVector(0.2, 0, 0, 0),
		EffMass:  0.2,
	})

	pending := action.List{action.NewDecay(p, 0, branchesFor(rho))}
	recs, err := New(random.NewEngine(9)).Execute(parts, pending)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	for _, q := range parts.All() {
		require.True(t, q.Momentum.IsValid(), "below-threshold decay produced NaN momentum")
	}
}
