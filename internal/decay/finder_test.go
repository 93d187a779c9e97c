package decay

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkoskela/decaykit/internal/action"
	"github.com/tkoskela/decaykit/internal/clebsch"
	"github.com/tkoskela/decaykit/internal/particle"
	"github.com/tkoskela/decaykit/internal/phys"
	"github.com/tkoskela/decaykit/internal/random"
)

type fixture struct {
	pion *particle.Type
	rho  *particle.Type
}

func newFixture() fixture {
	piPlus := &particle.Type{Name: "pi+", Mass: 0.138, Isospin: 2, IsospinZ: 2, Hadron: true}
	piMinus := &particle.Type{Name: "pi-", Mass: 0.138, Isospin: 2, IsospinZ: -2, Hadron: true}
	rho := &particle.Type{
		Name: "rho0", Mass: 0.776, Width: 0.149,
		Spin: 2, Isospin: 2, IsospinZ: 0, Hadron: true,
		Modes: []particle.DecayMode{
			{Branching: 1.0, Products: []*particle.Type{piPlus, piMinus}},
		},
	}
	return fixture{pion: piPlus, rho: rho}
}

func restParticle(parts *particle.Map, typ *particle.Type) *particle.Particle {
	return parts.Insert(particle.Particle{
		Type:     typ,
		Momentum: phys.NewFourVector(typ.Mass, 0, 0, 0),
		Position: phys.NewFourVector(0, 0, 0, 0),
		EffMass:  typ.Mass,
	})
}

func TestStableParticlesNeverDecay(t *testing.T) {
	fx := newFixture()
	parts := particle.NewMap()
	for i := 0; i < 50; i++ {
		restParticle(parts, fx.pion)
	}

	f := NewFinder(clebsch.NewCache(), random.NewEngine(1))

	acts := f.FindActionsInCell(parts.All(), 10.0)
	assert.Empty(t, acts, "per-step scan produced actions for stable species")

	final, err := f.FindFinalActions(parts)
	require.NoError(t, err)
	assert.Empty(t, final, "forced pass produced actions for stable species")
}

func TestZeroWidthSkipped(t *testing.T) {
	fx := newFixture()
	parts := particle.NewMap()
	// Effective mass below the two-pion threshold: no open channels.
	parts.Insert(particle.Particle{
		Type:     fx.rho,
		Momentum: phys.NewFourVector(0.2, 0, 0, 0),
		EffMass:  0.2,
	})

	f := NewFinder(clebsch.NewCache(), random.NewEngine(1))
	acts := f.FindActionsInCell(parts.All(), 1e6)
	assert.Empty(t, acts)
}

func TestFormationGate(t *testing.T) {
	fx := newFixture()
	f := NewFinder(clebsch.NewCache(), random.NewEngine(8))

	// Formation far beyond any delay the huge dt could accept.
	parts := particle.NewMap()
	p := restParticle(parts, fx.rho)
	p.Formation = 1e12

	for step := 0; step < 200; step++ {
		acts := f.FindActionsInCell(parts.All(), 50.0)
		assert.Empty(t, acts, "unformed particle decayed at step %d", step)
	}

	// Formation in the past gates nothing.
	parts2 := particle.NewMap()
	q := restParticle(parts2, fx.rho)
	q.Formation = -1.0

	found := false
	for step := 0; step < 200 && !found; step++ {
		found = len(f.FindActionsInCell(parts2.All(), 50.0)) > 0
	}
	assert.True(t, found, "formed particle never decayed over 200 generous steps")
}

func TestAcceptedDelayWithinStep(t *testing.T) {
	fx := newFixture()
	f := NewFinder(clebsch.NewCache(), random.NewEngine(21))
	parts := particle.NewMap()
	restParticle(parts, fx.rho)

	const dt = 0.5
	for step := 0; step < 2000; step++ {
		for _, a := range f.FindActionsInCell(parts.All(), dt) {
			d := a.(*action.Decay)
			delay := d.Time() - d.Parent().Position.X0()
			if delay < 0 || delay >= dt {
				t.Fatalf("accepted delay %v outside [0, %v)", delay, dt)
			}
		}
	}
}

func TestDecayDelayDistribution(t *testing.T) {
	fx := newFixture()
	f := NewFinder(clebsch.NewCache(), random.NewEngine(4242))
	parts := particle.NewMap()
	p := restParticle(parts, fx.rho)

	coeffs := clebsch.NewCache()
	width := particle.TotalWeight(fx.rho.Channels(fx.rho.Mass, coeffs))
	rate := width * p.InverseGamma() / phys.HBarC

	// With dt -> inf every candidate is accepted; the accepted delays must
	// follow the exponential law.
	const n = 50000
	sum := 0.0
	for i := 0; i < n; i++ {
		acts := f.FindActionsInCell(parts.All(), math.Inf(1))
		require.Len(t, acts, 1)
		sum += acts[0].Time() - p.Position.X0()
	}
	mean := sum / n
	// Standard error of the mean is (1/rate)/sqrt(n); 0.05/rate is ~11 sigma.
	assert.InDelta(t, 1.0/rate, mean, 0.05/rate)
}

func TestForcedPassCounts(t *testing.T) {
	fx := newFixture()
	parts := particle.NewMap()

	const unstable, stable = 7, 5
	for i := 0; i < unstable; i++ {
		restParticle(parts, fx.rho)
	}
	for i := 0; i < stable; i++ {
		restParticle(parts, fx.pion)
	}

	f := NewFinder(clebsch.NewCache(), random.NewEngine(1))
	acts, err := f.FindFinalActions(parts)
	require.NoError(t, err)
	require.Len(t, acts, unstable)

	for _, a := range acts {
		d := a.(*action.Decay)
		assert.Equal(t, d.Parent().Position.X0(), d.Time(), "forced decay must have zero delay")
	}
}

func TestForcedPassEmptyChannelsFatal(t *testing.T) {
	// Unstable by width but without modes: the loader rejects such catalogs,
	// so build the corrupt type directly.
	corrupt := &particle.Type{Name: "ghost", Mass: 1.0, Width: 0.1, Hadron: true}

	parts := particle.NewMap()
	parts.Insert(particle.Particle{
		Type:     corrupt,
		Momentum: phys.NewFourVector(1.0, 0, 0, 0),
		EffMass:  1.0,
	})

	f := NewFinder(clebsch.NewCache(), random.NewEngine(1))
	_, err := f.FindFinalActions(parts)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoChannels)
}

func TestReproducibleActionLists(t *testing.T) {
	run := func(seed int64) []float64 {
		fx := newFixture()
		parts := particle.NewMap()
		for i := 0; i < 30; i++ {
			restParticle(parts, fx.rho)
		}
		f := NewFinder(clebsch.NewCache(), random.NewEngine(seed))

		times := make([]float64, 0, 64)
		for step := 0; step < 50; step++ {
			for _, a := range f.FindActionsInCell(parts.All(), 2.0) {
				times = append(times, a.Time())
			}
		}
		return times
	}

	first := run(999)
	second := run(999)
	require.NotEmpty(t, first)
	require.Equal(t, first, second, "fixed seed must give bit-identical action lists")

	other := run(1000)
	assert.NotEqual(t, first, other, "different seeds should diverge")
}
