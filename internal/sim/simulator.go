// Package sim drives the transport loop: per-step decay finding and
// execution, free streaming, and the forced final pass at the horizon.
//
// A Simulation instance is not safe for concurrent use. For parallel
// replicas use [Ensemble], which fans seeds out over independent runs.
package sim

import (
	"context"
	"fmt"

	"github.com/tkoskela/decaykit/internal/clebsch"
	"github.com/tkoskela/decaykit/internal/decay"
	"github.com/tkoskela/decaykit/internal/particle"
	"github.com/tkoskela/decaykit/internal/random"
	"github.com/tkoskela/decaykit/internal/scheduler"
)

type Simulation struct {
	coeffs    *clebsch.Cache
	parts     *particle.Map
	metrics   []Metric
	observers []Observer
}

// New builds a simulation over the given particle collection. The coefficient
// cache is shared: concurrent replicas may all use the same one.
func New(coeffs *clebsch.Cache, parts *particle.Map) *Simulation {
	return &Simulation{
		coeffs:    coeffs,
		parts:     parts,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulation) AddMetric(m Metric)       { s.metrics = append(s.metrics, m) }
func (s *Simulation) AddObserver(o Observer)   { s.observers = append(s.observers, o) }
func (s *Simulation) Particles() *particle.Map { return s.parts }

// Run advances the system from t=0 to cfg.TEnd in dt steps, then runs the
// forced final pass exactly once so no resonance survives the horizon.
func (s *Simulation) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	eng := random.NewEngine(cfg.Seed)
	finder := decay.NewFinder(s.coeffs, eng)
	sched := scheduler.New(eng)

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{
		Decays:      make([]scheduler.Record, 0),
		FinalCounts: make(map[string]int),
		Metrics:     make(map[string]float64),
	}

	t := 0.0
	for step := 0; t < cfg.TEnd; step++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		acts := finder.FindActionsInCell(s.parts.All(), cfg.Dt)
		executed, err := sched.Execute(s.parts, acts)
		if err != nil {
			return result, err
		}
		result.Decays = append(result.Decays, executed...)

		for _, m := range s.metrics {
			for _, rec := range executed {
				m.Observe(rec)
			}
		}
		t += cfg.Dt
		s.freeStream(t)
		result.StepsTaken++

		for _, obs := range s.observers {
			obs.OnStep(step, t, s.parts, executed)
		}
	}

	final, err := finder.FindFinalActions(s.parts)
	if err != nil {
		return result, err
	}
	forced, err := sched.Execute(s.parts, final)
	if err != nil {
		return result, err
	}
	result.Decays = append(result.Decays, forced...)
	result.ForcedDecays = len(forced)
	for _, m := range s.metrics {
		for _, rec := range forced {
			m.Observe(rec)
		}
	}

	for _, p := range s.parts.All() {
		result.FinalCounts[p.Type.Name]++
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func (s *Simulation) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("sim: dt must be positive, got %f", cfg.Dt)
	}
	if cfg.TEnd <= 0 {
		return fmt.Errorf("sim: t_end must be positive, got %f", cfg.TEnd)
	}
	return nil
}

// freeStream propagates every particle to lab time t along its velocity.
func (s *Simulation) freeStream(t float64) {
	for _, p := range s.parts.All() {
		dt := t - p.Position.X0()
		if dt <= 0 {
			continue
		}
		bx, by, bz := p.Momentum.Velocity()
		p.Position[0] = t
		p.Position[1] += bx * dt
		p.Position[2] += by * dt
		p.Position[3] += bz * dt
	}
}
