package sim

import (
	"github.com/tkoskela/decaykit/internal/particle"
	"github.com/tkoskela/decaykit/internal/scheduler"
)

// Config parameterizes one run. The seed fixes the draw order of the run's
// single random engine and with it the entire outcome.
type Config struct {
	Dt   float64 // timestep, fm/c
	TEnd float64 // simulated horizon, fm/c
	Seed int64
}

// Metric aggregates a scalar over the executed decays of a run.
type Metric interface {
	Name() string
	Observe(rec scheduler.Record)
	Value() float64
	Reset()
}

// Observer is called once per step after the step's decays have executed.
type Observer interface {
	OnStep(step int, t float64, parts *particle.Map, executed []scheduler.Record)
}

// Result captures one finished run.
type Result struct {
	StepsTaken   int
	Decays       []scheduler.Record
	ForcedDecays int
	FinalCounts  map[string]int
	Metrics      map[string]float64
}
