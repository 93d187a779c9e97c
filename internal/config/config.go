// Package config holds the YAML run configuration.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tkoskela/decaykit/internal/catalog"
	"github.com/tkoskela/decaykit/internal/particle"
	"github.com/tkoskela/decaykit/internal/phys"
)

const (
	DefaultDt   = 0.2
	DefaultTEnd = 40.0
)

type Config struct {
	Dt           float64        `yaml:"dt"`
	TEnd         float64        `yaml:"t_end"`
	Seed         int64          `yaml:"seed"`
	CatalogPath  string         `yaml:"catalog"`
	ClebschTable string         `yaml:"clebsch_table"`
	Particles    []ParticleSpec `yaml:"particles"`
}

// ParticleSpec declares an initial particle population: count copies of one
// species with a common longitudinal momentum.
type ParticleSpec struct {
	Species   string  `yaml:"species"`
	Count     int     `yaml:"count"`
	Pz        float64 `yaml:"pz"`
	Formation float64 `yaml:"formation"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:   DefaultDt,
		TEnd: DefaultTEnd,
		Particles: []ParticleSpec{
			{Species: "rho0", Count: 20, Pz: 0.4},
			{Species: "Delta+", Count: 10, Pz: 1.0},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCatalog opens the configured species catalog, falling back to the
// built-in one.
func (c *Config) LoadCatalog() (*catalog.Catalog, error) {
	if c.CatalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(c.CatalogPath)
}

// BuildParticles populates parts from the configured initial population.
func (c *Config) BuildParticles(cat *catalog.Catalog, parts *particle.Map) error {
	for _, spec := range c.Particles {
		if spec.Count <= 0 {
			return fmt.Errorf("config: species %q has non-positive count %d", spec.Species, spec.Count)
		}
		typ, err := cat.Get(spec.Species)
		if err != nil {
			return err
		}
		e := math.Sqrt(typ.Mass*typ.Mass + spec.Pz*spec.Pz)
		for i := 0; i < spec.Count; i++ {
			parts.Insert(particle.Particle{
				Type:      typ,
				Momentum:  phys.NewFourVector(e, 0, 0, spec.Pz),
				Position:  phys.NewFourVector(0, 0, 0, 0),
				Formation: spec.Formation,
				EffMass:   typ.Mass,
			})
		}
	}
	return nil
}
