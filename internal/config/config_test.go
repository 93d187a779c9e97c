package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tkoskela/decaykit/internal/particle"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Dt != DefaultDt {
		t.Errorf("expected dt %v, got %v", DefaultDt, cfg.Dt)
	}
	if cfg.TEnd != DefaultTEnd {
		t.Errorf("expected t_end %v, got %v", DefaultTEnd, cfg.TEnd)
	}
	if len(cfg.Particles) == 0 {
		t.Error("default config has no initial particles")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	body := `
dt: 0.05
seed: 99
particles:
  - species: rho0
    count: 3
    pz: 1.5
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Dt != 0.05 {
		t.Errorf("expected dt 0.05, got %v", cfg.Dt)
	}
	if cfg.TEnd != DefaultTEnd {
		t.Errorf("t_end should keep default, got %v", cfg.TEnd)
	}
	if cfg.Seed != 99 {
		t.Errorf("expected seed 99, got %v", cfg.Seed)
	}
	if len(cfg.Particles) != 1 || cfg.Particles[0].Count != 3 {
		t.Errorf("particle specs not overridden: %+v", cfg.Particles)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := DefaultConfig()
	cfg.Seed = 1234

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Seed != 1234 || loaded.Dt != cfg.Dt {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestBuildParticles(t *testing.T) {
	cfg := &Config{
		Dt:   0.1,
		TEnd: 1.0,
		Particles: []ParticleSpec{
			{Species: "rho0", Count: 4, Pz: 0.5, Formation: 2.0},
			{Species: "pi+", Count: 2},
		},
	}

	cat, err := cfg.LoadCatalog()
	if err != nil {
		t.Fatal(err)
	}
	parts := particle.NewMap()
	if err := cfg.BuildParticles(cat, parts); err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if parts.Len() != 6 {
		t.Fatalf("expected 6 particles, got %d", parts.Len())
	}
	formed := 0
	for _, p := range parts.All() {
		if p.Formation == 2.0 {
			formed++
		}
	}
	if formed != 4 {
		t.Errorf("expected 4 particles with formation time 2.0, got %d", formed)
	}
}

func TestBuildParticlesUnknownSpecies(t *testing.T) {
	cfg := &Config{
		Particles: []ParticleSpec{{Species: "nope", Count: 1}},
	}
	cat, err := cfg.LoadCatalog()
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.BuildParticles(cat, particle.NewMap()); err == nil {
		t.Error("expected error for unknown species")
	}
}
