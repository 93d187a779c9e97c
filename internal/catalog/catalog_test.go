package catalog

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/tkoskela/decaykit/internal/clebsch"
	"github.com/tkoskela/decaykit/internal/particle"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	if c.Len() == 0 {
		t.Fatal("default catalog is empty")
	}

	rho, err := c.Get("rho0")
	if err != nil {
		t.Fatalf("rho0 missing: %v", err)
	}
	if rho.IsStable() {
		t.Error("rho0 should be unstable")
	}
	if len(rho.Modes) != 2 {
		t.Errorf("expected 2 rho0 modes, got %d", len(rho.Modes))
	}

	pion, err := c.Get("pi+")
	if err != nil {
		t.Fatalf("pi+ missing: %v", err)
	}
	if !pion.IsStable() {
		t.Error("pi+ should be stable")
	}
}

func TestUnknownSpecies(t *testing.T) {
	c := Default()
	if _, err := c.Get("unobtainium"); err == nil {
		t.Error("expected error for unknown species")
	}
}

func TestDeltaIsospinSplit(t *testing.T) {
	c := Default()
	coeffs := clebsch.NewCache()

	delta, err := c.Get("Delta+")
	if err != nil {
		t.Fatal(err)
	}

	branches := delta.Channels(delta.Mass, coeffs)
	if len(branches) != 2 {
		t.Fatalf("expected 2 open channels, got %d", len(branches))
	}

	// p pi0 : n pi+ splits 2:1 through the isospin coupling.
	byFirst := map[string]float64{}
	for _, b := range branches {
		byFirst[b.Products[0].Name] = b.Weight
	}
	ratio := byFirst["proton"] / byFirst["neutron"]
	if math.Abs(ratio-2.0) > 1e-9 {
		t.Errorf("p pi0 / n pi+ weight ratio %v, want 2", ratio)
	}

	total := particle.TotalWeight(branches)
	if math.Abs(total-delta.Width) > 1e-9 {
		t.Errorf("total width %v, want %v", total, delta.Width)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "species.yaml")
	body := `
species:
  - name: a
    mass: 0.1
    hadron: true
  - name: b
    mass: 0.3
    width: 0.05
    hadron: true
    modes:
      - branching: 1.0
        products: [a, a]
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 species, got %d", c.Len())
	}

	b, err := c.Get("b")
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Modes) != 1 || len(b.Modes[0].Products) != 2 {
		t.Error("mode references not resolved")
	}
}

func TestLoadRejectsDefects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", `species: []`},
		{"unknown product", `
species:
  - name: a
    mass: 0.5
    width: 0.1
    modes:
      - branching: 1.0
        products: [ghost, ghost]
`},
		{"width without modes", `
species:
  - name: a
    mass: 0.5
    width: 0.1
`},
		{"negative branching", `
species:
  - name: a
    mass: 0.1
  - name: b
    mass: 0.5
    width: 0.1
    modes:
      - branching: -0.5
        products: [a, a]
`},
		{"duplicate species", `
species:
  - name: a
    mass: 0.1
  - name: a
    mass: 0.2
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected load error")
			}
		})
	}
}
