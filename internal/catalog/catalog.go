// Package catalog loads species tables into particle types.
//
// A catalog file declares each species once and wires decay modes by product
// name, so the loader resolves references in a second pass. Validation is
// strict: a width-carrying species without modes, an unknown product name, or
// a non-positive branching ratio is a data defect and fails the load rather
// than surfacing later as a corrupt forced decay.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/tkoskela/decaykit/internal/particle"
)

//go:embed default.yaml
var defaultCatalog []byte

type speciesSpec struct {
	Name     string     `yaml:"name"`
	PDG      int        `yaml:"pdg"`
	Mass     float64    `yaml:"mass"`
	Width    float64    `yaml:"width"`
	Spin     int        `yaml:"spin"`
	Isospin  int        `yaml:"isospin"`
	IsospinZ int        `yaml:"isospin_z"`
	Hadron   bool       `yaml:"hadron"`
	Modes    []modeSpec `yaml:"modes"`
}

type modeSpec struct {
	Branching float64  `yaml:"branching"`
	Products  []string `yaml:"products"`
}

type catalogFile struct {
	Species []speciesSpec `yaml:"species"`
}

// Catalog is the read-only species table for a run.
type Catalog struct {
	types map[string]*particle.Type
}

// Load reads a species catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

// Default returns the built-in catalog: a small set of light hadrons with
// two-body decay modes.
func Default() *Catalog {
	c, err := parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded default is invalid: %v", err))
	}
	return c
}

func parse(data []byte) (*Catalog, error) {
	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}
	if len(cf.Species) == 0 {
		return nil, fmt.Errorf("catalog: no species defined")
	}

	types := make(map[string]*particle.Type, len(cf.Species))
	for _, s := range cf.Species {
		if s.Name == "" {
			return nil, fmt.Errorf("catalog: species with empty name")
		}
		if _, dup := types[s.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate species %q", s.Name)
		}
		if s.Mass < 0 || s.Width < 0 {
			return nil, fmt.Errorf("catalog: species %q has negative mass or width", s.Name)
		}
		types[s.Name] = &particle.Type{
			Name:     s.Name,
			PDG:      s.PDG,
			Mass:     s.Mass,
			Width:    s.Width,
			Spin:     s.Spin,
			Isospin:  s.Isospin,
			IsospinZ: s.IsospinZ,
			Hadron:   s.Hadron,
		}
	}

	for _, s := range cf.Species {
		t := types[s.Name]
		if t.Width > 0 && len(s.Modes) == 0 {
			return nil, fmt.Errorf("catalog: species %q has width %.4f GeV but no decay modes", s.Name, t.Width)
		}
		for _, m := range s.Modes {
			if m.Branching <= 0 {
				return nil, fmt.Errorf("catalog: species %q has non-positive branching ratio", s.Name)
			}
			if len(m.Products) < 2 {
				return nil, fmt.Errorf("catalog: species %q decay mode with fewer than two products", s.Name)
			}
			products := make([]*particle.Type, 0, len(m.Products))
			for _, name := range m.Products {
				pt, ok := types[name]
				if !ok {
					return nil, fmt.Errorf("catalog: species %q decays into unknown species %q", s.Name, name)
				}
				products = append(products, pt)
			}
			t.Modes = append(t.Modes, particle.DecayMode{Branching: m.Branching, Products: products})
		}
	}

	return &Catalog{types: types}, nil
}

// Get returns the species with the given name.
func (c *Catalog) Get(name string) (*particle.Type, error) {
	t, ok := c.types[name]
	if !ok {
		return nil, fmt.Errorf("catalog: unknown species %q", name)
	}
	return t, nil
}

// Names lists the species in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.types))
	for name := range c.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of species.
func (c *Catalog) Len() int { return len(c.types) }
