package clebsch

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Entry is one row of an external coefficient table.
type Entry struct {
	J1    int     `yaml:"j1"`
	J2    int     `yaml:"j2"`
	J3    int     `yaml:"j3"`
	M1    int     `yaml:"m1"`
	M2    int     `yaml:"m2"`
	M3    int     `yaml:"m3"`
	Value float64 `yaml:"value"`
}

func (e Entry) Key() ThreeSpins {
	return ThreeSpins{e.J1, e.J2, e.J3, e.M1, e.M2, e.M3}
}

type tableFile struct {
	Coefficients []Entry `yaml:"coefficients"`
}

// LoadTable reads a YAML coefficient table for preseeding a Cache.
func LoadTable(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tf tableFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("clebsch: parse table %s: %w", path, err)
	}
	return tf.Coefficients, nil
}

// SaveTable writes entries as a YAML coefficient table.
func SaveTable(path string, entries []Entry) error {
	data, err := yaml.Marshal(tableFile{Coefficients: entries})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Tabulate fills the cache with every coefficient for couplings with
// all three momenta up to maxJ (doubled) and returns the entries in table
// order. Combined with SaveTable this regenerates seed tables.
func Tabulate(c *Cache, maxJ int) []Entry {
	for j1 := 0; j1 <= maxJ; j1++ {
		for j2 := 0; j2 <= maxJ; j2++ {
			lo := j1 - j2
			if lo < 0 {
				lo = -lo
			}
			for j3 := lo; j3 <= j1+j2 && j3 <= maxJ; j3 += 2 {
				for m1 := -j1; m1 <= j1; m1 += 2 {
					for m2 := -j2; m2 <= j2; m2 += 2 {
						m3 := m1 + m2
						if m3 < -j3 || m3 > j3 {
							continue
						}
						c.Coefficient(j1, j2, j3, m1, m2, m3)
					}
				}
			}
		}
	}
	return c.Dump()
}
