// Package analysis provides post-run statistics over decay records.
package analysis

import (
	"math"
	"sort"

	"github.com/tkoskela/decaykit/internal/scheduler"
)

// MeanLifetime estimates the rest-frame lifetime of a species from the
// observed delays. For an exponential process the sample mean of the
// delays is the maximum-likelihood estimate. Records whose parent does
// not match are ignored; pass an empty species to use every record.
// Returns NaN when no record matches.
func MeanLifetime(records []scheduler.Record, species string) float64 {
	sum := 0.0
	n := 0
	for _, rec := range records {
		if species != "" && rec.Parent != species {
			continue
		}
		sum += rec.Delay
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// SurvivalCurve bins the decay times into numBins intervals over
// [0, tMax] and returns, for each bin edge, the fraction of the sample
// still undecayed. The curve starts at 1 and decreases monotonically.
func SurvivalCurve(records []scheduler.Record, numBins int, tMax float64) []float64 {
	if numBins < 1 || tMax <= 0 || len(records) == 0 {
		return nil
	}

	times := make([]float64, len(records))
	for i, rec := range records {
		times[i] = rec.Time
	}
	sort.Float64s(times)

	curve := make([]float64, numBins)
	total := float64(len(times))
	decayed := 0
	for bin := 0; bin < numBins; bin++ {
		edge := tMax * float64(bin+1) / float64(numBins)
		for decayed < len(times) && times[decayed] <= edge {
			decayed++
		}
		curve[bin] = (total - float64(decayed)) / total
	}
	return curve
}

// BranchingFractions counts how often each parent species decayed and
// returns the per-species fraction of the total.
func BranchingFractions(records []scheduler.Record) map[string]float64 {
	if len(records) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, rec := range records {
		counts[rec.Parent]++
	}
	fractions := make(map[string]float64, len(counts))
	total := float64(len(records))
	for name, n := range counts {
		fractions[name] = float64(n) / total
	}
	return fractions
}

// ProductFractions counts the produced species across all records and
// returns each one's share of the total multiplicity.
func ProductFractions(records []scheduler.Record) map[string]float64 {
	counts := make(map[string]int)
	total := 0
	for _, rec := range records {
		for _, p := range rec.Products {
			counts[p]++
			total++
		}
	}
	if total == 0 {
		return nil
	}
	fractions := make(map[string]float64, len(counts))
	for name, n := range counts {
		fractions[name] = float64(n) / float64(total)
	}
	return fractions
}

// Parents returns the parent species present in the records, sorted.
func Parents(records []scheduler.Record) []string {
	seen := make(map[string]bool)
	for _, rec := range records {
		seen[rec.Parent] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
