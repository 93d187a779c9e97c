// Package clebsch computes and memoizes Clebsch-Gordan coefficients for
// isospin coupling.
//
// All angular momenta are passed doubled (2j, 2m) so that half-integer spins
// stay integral. A coefficient is identified by a [ThreeSpins] key; the cache
// maps the full six-value tuple, so lookups can never alias, and keeps the
// Rasch-Yu packed index as the canonical enumeration order for external
// coefficient tables.
//
// A [Cache] is constructed once at startup, shared process-wide, and is safe
// for concurrent use. Entries are pure data; there is no teardown. It can be
// preseeded from a YAML table ([LoadTable]) or populated lazily on lookup.
//
// Inputs must satisfy the triangle inequality |j1-j2| <= j3 <= j1+j2 and the
// projection bounds |mi| <= ji. Violating this is a caller error and the
// result is undefined.
package clebsch
