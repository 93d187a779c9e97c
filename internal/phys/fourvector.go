package phys

import "math"

// FourVector is a Lorentz four-vector with metric (+,-,-,-).
// Component 0 is the time-like component (t or E), components 1-3 are spatial.
type FourVector [4]float64

func NewFourVector(x0, x1, x2, x3 float64) FourVector {
	return FourVector{x0, x1, x2, x3}
}

func (v FourVector) X0() float64 { return v[0] }
func (v FourVector) X1() float64 { return v[1] }
func (v FourVector) X2() float64 { return v[2] }
func (v FourVector) X3() float64 { return v[3] }

func (v FourVector) Add(w FourVector) FourVector {
	return FourVector{v[0] + w[0], v[1] + w[1], v[2] + w[2], v[3] + w[3]}
}

func (v FourVector) Sub(w FourVector) FourVector {
	return FourVector{v[0] - w[0], v[1] - w[1], v[2] - w[2], v[3] - w[3]}
}

// Dot is the Minkowski inner product v·w = v0 w0 - v·w.
func (v FourVector) Dot(w FourVector) float64 {
	return v[0]*w[0] - v[1]*w[1] - v[2]*w[2] - v[3]*w[3]
}

// Sqr is the invariant square v·v.
func (v FourVector) Sqr() float64 { return v.Dot(v) }

// Abs is the invariant magnitude sqrt(v·v); for a momentum this is the
// invariant mass. Small negative squares from rounding clamp to zero.
func (v FourVector) Abs() float64 {
	s := v.Sqr()
	if s < 0 {
		return 0
	}
	return math.Sqrt(s)
}

// SpatialSqr is the squared length of the spatial part.
func (v FourVector) SpatialSqr() float64 {
	return v[1]*v[1] + v[2]*v[2] + v[3]*v[3]
}

// Velocity returns the three-velocity of a momentum vector, p/E.
// A zero-energy momentum has no defined direction and reports rest.
func (v FourVector) Velocity() (bx, by, bz float64) {
	if v[0] == 0 {
		return 0, 0, 0
	}
	return v[1] / v[0], v[2] / v[0], v[3] / v[0]
}

// Boost transforms v from a frame S' into the frame S relative to which S'
// moves with velocity (bx, by, bz). Passing a parent's lab velocity maps a
// rest-frame momentum into the lab frame.
func (v FourVector) Boost(bx, by, bz float64) FourVector {
	b2 := bx*bx + by*by + bz*bz
	if b2 <= 0 {
		return v
	}
	gamma := 1.0 / math.Sqrt(1.0-b2)
	bp := bx*v[1] + by*v[2] + bz*v[3]
	k := (gamma-1.0)*bp/b2 + gamma*v[0]
	return FourVector{
		gamma * (v[0] + bp),
		v[1] + k*bx,
		v[2] + k*by,
		v[3] + k*bz,
	}
}

// IsValid reports whether all components are finite.
func (v FourVector) IsValid() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
