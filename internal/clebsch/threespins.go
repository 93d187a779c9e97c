package clebsch

// ThreeSpins identifies one coupling coefficient: two angular momenta
// (J1, M1) and (J2, M2) coupled to (J3, M3). All values are doubled.
// The type is comparable, so it can key a map directly; equality on all six
// fields is what makes cache lookups collision-free over the whole valid
// domain.
type ThreeSpins struct {
	J1 int
	J2 int
	J3 int
	M1 int
	M2 int
	M3 int
}

// Index enumerates the triple with the packing polynomial of Rasch and Yu
// (SIAM J. Sci. Comput. 25 (2004) 1416), the scheme the coefficient table
// format is sorted by. Within one (J1,J2,J3) coupling block it assigns every
// projection state of isospin up to 3/2 a distinct number; it is an
// enumeration order, not a lookup key, since distinct blocks can overlap in
// range.
func (s ThreeSpins) Index() int {
	S := -s.J1 + s.J2 + s.J3
	L := +s.J1 - s.J2 + s.J3
	X := +s.J1 - s.M1
	B := +s.J2 - s.M2
	T := +s.J3 + s.M3
	return L*(24+L*(50+L*(35+L*(10+L))))/120 +
		X*(6+X*(11+X*(6+X)))/24 +
		T*(2+T*(3+T))/6 +
		B*(B+1)/2 + S + 1
}
