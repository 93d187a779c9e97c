package clebsch

import "math"

// factorials up to 39!; couplings whose half-integer sum fits the table are
// evaluated with exact products, anything larger falls back to log-gamma.
var factorial = func() [40]float64 {
	var f [40]float64
	f[0] = 1
	for i := 1; i < len(f); i++ {
		f[i] = f[i-1] * float64(i)
	}
	return f
}()

func lnFactorial(n int) float64 {
	v, _ := math.Lgamma(float64(n) + 1)
	return v
}

// calculate evaluates the Clebsch-Gordan coefficient
//
//	(-1)^((j1-j2+m3)/2) * sqrt(j3+1) * wigner3j(j1, j2, j3; m1, m2, -m3)
//
// from the closed-form Racah sum. Arguments are doubled integers. Selection
// rule violations (m1+m2 != m3, broken triangle, parity mismatch) yield 0.
func calculate(j1, j2, j3, m1, m2, m3 int) float64 {
	w := wigner3j(j1, j2, j3, m1, m2, -m3)
	if math.Abs(w) < 1e-300 {
		return 0
	}
	result := math.Sqrt(float64(j3)+1) * w
	if ((j1-j2+m3)/2)%2 != 0 {
		result = -result
	}
	return result
}

// wigner3j computes the Wigner 3-j symbol for doubled-integer arguments.
func wigner3j(j1, j2, j3, m1, m2, m3 int) float64 {
	if m1+m2+m3 != 0 {
		return 0
	}
	// Each of these must be a non-negative even doubled value for the
	// symbol to be defined; the first three are the triangle inequality.
	args := [...]int{
		j1 + j2 - j3,
		j1 - j2 + j3,
		-j1 + j2 + j3,
		j1 + m1, j1 - m1,
		j2 + m2, j2 - m2,
		j3 + m3, j3 - m3,
	}
	for _, a := range args {
		if a < 0 || a%2 != 0 {
			return 0
		}
	}

	t1 := (j1 + j2 - j3) / 2
	t2 := (j1 - j2 + j3) / 2
	t3 := (-j1 + j2 + j3) / 2
	jt := (j1+j2+j3)/2 + 1

	a1 := (j1 + m1) / 2
	a2 := (j1 - m1) / 2
	b1 := (j2 + m2) / 2
	b2 := (j2 - m2) / 2
	c1 := (j3 + m3) / 2
	c2 := (j3 - m3) / 2

	// Racah sum over k; the summand denominators pin the admissible range.
	d1 := (j3 - j2 + m1) / 2
	d2 := (j3 - j1 - m2) / 2

	kmin := 0
	if -d1 > kmin {
		kmin = -d1
	}
	if -d2 > kmin {
		kmin = -d2
	}
	kmax := t1
	if a2 < kmax {
		kmax = a2
	}
	if b1 < kmax {
		kmax = b1
	}
	if kmin > kmax {
		return 0
	}

	var result float64
	if jt < len(factorial) {
		delta := factorial[t1] * factorial[t2] * factorial[t3] / factorial[jt]

		pre := math.Sqrt(delta *
			factorial[a1] * factorial[a2] *
			factorial[b1] * factorial[b2] *
			factorial[c1] * factorial[c2])

		sum := 0.0
		for k := kmin; k <= kmax; k++ {
			term := 1.0 / (factorial[k] *
				factorial[t1-k] * factorial[a2-k] * factorial[b1-k] *
				factorial[d1+k] * factorial[d2+k])
			if k%2 != 0 {
				term = -term
			}
			sum += term
		}
		result = pre * sum
	} else {
		// Factorials past the table would also overflow float64, so the
		// large-coupling branch works in log space throughout.
		lnPre := 0.5 * (lnFactorial(t1) + lnFactorial(t2) + lnFactorial(t3) - lnFactorial(jt) +
			lnFactorial(a1) + lnFactorial(a2) +
			lnFactorial(b1) + lnFactorial(b2) +
			lnFactorial(c1) + lnFactorial(c2))

		sum := 0.0
		for k := kmin; k <= kmax; k++ {
			term := math.Exp(lnPre -
				lnFactorial(k) - lnFactorial(t1-k) - lnFactorial(a2-k) -
				lnFactorial(b1-k) - lnFactorial(d1+k) - lnFactorial(d2+k))
			if k%2 != 0 {
				term = -term
			}
			sum += term
		}
		result = sum
	}

	if ((j1-j2-m3)/2)%2 != 0 {
		result = -result
	}
	return result
}
