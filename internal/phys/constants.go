package phys

const (
	// HBarC is ħc in GeV·fm. Widths in GeV divided by HBarC give
	// inverse lengths (and, with c=1, inverse times) in 1/fm.
	HBarC = 0.197327053

	// ReallySmall is the threshold below which a computed amplitude or
	// weight is treated as exactly zero.
	ReallySmall = 1e-6
)
