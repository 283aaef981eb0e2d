package sascore

import (
	"math"
)

// MacrocycleThreshold is the ring size above which a ring counts as a
// macrocycle.
const MacrocycleThreshold = 8

// Complexity is the structural complexity penalty of one molecule with the
// inputs and the four terms that make it up.
type Complexity struct {
	Bridgeheads   int `json:"bridgeheads"`
	SpiroAtoms    int `json:"spiro_atoms"`
	Stereocenters int `json:"stereocenters"`
	Macrocycles   int `json:"macrocycles"`
	HeavyAtoms    int `json:"heavy_atoms"`

	RingTerm       float64 `json:"ring_term"`
	StereoTerm     float64 `json:"stereo_term"`
	MacrocycleTerm float64 `json:"macrocycle_term"`
	SizeTerm       float64 `json:"size_term"`
	Total          float64 `json:"total"`
}

// EvaluateComplexity computes the complexity penalty of mol.  Stereocenters
// include unassigned ones.
func EvaluateComplexity(mol Molecule) Complexity {
	macrocycles := 0
	for _, ring := range mol.AtomRings() {
		if len(ring) > MacrocycleThreshold {
			macrocycles++
		}
	}
	return NewComplexity(
		mol.NumBridgeheadAtoms(),
		mol.NumSpiroAtoms(),
		len(mol.ChiralCenters(true)),
		macrocycles,
		mol.NumHeavyAtoms(),
	)
}

// NewComplexity computes the penalty terms from raw structural counts.
// Negative inputs are treated as zero.
func NewComplexity(bridgeheads, spiro, stereocenters, macrocycles, heavyAtoms int) Complexity {
	c := Complexity{
		Bridgeheads:   nonNegative(bridgeheads),
		SpiroAtoms:    nonNegative(spiro),
		Stereocenters: nonNegative(stereocenters),
		Macrocycles:   nonNegative(macrocycles),
		HeavyAtoms:    nonNegative(heavyAtoms),
	}
	c.RingTerm = math.Log(float64(c.Bridgeheads)+1) + math.Log(float64(c.SpiroAtoms)+1)
	c.StereoTerm = math.Log(float64(c.Stereocenters) + 1)
	c.MacrocycleTerm = math.Log(float64(c.Macrocycles) + 1)
	c.SizeTerm = SizePenalty(c.HeavyAtoms)
	c.Total = c.RingTerm + c.StereoTerm + c.MacrocycleTerm + c.SizeTerm
	return c
}

// SizePenalty is heavyAtoms^1.005 - heavyAtoms, non-decreasing in heavyAtoms.
func SizePenalty(heavyAtoms int) float64 {
	x := float64(nonNegative(heavyAtoms))
	return math.Pow(x, 1.005) - x
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

//Personal.AI order the ending
