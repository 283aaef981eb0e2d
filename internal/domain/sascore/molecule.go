// Package sascore implements synthetic accessibility scoring: corpus fragment
// statistics, the per-fragment contribution model derived from them, the
// structural complexity penalty, and the final score on the (1, 10) scale.
//
// Everything in this package is a pure function over immutable inputs.  A
// ContributionModel is built once and shared read-only by any number of
// concurrent scoring calls.
package sascore

// FingerprintRadius is the neighbourhood radius, in bonds, of the circular
// fingerprint used to enumerate fragments.
const FingerprintRadius = 2

// Molecule is the view of a molecular graph the scorer needs.  It is
// implemented by *chem.Molecule; the scorer never mutates it.
type Molecule interface {
	// MorganCounts returns the count-based circular fingerprint out to
	// radius bond shells.
	MorganCounts(radius int) (map[uint32]int, error)

	// AtomRings returns the smallest set of smallest rings as atom lists.
	AtomRings() [][]int

	// NumHeavyAtoms counts non-hydrogen atoms.
	NumHeavyAtoms() int

	// ChiralCenters lists tetrahedral stereocenters, including untagged
	// potential centers when includeUnassigned is set.
	ChiralCenters(includeUnassigned bool) []int

	NumBridgeheadAtoms() int
	NumSpiroAtoms() int
}

//Personal.AI order the ending
