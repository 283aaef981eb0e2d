package chem

// BondOrder is the bond type code.  Values follow the common cheminformatics
// convention where aromatic bonds carry code 12.
type BondOrder uint8

const (
	BondSingle    BondOrder = 1
	BondDouble    BondOrder = 2
	BondTriple    BondOrder = 3
	BondQuadruple BondOrder = 4
	BondAromatic  BondOrder = 12
)

// valence returns the bond's contribution to an atom's explicit valence.
// Aromatic bonds count as one; the aromatic atom's extra electron is
// accounted for separately when hydrogens are assigned.
func (o BondOrder) valence() int {
	switch o {
	case BondDouble:
		return 2
	case BondTriple:
		return 3
	case BondQuadruple:
		return 4
	default:
		return 1
	}
}

// Chirality is the tetrahedral tag written in the SMILES string.
type Chirality uint8

const (
	ChiralNone Chirality = iota
	// ChiralCCW is "@": anticlockwise looking from the first neighbour.
	ChiralCCW
	// ChiralCW is "@@".
	ChiralCW
)

// Atom is one node of the molecular graph.
type Atom struct {
	Element      string
	AtomicNumber int
	Isotope      int
	Charge       int
	Aromatic     bool
	Chirality    Chirality
	Class        int

	// ExplicitH is the hydrogen count written in a bracket atom, plus any
	// hydrogen atoms folded into this atom after parsing.
	ExplicitH int
	// ImplicitH is derived from default valences for organic-subset atoms.
	ImplicitH int

	bracket bool
}

// TotalH returns explicit plus implicit hydrogens.
func (a Atom) TotalH() int {
	return a.ExplicitH + a.ImplicitH
}

// IsHeavy reports whether the atom is anything other than hydrogen.  The
// wildcard atom "*" counts as heavy.
func (a Atom) IsHeavy() bool {
	return a.AtomicNumber != 1
}

// Bond is an undirected edge between two atoms.
type Bond struct {
	Begin int
	End   int
	Order BondOrder
}

// Other returns the atom at the opposite end of the bond from atom.
func (b Bond) Other(atom int) int {
	if b.Begin == atom {
		return b.End
	}
	return b.Begin
}

// elementSymbols lists symbols in atomic-number order starting at H.
var elementSymbols = []string{
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd",
	"In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba", "La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy",
	"Ho", "Er", "Tm", "Yb", "Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt",
	"Au", "Hg", "Tl", "Pb", "Bi", "Po", "At", "Rn",
	"Fr", "Ra", "Ac", "Th", "Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf",
	"Es", "Fm", "Md", "No", "Lr",
}

var atomicNumbers = func() map[string]int {
	m := make(map[string]int, len(elementSymbols))
	for i, s := range elementSymbols {
		m[s] = i + 1
	}
	return m
}()

// defaultValences are the allowed valences of organic-subset atoms, in
// increasing order.
var defaultValences = map[int][]int{
	5:  {3},       // B
	6:  {4},       // C
	7:  {3, 5},    // N
	8:  {2},       // O
	9:  {1},       // F
	15: {3, 5},    // P
	16: {2, 4, 6}, // S
	17: {1},       // Cl
	35: {1},       // Br
	53: {1},       // I
}

// implicitHydrogens returns the hydrogen count of an organic-subset atom
// with the given explicit valence.
func implicitHydrogens(atomicNumber, explicitValence int, aromatic bool) int {
	vals, ok := defaultValences[atomicNumber]
	if !ok {
		return 0
	}
	used := explicitValence
	if aromatic {
		// One extra bond for the delocalised electron, and only the lowest
		// valence: aromatic s stays S(II).
		used++
		if vals[0] < used {
			return 0
		}
		return vals[0] - used
	}
	for _, v := range vals {
		if v >= used {
			return v - used
		}
	}
	return 0
}

//Personal.AI order the ending
