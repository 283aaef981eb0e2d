package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SAScore/pkg/errors"
)

func TestParseSMILES_Ethanol(t *testing.T) {
	m, err := ParseSMILES("CCO")
	require.NoError(t, err)

	assert.Equal(t, "CCO", m.SMILES())
	assert.Equal(t, 3, m.NumAtoms())
	assert.Equal(t, 2, m.NumBonds())
	assert.Equal(t, 3, m.NumHeavyAtoms())

	assert.Equal(t, "C", m.Atom(0).Element)
	assert.Equal(t, 6, m.Atom(0).AtomicNumber)
	assert.Equal(t, 3, m.Atom(0).TotalH())
	assert.Equal(t, 2, m.Atom(1).TotalH())
	assert.Equal(t, "O", m.Atom(2).Element)
	assert.Equal(t, 1, m.Atom(2).TotalH())
	assert.Equal(t, []int{0, 2}, m.Neighbors(1))
}

func TestParseSMILES_Hydrogens(t *testing.T) {
	tests := []struct {
		smiles string
		atom   int
		wantH  int
	}{
		{"C", 0, 4},
		{"C=C", 0, 2},
		{"C#N", 0, 1},
		{"C#N", 1, 0},
		{"C(=O)O", 0, 1},
		{"c1ccccc1", 0, 1},
		{"c1ccncc1", 3, 0},
		{"[nH]1cccc1", 0, 1},
		{"CS(=O)(=O)C", 1, 0},
		{"[NH4+]", 0, 4},
		{"[CH3]", 0, 3},
		{"[C]", 0, 0},
		{"ClCCl", 1, 2},
		{"BrC", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.smiles, func(t *testing.T) {
			m, err := ParseSMILES(tt.smiles)
			require.NoError(t, err)
			assert.Equal(t, tt.wantH, m.Atom(tt.atom).TotalH())
		})
	}
}

func TestParseSMILES_AromaticHeteroatomHydrogens(t *testing.T) {
	tests := []struct {
		smiles string
		wantH  []int
	}{
		{"c1ccsc1", []int{1, 1, 1, 0, 1}},
		{"c1ccoc1", []int{1, 1, 1, 0, 1}},
		{"c1ccncc1", []int{1, 1, 1, 0, 1, 1}},
		{"c1cc[nH]c1", []int{1, 1, 1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.smiles, func(t *testing.T) {
			m, err := ParseSMILES(tt.smiles)
			require.NoError(t, err)
			got := make([]int, m.NumAtoms())
			for i := range got {
				got[i] = m.Atom(i).TotalH()
			}
			assert.Equal(t, tt.wantH, got)
		})
	}
}

func TestParseSMILES_AromaticBonds(t *testing.T) {
	m, err := ParseSMILES("c1ccccc1")
	require.NoError(t, err)
	require.Equal(t, 6, m.NumBonds())
	for i := 0; i < m.NumBonds(); i++ {
		assert.Equal(t, BondAromatic, m.Bond(i).Order)
	}
	assert.True(t, m.Atom(0).Aromatic)

	biphenyl, err := ParseSMILES("c1ccccc1-c1ccccc1")
	require.NoError(t, err)
	assert.Equal(t, BondSingle, biphenyl.Bond(biphenyl.bondBetween(5, 6)).Order)
}

func TestParseSMILES_BondSymbols(t *testing.T) {
	tests := []struct {
		smiles string
		want   BondOrder
	}{
		{"CC", BondSingle},
		{"C-C", BondSingle},
		{"C=C", BondDouble},
		{"C#C", BondTriple},
		{"[Rh]$[Rh]", BondQuadruple},
		{"C:C", BondAromatic},
		{"F/C", BondSingle},
		{`F\C`, BondSingle},
	}
	for _, tt := range tests {
		t.Run(tt.smiles, func(t *testing.T) {
			m, err := ParseSMILES(tt.smiles)
			require.NoError(t, err)
			require.Equal(t, 1, m.NumBonds())
			assert.Equal(t, tt.want, m.Bond(0).Order)
		})
	}
}

func TestParseSMILES_BracketAtoms(t *testing.T) {
	m, err := ParseSMILES("[13CH4]")
	require.NoError(t, err)
	a := m.Atom(0)
	assert.Equal(t, 13, a.Isotope)
	assert.Equal(t, 4, a.ExplicitH)
	assert.Equal(t, 0, a.ImplicitH)

	m, err = ParseSMILES("[O-]C(=O)C")
	require.NoError(t, err)
	assert.Equal(t, -1, m.Atom(0).Charge)

	m, err = ParseSMILES("[Fe+++]")
	require.NoError(t, err)
	assert.Equal(t, 3, m.Atom(0).Charge)

	m, err = ParseSMILES("[Cu+2]")
	require.NoError(t, err)
	assert.Equal(t, 2, m.Atom(0).Charge)
	assert.Equal(t, 29, m.Atom(0).AtomicNumber)

	m, err = ParseSMILES("[CH3:7]C")
	require.NoError(t, err)
	assert.Equal(t, 7, m.Atom(0).Class)

	m, err = ParseSMILES("[se]1cccc1")
	require.NoError(t, err)
	assert.Equal(t, "Se", m.Atom(0).Element)
	assert.True(t, m.Atom(0).Aromatic)
}

func TestParseSMILES_Chirality(t *testing.T) {
	m, err := ParseSMILES("N[C@@H](C)C(=O)O")
	require.NoError(t, err)
	assert.Equal(t, ChiralCW, m.Atom(1).Chirality)
	assert.Equal(t, 1, m.Atom(1).TotalH())

	m, err = ParseSMILES("N[C@H](C)C(=O)O")
	require.NoError(t, err)
	assert.Equal(t, ChiralCCW, m.Atom(1).Chirality)

	m, err = ParseSMILES("F[C@TH1](Cl)(Br)I")
	require.NoError(t, err)
	assert.Equal(t, ChiralCCW, m.Atom(1).Chirality)
}

func TestParseSMILES_RingClosures(t *testing.T) {
	m, err := ParseSMILES("C%10CC%10")
	require.NoError(t, err)
	assert.Equal(t, 3, m.NumAtoms())
	assert.Equal(t, 3, m.NumBonds())

	m, err = ParseSMILES("C=1CCCCC1")
	require.NoError(t, err)
	assert.Equal(t, BondDouble, m.Bond(m.bondBetween(0, 5)).Order)

	// a ring number may be reused once closed
	m, err = ParseSMILES("C1CC1C1CC1")
	require.NoError(t, err)
	assert.Equal(t, 6, m.NumAtoms())
	assert.Equal(t, 7, m.NumBonds())
}

func TestParseSMILES_Disconnected(t *testing.T) {
	m, err := ParseSMILES("[Na+].[Cl-]")
	require.NoError(t, err)
	assert.Equal(t, 2, m.NumAtoms())
	assert.Equal(t, 0, m.NumBonds())
	assert.Equal(t, 2, m.numComponents())
}

func TestParseSMILES_TitleIgnored(t *testing.T) {
	m, err := ParseSMILES("  CCO ethanol ")
	require.NoError(t, err)
	assert.Equal(t, "CCO", m.SMILES())
	assert.Equal(t, 3, m.NumAtoms())
}

func TestParseSMILES_FoldsExplicitHydrogens(t *testing.T) {
	m, err := ParseSMILES("[H]C([H])([H])[H]")
	require.NoError(t, err)
	assert.Equal(t, 1, m.NumAtoms())
	assert.Equal(t, 0, m.NumBonds())
	assert.Equal(t, 4, m.Atom(0).TotalH())

	m, err = ParseSMILES("[H]OC")
	require.NoError(t, err)
	assert.Equal(t, 2, m.NumAtoms())
	assert.Equal(t, 1, m.Atom(0).TotalH())

	// molecular hydrogen and isotopic hydrogen stay as atoms
	m, err = ParseSMILES("[H][H]")
	require.NoError(t, err)
	assert.Equal(t, 2, m.NumAtoms())
	assert.Equal(t, 0, m.NumHeavyAtoms())

	m, err = ParseSMILES("[2H]C")
	require.NoError(t, err)
	assert.Equal(t, 2, m.NumAtoms())
}

func TestParseSMILES_Errors(t *testing.T) {
	tests := []struct {
		name   string
		smiles string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"unknown_char", "CX"},
		{"unknown_element", "[Xx]"},
		{"unterminated_bracket", "[CH4"},
		{"unclosed_ring", "C1CC"},
		{"unbalanced_open", "C(C"},
		{"unbalanced_close", "C)C"},
		{"dangling_bond", "CC="},
		{"leading_bond", "=C"},
		{"double_bond_symbol", "C=#C"},
		{"self_bond", "C11"},
		{"duplicate_bond", "C12CC12"},
		{"branch_first", "(C)C"},
		{"bad_percent", "C%1CC%1"},
		{"trailing_garbage_in_bracket", "[C+x]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseSMILES(tt.smiles)
			require.Error(t, err)
			assert.Nil(t, m)
			assert.True(t, errors.IsCode(err, errors.CodeMoleculeParseFailed), "got %v", err)
		})
	}
}

func TestMustParseSMILES_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParseSMILES("C1") })
	assert.NotPanics(t, func() { MustParseSMILES("C1CC1") })
}

//Personal.AI order the ending
