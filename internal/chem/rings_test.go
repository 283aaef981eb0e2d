package chem

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ringSizes(m *Molecule) []int {
	var sizes []int
	for _, r := range m.AtomRings() {
		sizes = append(sizes, len(r))
	}
	sort.Ints(sizes)
	return sizes
}

func TestAtomRings(t *testing.T) {
	tests := []struct {
		name   string
		smiles string
		want   []int
	}{
		{"propane", "CCC", nil},
		{"cyclopropane", "C1CC1", []int{3}},
		{"cyclohexane", "C1CCCCC1", []int{6}},
		{"benzene", "c1ccccc1", []int{6}},
		{"naphthalene", "c1ccc2ccccc2c1", []int{6, 6}},
		{"norbornane", "C1CC2CCC1C2", []int{5, 5}},
		{"spirodecane", "C1CCC2(C1)CCCCC2", []int{5, 6}},
		{"cyclododecane", "C1CCCCCCCCCCC1", []int{12}},
		{"two_fragments", "C1CC1.C1CCC1", []int{3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MustParseSMILES(tt.smiles)
			assert.Equal(t, tt.want, ringSizes(m))
			assert.Equal(t, len(tt.want), m.NumRings())
		})
	}
}

func TestAtomRings_RingOrder(t *testing.T) {
	m := MustParseSMILES("C1CCCCC1")
	rings := m.AtomRings()
	require.Len(t, rings, 1)

	ring := rings[0]
	for i := range ring {
		next := ring[(i+1)%len(ring)]
		assert.GreaterOrEqual(t, m.bondBetween(ring[i], next), 0, "atoms %d and %d not bonded", ring[i], next)
	}

	bonds := m.BondRings()
	require.Len(t, bonds, 1)
	assert.Len(t, bonds[0], 6)
}

func TestAtomRings_ReturnsCopy(t *testing.T) {
	m := MustParseSMILES("C1CC1")
	rings := m.AtomRings()
	rings[0][0] = 99
	assert.NotEqual(t, 99, m.AtomRings()[0][0])
}

func TestRingMembership(t *testing.T) {
	m := MustParseSMILES("C1CC1C")
	assert.True(t, m.IsAtomInRing(0))
	assert.True(t, m.IsAtomInRing(2))
	assert.False(t, m.IsAtomInRing(3))
	assert.False(t, m.IsBondInRing(m.bondBetween(2, 3)))
	assert.True(t, m.IsBondInRing(m.bondBetween(0, 2)))
}

func TestNumBridgeheadAtoms(t *testing.T) {
	tests := []struct {
		name   string
		smiles string
		want   int
	}{
		{"acyclic", "CCCC", 0},
		{"benzene", "c1ccccc1", 0},
		{"naphthalene_fused", "c1ccc2ccccc2c1", 0},
		{"norbornane", "C1CC2CCC1C2", 2},
		{"spirodecane", "C1CCC2(C1)CCCCC2", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParseSMILES(tt.smiles).NumBridgeheadAtoms())
		})
	}
}

func TestNumSpiroAtoms(t *testing.T) {
	tests := []struct {
		name   string
		smiles string
		want   int
	}{
		{"acyclic", "CCCC", 0},
		{"naphthalene_fused", "c1ccc2ccccc2c1", 0},
		{"norbornane", "C1CC2CCC1C2", 0},
		{"spirodecane", "C1CCC2(C1)CCCCC2", 1},
		{"dispiro", "C1CC12CC23CC3", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParseSMILES(tt.smiles).NumSpiroAtoms())
		})
	}
}

func TestIntersect(t *testing.T) {
	assert.Equal(t, []int{2, 5}, intersect([]int{1, 2, 5, 7}, []int{2, 3, 5}))
	assert.Nil(t, intersect([]int{1}, []int{2}))
}

//Personal.AI order the ending
