package sascore

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewComplexity_Zero(t *testing.T) {
	c := NewComplexity(0, 0, 0, 0, 0)
	assert.Equal(t, 0.0, c.RingTerm)
	assert.Equal(t, 0.0, c.StereoTerm)
	assert.Equal(t, 0.0, c.MacrocycleTerm)
	assert.Equal(t, 0.0, c.SizeTerm)
	assert.Equal(t, 0.0, c.Total)
}

func TestNewComplexity_Terms(t *testing.T) {
	c := NewComplexity(2, 1, 3, 1, 20)

	assert.InDelta(t, math.Log(3)+math.Log(2), c.RingTerm, 1e-12)
	assert.InDelta(t, math.Log(4), c.StereoTerm, 1e-12)
	assert.InDelta(t, math.Log(2), c.MacrocycleTerm, 1e-12)
	assert.InDelta(t, math.Pow(20, 1.005)-20, c.SizeTerm, 1e-12)
	assert.InDelta(t, c.RingTerm+c.StereoTerm+c.MacrocycleTerm+c.SizeTerm, c.Total, 1e-12)
}

func TestNewComplexity_NegativeInputsClamped(t *testing.T) {
	c := NewComplexity(-1, -2, -3, -4, -5)
	assert.Equal(t, NewComplexity(0, 0, 0, 0, 0), c)
}

func TestSizePenalty_NonDecreasing(t *testing.T) {
	prev := SizePenalty(0)
	assert.Equal(t, 0.0, prev)
	assert.Equal(t, 0.0, SizePenalty(1))
	for n := 1; n <= 500; n++ {
		cur := SizePenalty(n)
		assert.GreaterOrEqual(t, cur, prev, "n=%d", n)
		prev = cur
	}
	assert.Greater(t, SizePenalty(100), 0.0)
}

func TestEvaluateComplexity(t *testing.T) {
	mol := &fakeMolecule{
		rings:       [][]int{make([]int, 6), make([]int, 8), make([]int, 9), make([]int, 14)},
		heavy:       30,
		chiral:      []int{1, 4},
		bridgeheads: 2,
		spiro:       1,
	}
	c := EvaluateComplexity(mol)

	assert.True(t, mol.unassignedSeen, "stereocenters must include unassigned centers")
	assert.Equal(t, 2, c.Macrocycles)
	assert.Equal(t, 2, c.Stereocenters)
	assert.Equal(t, 2, c.Bridgeheads)
	assert.Equal(t, 1, c.SpiroAtoms)
	assert.Equal(t, 30, c.HeavyAtoms)
	assert.Equal(t, NewComplexity(2, 1, 2, 2, 30), c)
}

//Personal.AI order the ending
