// Package chem is the cheminformatics toolkit behind the SA scorer.  It parses
// SMILES into an immutable molecular graph and derives the structural facts
// the scorer consumes: circular (Morgan) fragment counts, the smallest set of
// smallest rings, bridgehead and spiro atoms, and tetrahedral stereocenters.
//
// A *Molecule is never modified after ParseSMILES returns.  Derived ring data
// is computed lazily once, so a Molecule may be shared between goroutines.
package chem

import (
	"sort"
	"sync"
)

type neighbor struct {
	atom int
	bond int
}

// Molecule is a parsed molecular graph with hydrogens folded into their
// heavy-atom owners.
type Molecule struct {
	smiles string
	atoms  []Atom
	bonds  []Bond
	adj    [][]neighbor

	ringsOnce sync.Once
	rings     *ringInfo
}

func newMolecule(smiles string, atoms []Atom, bonds []Bond) *Molecule {
	m := &Molecule{
		smiles: smiles,
		atoms:  atoms,
		bonds:  bonds,
		adj:    make([][]neighbor, len(atoms)),
	}
	for i, b := range bonds {
		m.adj[b.Begin] = append(m.adj[b.Begin], neighbor{atom: b.End, bond: i})
		m.adj[b.End] = append(m.adj[b.End], neighbor{atom: b.Begin, bond: i})
	}
	for i := range m.adj {
		nbrs := m.adj[i]
		sort.Slice(nbrs, func(a, b int) bool { return nbrs[a].atom < nbrs[b].atom })
	}
	return m
}

// SMILES returns the input string the molecule was parsed from.
func (m *Molecule) SMILES() string { return m.smiles }

// NumAtoms returns the number of graph atoms (hydrogens folded away).
func (m *Molecule) NumAtoms() int { return len(m.atoms) }

// NumBonds returns the number of graph bonds.
func (m *Molecule) NumBonds() int { return len(m.bonds) }

// Atom returns a copy of atom i.
func (m *Molecule) Atom(i int) Atom { return m.atoms[i] }

// Bond returns a copy of bond i.
func (m *Molecule) Bond(i int) Bond { return m.bonds[i] }

// Degree returns the number of explicit graph neighbours of atom i.
func (m *Molecule) Degree(i int) int { return len(m.adj[i]) }

// Neighbors returns the neighbour atom indices of atom i in ascending order.
func (m *Molecule) Neighbors(i int) []int {
	out := make([]int, len(m.adj[i]))
	for k, n := range m.adj[i] {
		out[k] = n.atom
	}
	return out
}

// NumHeavyAtoms counts non-hydrogen atoms.
func (m *Molecule) NumHeavyAtoms() int {
	n := 0
	for _, a := range m.atoms {
		if a.IsHeavy() {
			n++
		}
	}
	return n
}

// bondBetween returns the index of the bond joining a and b, or -1.
func (m *Molecule) bondBetween(a, b int) int {
	for _, n := range m.adj[a] {
		if n.atom == b {
			return n.bond
		}
	}
	return -1
}

// numComponents counts connected components.
func (m *Molecule) numComponents() int {
	seen := make([]bool, len(m.atoms))
	components := 0
	stack := make([]int, 0, len(m.atoms))
	for start := range m.atoms {
		if seen[start] {
			continue
		}
		components++
		seen[start] = true
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, n := range m.adj[cur] {
				if !seen[n.atom] {
					seen[n.atom] = true
					stack = append(stack, n.atom)
				}
			}
		}
	}
	return components
}

func (m *Molecule) ringData() *ringInfo {
	m.ringsOnce.Do(func() {
		m.rings = perceiveRings(m)
	})
	return m.rings
}

//Personal.AI order the ending
