package chem

import (
	"sort"
)

// ChiralCenters returns the indices of tetrahedral stereocenters in ascending
// order.  An atom qualifies when it has four distinct substituents (one of
// which may be an implicit hydrogen) joined by single bonds.  With
// includeUnassigned false only centers carrying an @/@@ tag are returned;
// with true, untagged potential centers are included as well.  Tags on atoms
// that cannot be stereocenters are ignored.
func (m *Molecule) ChiralCenters(includeUnassigned bool) []int {
	classes := m.symmetryClasses()
	var out []int
	for i, a := range m.atoms {
		if a.Chirality == ChiralNone && !includeUnassigned {
			continue
		}
		if m.isStereoCandidate(i, classes) {
			out = append(out, i)
		}
	}
	return out
}

func (m *Molecule) isStereoCandidate(i int, classes []int) bool {
	a := m.atoms[i]
	h := a.TotalH()
	if len(m.adj[i])+h != 4 || h > 1 {
		return false
	}

	seen := make(map[int]bool, 4)
	if h == 1 {
		seen[-1] = true
	}
	for _, nb := range m.adj[i] {
		if m.bonds[nb.bond].Order != BondSingle {
			return false
		}
		c := classes[nb.atom]
		if seen[c] {
			return false
		}
		seen[c] = true
	}
	return true
}

// symmetryClasses partitions atoms into topological equivalence classes by
// iterative refinement of atom invariants.  Equal classes mean the atoms are
// indistinguishable from the graph alone.
func (m *Molecule) symmetryClasses() []int {
	n := len(m.atoms)
	keys := make([][2]uint32, n)
	for i, a := range m.atoms {
		keys[i] = [2]uint32{0, hashInts(a.AtomicNumber, len(m.adj[i]), a.TotalH(), a.Charge, a.Isotope, boolInt(a.Aromatic))}
	}
	classes, count := denseRanks(keys)

	for iter := 0; iter < n; iter++ {
		for i := range m.atoms {
			vals := make([]uint32, 0, 1+2*len(m.adj[i]))
			vals = append(vals, uint32(classes[i]))
			vals = append(vals, sortedNeighborPairs(m, i, func(j int) uint32 { return uint32(classes[j]) })...)
			keys[i] = [2]uint32{uint32(classes[i]), hashUint32s(vals)}
		}
		next, nextCount := denseRanks(keys)
		if nextCount == count {
			break
		}
		classes, count = next, nextCount
	}
	return classes
}

// denseRanks maps each key to its rank among the distinct keys.
func denseRanks(keys [][2]uint32) ([]int, int) {
	distinct := make([][2]uint32, 0, len(keys))
	index := make(map[[2]uint32]int, len(keys))
	for _, k := range keys {
		if _, ok := index[k]; !ok {
			index[k] = 0
			distinct = append(distinct, k)
		}
	}
	sort.Slice(distinct, func(i, j int) bool {
		if distinct[i][0] != distinct[j][0] {
			return distinct[i][0] < distinct[j][0]
		}
		return distinct[i][1] < distinct[j][1]
	})
	for r, k := range distinct {
		index[k] = r
	}
	ranks := make([]int, len(keys))
	for i, k := range keys {
		ranks[i] = index[k]
	}
	return ranks, len(distinct)
}

// sortedNeighborPairs returns the flattened, sorted (bond order, label)
// pairs of atom i's neighbours.
func sortedNeighborPairs(m *Molecule, i int, label func(int) uint32) []uint32 {
	pairs := make([][2]uint32, 0, len(m.adj[i]))
	for _, nb := range m.adj[i] {
		pairs = append(pairs, [2]uint32{uint32(m.bonds[nb.bond].Order), label(nb.atom)})
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a][0] != pairs[b][0] {
			return pairs[a][0] < pairs[b][0]
		}
		return pairs[a][1] < pairs[b][1]
	})
	out := make([]uint32, 0, 2*len(pairs))
	for _, p := range pairs {
		out = append(out, p[0], p[1])
	}
	return out
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

//Personal.AI order the ending
