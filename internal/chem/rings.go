package chem

import (
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// ringInfo is the smallest set of smallest rings of a molecule.  atomRings[i]
// and bondRings[i] describe the same ring; atoms are listed in ring order.
type ringInfo struct {
	atomRings  [][]int
	bondRings  [][]int
	atomInRing []bool
	bondInRing []bool
}

type ringCandidate struct {
	atoms []int
	bonds []int
	edges *bitset.BitSet
	key   string
}

// perceiveRings computes the SSSR with Horton's algorithm: every shortest
// path pair closed by one edge is a candidate cycle, and candidates are
// accepted in order of size while they stay linearly independent over GF(2).
func perceiveRings(m *Molecule) *ringInfo {
	info := &ringInfo{
		atomInRing: make([]bool, len(m.atoms)),
		bondInRing: make([]bool, len(m.bonds)),
	}

	rank := len(m.bonds) - len(m.atoms) + m.numComponents()
	if rank <= 0 {
		return info
	}

	candidates := hortonCandidates(m)
	rows := make(map[uint]*bitset.BitSet, rank)

	for _, c := range candidates {
		if len(info.atomRings) == rank {
			break
		}
		if !addIndependent(rows, c.edges) {
			continue
		}
		info.atomRings = append(info.atomRings, c.atoms)
		info.bondRings = append(info.bondRings, c.bonds)
		for _, a := range c.atoms {
			info.atomInRing[a] = true
		}
		for _, b := range c.bonds {
			info.bondInRing[b] = true
		}
	}
	return info
}

// addIndependent reduces v against the echelon rows keyed by pivot (lowest set
// bit).  It returns false when v reduces to zero, otherwise stores the reduced
// vector as a new row.
func addIndependent(rows map[uint]*bitset.BitSet, v *bitset.BitSet) bool {
	r := v.Clone()
	for {
		pivot, ok := r.NextSet(0)
		if !ok {
			return false
		}
		row, taken := rows[pivot]
		if !taken {
			rows[pivot] = r
			return true
		}
		r.InPlaceSymmetricDifference(row)
	}
}

func hortonCandidates(m *Molecule) []ringCandidate {
	n := len(m.atoms)
	seen := make(map[string]bool)
	var out []ringCandidate

	parent := make([]int, n)
	parentBond := make([]int, n)
	onPath := make([]bool, n)

	for root := 0; root < n; root++ {
		shortestPathTree(m, root, parent, parentBond)

		for bi, b := range m.bonds {
			x, y := b.Begin, b.End
			if parent[x] == -2 || parent[y] == -2 {
				continue
			}
			px := pathToRoot(x, parent)
			py := pathToRoot(y, parent)

			for _, a := range px {
				onPath[a] = true
			}
			disjoint := true
			for _, a := range py[:len(py)-1] {
				if onPath[a] {
					disjoint = false
					break
				}
			}
			for _, a := range px {
				onPath[a] = false
			}
			if !disjoint || len(px)+len(py)-1 < 3 {
				continue
			}

			edges := bitset.New(uint(len(m.bonds)))
			bonds := make([]int, 0, len(px)+len(py)-1)
			for _, p := range [][]int{px, py} {
				for _, a := range p[:len(p)-1] {
					edges.Set(uint(parentBond[a]))
					bonds = append(bonds, parentBond[a])
				}
			}
			edges.Set(uint(bi))
			bonds = append(bonds, bi)

			key := edges.String()
			if seen[key] {
				continue
			}
			seen[key] = true

			atoms := make([]int, 0, len(px)+len(py)-1)
			for i := len(px) - 1; i >= 0; i-- {
				atoms = append(atoms, px[i])
			}
			atoms = append(atoms, py[:len(py)-1]...)
			sort.Ints(bonds)

			out = append(out, ringCandidate{atoms: atoms, bonds: bonds, edges: edges, key: key})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i].bonds) != len(out[j].bonds) {
			return len(out[i].bonds) < len(out[j].bonds)
		}
		return out[i].key < out[j].key
	})
	return out
}

// shortestPathTree fills parent and parentBond with a BFS tree rooted at
// root.  Unreached atoms get parent -2; the root gets -1.
func shortestPathTree(m *Molecule, root int, parent, parentBond []int) {
	for i := range parent {
		parent[i] = -2
		parentBond[i] = -1
	}
	parent[root] = -1
	queue := []int{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range m.adj[cur] {
			if parent[nb.atom] != -2 {
				continue
			}
			parent[nb.atom] = cur
			parentBond[nb.atom] = nb.bond
			queue = append(queue, nb.atom)
		}
	}
}

// pathToRoot returns [atom, parent(atom), ..., root].
func pathToRoot(atom int, parent []int) []int {
	path := []int{atom}
	for parent[atom] >= 0 {
		atom = parent[atom]
		path = append(path, atom)
	}
	return path
}

// AtomRings returns the SSSR as lists of atom indices in ring order.
func (m *Molecule) AtomRings() [][]int {
	return copyRings(m.ringData().atomRings)
}

// BondRings returns the SSSR as sorted lists of bond indices, parallel to
// AtomRings.
func (m *Molecule) BondRings() [][]int {
	return copyRings(m.ringData().bondRings)
}

// NumRings returns the size of the SSSR.
func (m *Molecule) NumRings() int {
	return len(m.ringData().atomRings)
}

// IsAtomInRing reports whether atom i belongs to any ring.
func (m *Molecule) IsAtomInRing(i int) bool {
	return m.ringData().atomInRing[i]
}

// IsBondInRing reports whether bond i belongs to any ring.
func (m *Molecule) IsBondInRing(i int) bool {
	return m.ringData().bondInRing[i]
}

// NumBridgeheadAtoms counts atoms shared by two rings that share more than
// one bond, where the atom terminates the shared bond path.
func (m *Molecule) NumBridgeheadAtoms() int {
	rings := m.ringData().bondRings
	bridgeheads := make(map[int]bool)

	for i := 0; i < len(rings); i++ {
		for j := i + 1; j < len(rings); j++ {
			shared := intersect(rings[i], rings[j])
			if len(shared) < 2 {
				continue
			}
			occurrences := make(map[int]int)
			for _, b := range shared {
				occurrences[m.bonds[b].Begin]++
				occurrences[m.bonds[b].End]++
			}
			for atom, n := range occurrences {
				if n == 1 {
					bridgeheads[atom] = true
				}
			}
		}
	}
	return len(bridgeheads)
}

// NumSpiroAtoms counts atoms that are the only atom shared by a pair of rings.
func (m *Molecule) NumSpiroAtoms() int {
	rings := m.ringData().atomRings
	sorted := make([][]int, len(rings))
	for i, r := range rings {
		s := append([]int(nil), r...)
		sort.Ints(s)
		sorted[i] = s
	}

	spiro := make(map[int]bool)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			shared := intersect(sorted[i], sorted[j])
			if len(shared) == 1 {
				spiro[shared[0]] = true
			}
		}
	}
	return len(spiro)
}

// intersect returns the common elements of two ascending slices.
func intersect(a, b []int) []int {
	var out []int
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

func copyRings(in [][]int) [][]int {
	out := make([][]int, len(in))
	for i, r := range in {
		out[i] = append([]int(nil), r...)
	}
	return out
}

//Personal.AI order the ending
