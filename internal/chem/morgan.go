package chem

import (
	"encoding/binary"
	"sort"

	"github.com/bits-and-blooms/bitset"
	"github.com/cespare/xxhash/v2"

	"github.com/turtacn/SAScore/pkg/errors"
)

// MorganCounts returns the count-based circular fingerprint of the molecule
// out to radius bond shells.  Keys are 32-bit environment identifiers; values
// are the number of distinct environments with that identifier.
//
// Layer 0 contributes one identifier per atom.  At each further layer an
// atom's identifier is rehashed from its previous identifier and its
// neighbours' (bond order, identifier) pairs.  An environment is counted only
// if its bond set is new: atoms whose environment stopped growing are
// retired, and environments covering a bond set already seen are skipped.
func (m *Molecule) MorganCounts(radius int) (map[uint32]int, error) {
	if radius < 0 {
		return nil, errors.Newf(errors.CodeFingerprintFailed, "fingerprint radius must be >= 0, got %d", radius)
	}

	n := len(m.atoms)
	counts := make(map[uint32]int)
	if n == 0 {
		return counts, nil
	}

	ring := m.ringData()
	ids := make([]uint32, n)
	for i, a := range m.atoms {
		ids[i] = hashInts(a.AtomicNumber, len(m.adj[i]), a.TotalH(), a.Charge, a.Isotope, boolInt(ring.atomInRing[i]))
		counts[ids[i]]++
	}

	envs := make([]*bitset.BitSet, n)
	for i := range envs {
		envs[i] = bitset.New(uint(len(m.bonds)))
	}
	alive := make([]bool, n)
	for i := range alive {
		alive[i] = true
	}
	seen := make(map[string]bool)

	type environment struct {
		key string
		id  uint32
	}

	for layer := 1; layer <= radius; layer++ {
		nextIDs := make([]uint32, n)
		nextEnvs := make([]*bitset.BitSet, n)
		var layerEnvs []environment

		for i := 0; i < n; i++ {
			if !alive[i] {
				nextIDs[i] = ids[i]
				nextEnvs[i] = envs[i]
				continue
			}

			env := envs[i].Clone()
			for _, nb := range m.adj[i] {
				env.InPlaceUnion(envs[nb.atom])
				env.Set(uint(nb.bond))
			}

			vals := make([]uint32, 0, 2+2*len(m.adj[i]))
			vals = append(vals, uint32(layer), ids[i])
			vals = append(vals, sortedNeighborPairs(m, i, func(j int) uint32 { return ids[j] })...)
			nextIDs[i] = hashUint32s(vals)
			nextEnvs[i] = env

			if env.Equal(envs[i]) {
				alive[i] = false
				continue
			}
			layerEnvs = append(layerEnvs, environment{key: env.String(), id: nextIDs[i]})
		}

		sort.Slice(layerEnvs, func(a, b int) bool {
			if layerEnvs[a].key != layerEnvs[b].key {
				return layerEnvs[a].key < layerEnvs[b].key
			}
			return layerEnvs[a].id < layerEnvs[b].id
		})
		for _, e := range layerEnvs {
			if seen[e.key] {
				continue
			}
			seen[e.key] = true
			counts[e.id]++
		}

		ids, envs = nextIDs, nextEnvs
	}
	return counts, nil
}

// hashUint32s hashes the little-endian encoding of vals with xxhash and
// folds the result to 32 bits.
func hashUint32s(vals []uint32) uint32 {
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[4*i:], v)
	}
	h := xxhash.Sum64(buf)
	return uint32(h) ^ uint32(h>>32)
}

func hashInts(vals ...int) uint32 {
	u := make([]uint32, len(vals))
	for i, v := range vals {
		u[i] = uint32(int32(v))
	}
	return hashUint32s(u)
}

//Personal.AI order the ending
