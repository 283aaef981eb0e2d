package sascore

import (
	"sort"
)

// FragmentID identifies one circular-environment fragment class.
type FragmentID uint32

// FragmentCountTable maps fragments to occurrence counts.  The same type
// serves a single molecule and a whole corpus; a corpus table is the
// pointwise sum of its molecules' tables.
type FragmentCountTable map[FragmentID]int64

// Add increments id by n.  Non-positive n is ignored.
func (t FragmentCountTable) Add(id FragmentID, n int64) {
	if n <= 0 {
		return
	}
	t[id] += n
}

// Merge adds every count of other into t.  Merging is commutative and
// associative, so partial tables may be combined in any order.
func (t FragmentCountTable) Merge(other FragmentCountTable) {
	for id, n := range other {
		t.Add(id, n)
	}
}

// Total returns the sum of all counts.
func (t FragmentCountTable) Total() int64 {
	var total int64
	for _, n := range t {
		total += n
	}
	return total
}

// Clone returns an independent copy of t.
func (t FragmentCountTable) Clone() FragmentCountTable {
	out := make(FragmentCountTable, len(t))
	for id, n := range t {
		out[id] = n
	}
	return out
}

// IDs returns the fragment ids in ascending order.
func (t FragmentCountTable) IDs() []FragmentID {
	ids := make([]FragmentID, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SumTables returns the pointwise sum of tables as a new table.
func SumTables(tables ...FragmentCountTable) FragmentCountTable {
	out := make(FragmentCountTable)
	for _, t := range tables {
		out.Merge(t)
	}
	return out
}

// ExtractFragments returns the fragment counts of mol at FingerprintRadius.
// Only fragments with a nonzero count are present.  Errors from the
// fingerprint engine are returned unchanged.
func ExtractFragments(mol Molecule) (FragmentCountTable, error) {
	return ExtractFragmentsWithRadius(mol, FingerprintRadius)
}

// ExtractFragmentsWithRadius is ExtractFragments with an explicit radius.
func ExtractFragmentsWithRadius(mol Molecule, radius int) (FragmentCountTable, error) {
	raw, err := mol.MorganCounts(radius)
	if err != nil {
		return nil, err
	}
	t := make(FragmentCountTable, len(raw))
	for id, n := range raw {
		t.Add(FragmentID(id), int64(n))
	}
	return t, nil
}

// AggregateFragmentCounts sums the fragment tables of every molecule in
// corpus.  An empty corpus yields an empty table.  The first extraction
// error aborts aggregation and is returned unchanged.
func AggregateFragmentCounts(corpus []Molecule) (FragmentCountTable, error) {
	total := make(FragmentCountTable)
	for _, mol := range corpus {
		t, err := ExtractFragments(mol)
		if err != nil {
			return nil, err
		}
		total.Merge(t)
	}
	return total, nil
}

//Personal.AI order the ending
