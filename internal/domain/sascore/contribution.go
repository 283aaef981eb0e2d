package sascore

import (
	"math"
	"sort"
)

// FrequentFraction is the share of all corpus fragment occurrences the
// frequent fragment set must cover.
const FrequentFraction = 0.8

// ContributionModel maps fragments to contribution scores derived from a
// corpus FragmentCountTable.  It is immutable once built; all methods are
// safe for concurrent use.
type ContributionModel struct {
	counts FragmentCountTable
	scores map[FragmentID]float64
	total  int64
	k      int
}

// BuildContributionModel derives contribution scores from corpus counts.
//
// Fragments are ordered by count descending, ties broken by ascending
// FragmentID, and accumulated until the running sum reaches
// FrequentFraction of the total.  K is the number of fragments accumulated.
// Every fragment in the table, frequent or not, scores ln(count/K).
//
// A table with no positive counts gives an empty model.  If K comes out as
// zero while the total is positive, every score is -Inf and Degenerate
// reports true.
func BuildContributionModel(counts FragmentCountTable) *ContributionModel {
	clean := make(FragmentCountTable, len(counts))
	clean.Merge(counts)

	m := &ContributionModel{
		counts: clean,
		total:  clean.Total(),
	}
	if m.total == 0 {
		m.scores = map[FragmentID]float64{}
		return m
	}
	m.k = frequentSetSize(clean, m.total)
	m.scores = contributionScores(clean, m.k)
	return m
}

// rankFragments orders ids by count descending, then id ascending.
func rankFragments(counts FragmentCountTable) []FragmentID {
	ids := make([]FragmentID, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ci, cj := counts[ids[i]], counts[ids[j]]
		if ci != cj {
			return ci > cj
		}
		return ids[i] < ids[j]
	})
	return ids
}

// frequentSetSize returns K, or 0 if the threshold is never reached.
func frequentSetSize(counts FragmentCountTable, total int64) int {
	threshold := FrequentFraction * float64(total)
	var running int64
	for i, id := range rankFragments(counts) {
		running += counts[id]
		if float64(running) >= threshold {
			return i + 1
		}
	}
	return 0
}

func contributionScores(counts FragmentCountTable, k int) map[FragmentID]float64 {
	scores := make(map[FragmentID]float64, len(counts))
	for id, n := range counts {
		if k == 0 {
			scores[id] = math.Inf(-1)
			continue
		}
		scores[id] = math.Log(float64(n) / float64(k))
	}
	return scores
}

// Score returns the contribution score of id, or 0 for a fragment the model
// has never seen.
func (m *ContributionModel) Score(id FragmentID) float64 {
	return m.scores[id]
}

// Lookup returns the score of id and whether the model knows it.
func (m *ContributionModel) Lookup(id FragmentID) (float64, bool) {
	s, ok := m.scores[id]
	return s, ok
}

// Count returns the corpus count of id.
func (m *ContributionModel) Count(id FragmentID) int64 {
	return m.counts[id]
}

// Len returns the number of fragments in the model.
func (m *ContributionModel) Len() int { return len(m.scores) }

// Total returns the corpus-wide fragment occurrence count.
func (m *ContributionModel) Total() int64 { return m.total }

// FrequentTypes returns K, the size of the frequent fragment set.
func (m *ContributionModel) FrequentTypes() int { return m.k }

// Empty reports whether the model was built from a table with no counts.
func (m *ContributionModel) Empty() bool { return m.total == 0 }

// Degenerate reports whether the model carries -Inf scores because no
// frequent set could be formed.  Callers must not score with such a model
// unless they are prepared to handle non-finite results.
func (m *ContributionModel) Degenerate() bool { return m.total > 0 && m.k == 0 }

// Counts returns a copy of the corpus counts the model was built from.
func (m *ContributionModel) Counts() FragmentCountTable { return m.counts.Clone() }

// Range calls fn for every fragment in ascending id order until fn returns
// false.
func (m *ContributionModel) Range(fn func(id FragmentID, count int64, score float64) bool) {
	for _, id := range m.counts.IDs() {
		if !fn(id, m.counts[id], m.scores[id]) {
			return
		}
	}
}

// BuildModelFromMolecules aggregates corpus and builds its contribution
// model in one step.
func BuildModelFromMolecules(corpus []Molecule) (*ContributionModel, error) {
	counts, err := AggregateFragmentCounts(corpus)
	if err != nil {
		return nil, err
	}
	return BuildContributionModel(counts), nil
}

//Personal.AI order the ending
