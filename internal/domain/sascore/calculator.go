package sascore

import (
	"math"
)

// Score range bounds.  The scaling approaches them asymptotically; in float64
// extreme inputs round to exactly MinScore or MaxScore.
const (
	MinScore = 1.0
	MaxScore = 10.0
)

// Breakdown is a scored molecule with every intermediate quantity.
type Breakdown struct {
	FragmentScore     float64    `json:"fragment_score"`
	FragmentCount     int64      `json:"fragment_count"`
	DistinctFragments int        `json:"distinct_fragments"`
	UnknownFragments  int        `json:"unknown_fragments"`
	Complexity        Complexity `json:"complexity"`
	Scaled            float64    `json:"scaled"`
	Score             float64    `json:"score"`
}

// Calculator scores molecules against one ContributionModel.  It holds the
// model by reference and is safe for concurrent use.
type Calculator struct {
	model  *ContributionModel
	radius int
}

// NewCalculator returns a Calculator over model at FingerprintRadius.  A nil
// model behaves as an empty one.
func NewCalculator(model *ContributionModel) *Calculator {
	return NewCalculatorWithRadius(model, FingerprintRadius)
}

// NewCalculatorWithRadius is NewCalculator for a model built at another
// fingerprint radius.
func NewCalculatorWithRadius(model *ContributionModel, radius int) *Calculator {
	if model == nil {
		model = BuildContributionModel(nil)
	}
	return &Calculator{model: model, radius: radius}
}

// Model returns the model the calculator scores against.
func (c *Calculator) Model() *ContributionModel { return c.model }

// Radius returns the fingerprint radius fragments are extracted at.
func (c *Calculator) Radius() int { return c.radius }

// Score returns the SA score of mol.
func (c *Calculator) Score(mol Molecule) (float64, error) {
	b, err := c.ScoreDetailed(mol)
	if err != nil {
		return 0, err
	}
	return b.Score, nil
}

// ScoreDetailed returns the SA score of mol with its breakdown.  Only
// fingerprint failures are returned as errors, unchanged.
func (c *Calculator) ScoreDetailed(mol Molecule) (*Breakdown, error) {
	frags, err := ExtractFragmentsWithRadius(mol, c.radius)
	if err != nil {
		return nil, err
	}

	b := &Breakdown{
		FragmentScore:     FragmentScore(frags, c.model),
		FragmentCount:     frags.Total(),
		DistinctFragments: len(frags),
		Complexity:        EvaluateComplexity(mol),
	}
	for id := range frags {
		if _, ok := c.model.Lookup(id); !ok {
			b.UnknownFragments++
		}
	}
	b.Scaled = -(b.FragmentScore - b.Complexity.Total)
	b.Score = ScaleScore(b.Scaled)
	return b, nil
}

// Score is the one-shot form of Calculator.Score.
func Score(mol Molecule, model *ContributionModel) (float64, error) {
	return NewCalculator(model).Score(mol)
}

// FragmentScore is the count-weighted mean contribution of frags under
// model.  Unknown fragments contribute 0; a table without fragments scores
// 0.  Summation runs in ascending id order so results are bit-reproducible.
func FragmentScore(frags FragmentCountTable, model *ContributionModel) float64 {
	var sum float64
	var n int64
	for _, id := range frags.IDs() {
		count := frags[id]
		sum += model.Score(id) * float64(count)
		n += count
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// ScaleScore maps scaled onto [1, 10] with a logistic curve.
func ScaleScore(scaled float64) float64 {
	return MinScore + (MaxScore-MinScore)/(1+math.Exp(-scaled))
}

//Personal.AI order the ending
