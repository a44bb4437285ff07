package selection

import (
	"sort"

	"github.com/pagecraft/refcast/internal/ranking"
)

// filterByQuality removes candidates whose quality score falls below the
// threshold. Candidates with no quality score pass; an unknown score is not
// a failing one.
func filterByQuality(scored []ranking.ScoredCandidate, minQuality float64) []ranking.ScoredCandidate {
	kept := make([]ranking.ScoredCandidate, 0, len(scored))
	for _, c := range scored {
		if c.Image.QualityScore != nil && *c.Image.QualityScore < minQuality {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// rank sorts candidates best first. The order is total: descending total
// score, then higher quality score, then higher consistency score (missing
// scores lose ties), then core references, then input order via sort
// stability, so repeated runs over the same candidates always produce the
// same ranking.
func rank(scored []ranking.ScoredCandidate) []ranking.ScoredCandidate {
	ranked := make([]ranking.ScoredCandidate, len(scored))
	copy(ranked, scored)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		qa, qb := scoreOrZero(a.Image.QualityScore), scoreOrZero(b.Image.QualityScore)
		if qa != qb {
			return qa > qb
		}
		ca, cb := scoreOrZero(a.Image.ConsistencyScore), scoreOrZero(b.Image.ConsistencyScore)
		if ca != cb {
			return ca > cb
		}
		if a.Image.IsCoreReference != b.Image.IsCoreReference {
			return a.Image.IsCoreReference
		}
		return false
	})
	return ranked
}

func scoreOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// confidenceGap is the normalized distance between the top score and the
// runner-up, in [0, 1]. A single candidate is maximally confident; a zero
// top score carries no signal.
func confidenceGap(ranked []ranking.ScoredCandidate) float64 {
	if len(ranked) == 0 {
		return 0
	}
	if len(ranked) == 1 {
		return 1
	}
	top := ranked[0].TotalScore
	if top <= 0 {
		return 0
	}
	gap := (top - ranked[1].TotalScore) / top
	if gap < 0 {
		return 0
	}
	if gap > 1 {
		return 1
	}
	return gap
}

// averageScore is the mean total score over every scored candidate,
// pre-filter.
func averageScore(scored []ranking.ScoredCandidate) float64 {
	if len(scored) == 0 {
		return 0
	}
	var sum float64
	for _, c := range scored {
		sum += c.TotalScore
	}
	return sum / float64(len(scored))
}
