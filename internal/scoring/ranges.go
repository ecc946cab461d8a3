package scoring

import "dcasassess/internal/model"

// referenceScale is the question count the Low/Moderate/High cutoffs were written for
const referenceScale = 30

const (
	lowCutoff      = 7
	moderateCutoff = 14
)

// Range bands a raw count for an assessment of n questions. Cutoffs scale
// from the 30-question form (<=7 Low, 8-14 Moderate, >=15 High).
// n <= 0 uses the 30-question cutoffs.
func Range(raw, n int) model.ScoreRange {
	if n <= 0 {
		n = referenceScale
	}
	low := lowCutoff * n / referenceScale
	moderate := moderateCutoff * n / referenceScale
	switch {
	case raw <= low:
		return model.RangeLow
	case raw <= moderate:
		return model.RangeModerate
	default:
		return model.RangeHigh
	}
}

// Ranges bands all four types
func Ranges(raw model.DCASCounts, n int) model.DCASRanges {
	return model.DCASRanges{
		D: Range(raw.D, n),
		C: Range(raw.C, n),
		A: Range(raw.A, n),
		S: Range(raw.S, n),
	}
}

// Level bands a count by its share of total: >=70% High, >=40% Moderate.
func Level(score, total int) model.ScoreRange {
	if total <= 0 {
		return model.RangeLow
	}
	pct := float64(score*100) / float64(total)
	switch {
	case pct >= 70:
		return model.RangeHigh
	case pct >= 40:
		return model.RangeModerate
	default:
		return model.RangeLow
	}
}
