// Package scoring turns answered DCAS types into a ranked behavioral profile.
// Everything here is pure: no I/O and no mutation of inputs.
package scoring

import (
	"dcasassess/internal/model"
	"math"
	"sort"
)

// Tally counts occurrences of each type. Unknown types contribute nothing.
func Tally(answers []model.DCASType) model.DCASCounts {
	var raw model.DCASCounts
	for _, t := range answers {
		raw.Add(t, 1)
	}
	return raw
}

// Percentages derives round(raw[t]/total*100) per type, 0 for an empty tally.
// The four values need not sum to 100.
func Percentages(raw model.DCASCounts) model.DCASCounts {
	var pct model.DCASCounts
	total := raw.Total()
	if total == 0 {
		return pct
	}
	for _, t := range model.DCASTypes {
		pct.Add(t, int(math.Round(float64(raw.Get(t)*100)/float64(total))))
	}
	return pct
}

// Ranked orders types by count descending. Equal counts keep D, C, A, S order.
func Ranked(raw model.DCASCounts) []model.DCASType {
	ranked := make([]model.DCASType, len(model.DCASTypes))
	copy(ranked, model.DCASTypes[:])
	sort.SliceStable(ranked, func(i, j int) bool {
		return raw.Get(ranked[i]) > raw.Get(ranked[j])
	})
	return ranked
}

// Score computes the full profile. An empty input yields all zeros with
// primary D and secondary C.
func Score(answers []model.DCASType) model.Score {
	raw := Tally(answers)
	ranked := Ranked(raw)
	return model.Score{
		Raw:       raw,
		Percent:   Percentages(raw),
		Primary:   ranked[0],
		Secondary: ranked[1],
	}
}
