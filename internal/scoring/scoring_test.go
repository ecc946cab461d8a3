package scoring

import (
	"dcasassess/internal/model"
	"reflect"
	"testing"
)

const (
	D = model.TypeDriver
	C = model.TypeConnector
	A = model.TypeAnchor
	S = model.TypeStrategist
)

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		answers   []model.DCASType
		raw       model.DCASCounts
		percent   model.DCASCounts
		primary   model.DCASType
		secondary model.DCASType
	}{
		{"empty", nil, model.DCASCounts{}, model.DCASCounts{}, D, C},
		{"one of each", []model.DCASType{D, C, A, S}, model.DCASCounts{D: 1, C: 1, A: 1, S: 1}, model.DCASCounts{D: 25, C: 25, A: 25, S: 25}, D, C},
		{"three to one", []model.DCASType{D, D, D, C}, model.DCASCounts{D: 3, C: 1}, model.DCASCounts{D: 75, C: 25}, D, C},
		{"all strategist", []model.DCASType{S, S, S}, model.DCASCounts{S: 3}, model.DCASCounts{S: 100}, S, D},
		{"tie below leader", []model.DCASType{A, A, S, C}, model.DCASCounts{A: 2, S: 1, C: 1}, model.DCASCounts{A: 50, S: 25, C: 25}, A, C},
		{"thirds round", []model.DCASType{S, A, A}, model.DCASCounts{A: 2, S: 1}, model.DCASCounts{A: 67, S: 33}, A, S},
		{"half rounds up", []model.DCASType{C, D, D, D, D, D, D, D}, model.DCASCounts{D: 7, C: 1}, model.DCASCounts{D: 88, C: 13}, D, C},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.answers)
			if got.Raw != tt.raw {
				t.Errorf("raw = %+v, want %+v", got.Raw, tt.raw)
			}
			if got.Percent != tt.percent {
				t.Errorf("percent = %+v, want %+v", got.Percent, tt.percent)
			}
			if got.Primary != tt.primary || got.Secondary != tt.secondary {
				t.Errorf("primary/secondary = %s/%s, want %s/%s", got.Primary, got.Secondary, tt.primary, tt.secondary)
			}
			if got.Raw.Total() != len(tt.answers) {
				t.Errorf("raw total = %d, want %d", got.Raw.Total(), len(tt.answers))
			}
		})
	}
}

func TestScoreIsPureAndDeterministic(t *testing.T) {
	answers := []model.DCASType{S, C, S, A, D, C, S}
	before := append([]model.DCASType(nil), answers...)

	first := Score(answers)
	second := Score(answers)
	if first != second {
		t.Fatalf("score not deterministic: %+v vs %+v", first, second)
	}
	if !reflect.DeepEqual(answers, before) {
		t.Fatalf("input mutated: %v", answers)
	}
}

func TestScoreIgnoresUnknownTypes(t *testing.T) {
	got := Score([]model.DCASType{"X", D, ""})
	if got.Raw.Total() != 1 || got.Percent.D != 100 {
		t.Fatalf("unexpected score %+v", got)
	}
}

func TestRanked(t *testing.T) {
	tests := []struct {
		raw  model.DCASCounts
		want []model.DCASType
	}{
		{model.DCASCounts{}, []model.DCASType{D, C, A, S}},
		{model.DCASCounts{S: 4, A: 4, C: 1}, []model.DCASType{A, S, C, D}},
		{model.DCASCounts{D: 1, C: 2, A: 3, S: 4}, []model.DCASType{S, A, C, D}},
		{model.DCASCounts{D: 5, S: 5}, []model.DCASType{D, S, C, A}},
	}
	for _, tt := range tests {
		if got := Ranked(tt.raw); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Ranked(%+v) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
