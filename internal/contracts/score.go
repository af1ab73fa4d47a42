package contracts

import (
	"math"
	"sort"
)

// ScoreMap maps a universe member to a real-valued score.
// Operations return new maps so strategy rules can be composed without shared mutation.
type ScoreMap map[string]float64

// NewScoreMap returns a map with every given member at zero
func NewScoreMap(members []string) ScoreMap {
	m := make(ScoreMap, len(members))
	for _, n := range members {
		m[n] = 0
	}
	return m
}

// Clone returns a shallow copy
func (m ScoreMap) Clone() ScoreMap {
	out := make(ScoreMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Add returns m + other; keys missing from m are ignored so scoped strategies stay scoped
func (m ScoreMap) Add(other ScoreMap) ScoreMap {
	out := m.Clone()
	for k, v := range other {
		if _, ok := out[k]; ok {
			out[k] += v
		}
	}
	return out
}

// Scale returns m × factor
func (m ScoreMap) Scale(factor float64) ScoreMap {
	out := make(ScoreMap, len(m))
	for k, v := range m {
		out[k] = v * factor
	}
	return out
}

// Clamp returns m with every value limited to [lo, hi]; NaN becomes lo
func (m ScoreMap) Clamp(lo, hi float64) ScoreMap {
	out := make(ScoreMap, len(m))
	for k, v := range m {
		switch {
		case math.IsNaN(v) || v < lo:
			out[k] = lo
		case v > hi:
			out[k] = hi
		default:
			out[k] = v
		}
	}
	return out
}

// Max returns the largest value (0 for an empty map)
func (m ScoreMap) Max() float64 {
	best := 0.0
	first := true
	for _, v := range m {
		if first || v > best {
			best = v
			first = false
		}
	}
	return best
}

// RankedNumber is a number with its aggregate score and 1-based rank
type RankedNumber struct {
	Number string  `json:"number"`
	Score  float64 `json:"score"`
	Rank   int     `json:"rank"`
}

// Ranked sorts by score descending, ties broken by numeric value ascending
func (m ScoreMap) Ranked() []RankedNumber {
	ranked := make([]RankedNumber, 0, len(m))
	for n, s := range m {
		ranked = append(ranked, RankedNumber{Number: n, Score: s})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Number < ranked[j].Number
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
