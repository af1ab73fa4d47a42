package s2_analyzer

import (
	"github.com/wonny/lotoscope/internal/contracts"
)

// PairCoOccurrence returns a symmetric matrix: each unordered pair of distinct numbers
// landing on the same day adds one to both directions, once per day
func (a *Analyzer) PairCoOccurrence(w int) *CountMatrix {
	src := a.pairCoOccurrence(w)
	m := *src
	return &m
}

func (a *Analyzer) pairCoOccurrence(w int) *CountMatrix {
	w = a.clamp(w)
	return memo(a, a.pairs, w, func() *CountMatrix {
		m := new(CountMatrix)
		for _, r := range a.window(w) {
			idx := indices(r.UniqueNumbers)
			for x := 0; x < len(idx); x++ {
				for y := x + 1; y < len(idx); y++ {
					m[idx[x]][idx[y]]++
					m[idx[y]][idx[x]]++
				}
			}
		}
		return m
	})
}

// SuccessorFrequency returns a directed matrix: for every adjacent pair of days in the
// window, each number of the earlier day credits each number of the later day
func (a *Analyzer) SuccessorFrequency(w int) *CountMatrix {
	src := a.successorFrequency(w)
	m := *src
	return &m
}

func (a *Analyzer) successorFrequency(w int) *CountMatrix {
	w = a.clamp(w)
	return memo(a, a.successors, w, func() *CountMatrix {
		m := new(CountMatrix)
		win := a.window(w)
		for i := 1; i < len(win); i++ {
			prev := indices(win[i-1].UniqueNumbers)
			next := indices(win[i].UniqueNumbers)
			for _, p := range prev {
				for _, q := range next {
					m[p][q]++
				}
			}
		}
		return m
	})
}

// ReverseCoOccurrences counts the days on which a number and its reverse both landed.
// The relation is symmetric: n and Reverse(n) always share the same count.
func (a *Analyzer) ReverseCoOccurrences(w int) map[string]int {
	out := make(map[string]int)
	for _, r := range a.window(w) {
		for _, n := range r.ReversedPairs {
			out[n]++
		}
	}
	return out
}

// ShadowCoOccurrences counts the days on which a number and its shadow both landed
func (a *Analyzer) ShadowCoOccurrences(w int) map[string]int {
	out := make(map[string]int)
	for _, r := range a.window(w) {
		for _, n := range r.ShadowPairs {
			out[n]++
		}
	}
	return out
}

// DigitPositionStrength tallies head and tail digits over all draws (duplicates included).
// A digit is strong when its share of draws is at least thresholdPct.
func (a *Analyzer) DigitPositionStrength(w int, thresholdPct float64) DigitStrength {
	var heads, tails [10]int
	total := 0
	for _, r := range a.window(w) {
		for _, n := range r.Numbers {
			heads[contracts.Head(n)]++
			tails[contracts.Tail(n)]++
			total++
		}
	}

	var ds DigitStrength
	if total == 0 {
		return ds
	}
	for d := 0; d < 10; d++ {
		ds.HeadShare[d] = float64(heads[d]) / float64(total) * 100
		ds.TailShare[d] = float64(tails[d]) / float64(total) * 100
		ds.StrongHead[d] = ds.HeadShare[d] >= thresholdPct
		ds.StrongTail[d] = ds.TailShare[d] >= thresholdPct
	}
	return ds
}

// ChamScores scores +30 for a strong head digit, +30 for a strong tail digit and
// +10 more for a double whose digit is strong in both positions
func (a *Analyzer) ChamScores(w int, thresholdPct float64) contracts.ScoreMap {
	ds := a.DigitPositionStrength(w, thresholdPct)
	scores := contracts.NewScoreMap(contracts.Universe())
	for _, n := range contracts.Universe() {
		h, t := contracts.Head(n), contracts.Tail(n)
		s := 0.0
		if ds.StrongHead[h] {
			s += 30
		}
		if ds.StrongTail[t] {
			s += 30
		}
		if ds.StrongHead[h] && ds.StrongTail[t] && contracts.IsDouble(n) {
			s += 10
		}
		scores[n] = s
	}
	return scores
}

func indices(nums []string) []int {
	out := make([]int, 0, len(nums))
	for _, n := range nums {
		if i := contracts.Index(n); i >= 0 {
			out = append(out, i)
		}
	}
	return out
}
