package s2_analyzer

import (
	"sort"

	"github.com/wonny/lotoscope/internal/contracts"
)

// GanStatus returns the absence status of every number as of the full history
func (a *Analyzer) GanStatus() map[string]AbsenceStatus {
	return a.GanStatusAt(len(a.records))
}

// GanStatusAt returns absence status as of the prefix records[:prefixLen].
// prefixLen is clamped to [0, Len]; with an empty prefix every number is unseen with DaysGone 0.
func (a *Analyzer) GanStatusAt(prefixLen int) map[string]AbsenceStatus {
	src := a.ganStatusAt(prefixLen)
	out := make(map[string]AbsenceStatus, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func (a *Analyzer) ganStatusAt(prefixLen int) map[string]AbsenceStatus {
	if prefixLen < 0 {
		prefixLen = 0
	}
	if prefixLen > len(a.records) {
		prefixLen = len(a.records)
	}

	return memo(a, a.ganAt, prefixLen, func() map[string]AbsenceStatus {
		status := make(map[string]AbsenceStatus, contracts.UniverseSize)
		for _, n := range contracts.Universe() {
			status[n] = AbsenceStatus{Number: n, DaysGone: prefixLen, LastSeenIndex: -1}
		}

		// 뒤에서부터 한 번 훑으며 최초 발견 위치 기록
		found := 0
		for i := prefixLen - 1; i >= 0 && found < contracts.UniverseSize; i-- {
			r := &a.records[i]
			for _, n := range r.UniqueNumbers {
				if status[n].LastSeenIndex >= 0 {
					continue
				}
				status[n] = AbsenceStatus{
					Number:        n,
					DaysGone:      prefixLen - i - 1,
					LastSeenIndex: i,
					LastSeenDate:  r.Date,
				}
				found++
			}
		}
		return status
	})
}

// DaysGone is GanStatus()[n].DaysGone
func (a *Analyzer) DaysGone(n string) int {
	return a.ganStatusAt(len(a.records))[n].DaysGone
}

// GanInRange returns numbers whose DaysGone lies in [min, max] (max <= 0 = unbounded),
// sorted by DaysGone descending then numeric ascending
func (a *Analyzer) GanInRange(min, max int) []AbsenceStatus {
	status := a.ganStatusAt(len(a.records))
	out := make([]AbsenceStatus, 0)
	for _, n := range contracts.Universe() {
		s := status[n]
		if s.DaysGone >= min && (max <= 0 || s.DaysGone <= max) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysGone > out[j].DaysGone
	})
	return out
}

// DoublesGan is GanStatus scoped to the ten doubles
func (a *Analyzer) DoublesGan() map[string]AbsenceStatus {
	status := a.ganStatusAt(len(a.records))
	out := make(map[string]AbsenceStatus, 10)
	for _, d := range contracts.Doubles() {
		out[d] = status[d]
	}
	return out
}

// DigitSumGan returns, per digit sum 0..18, the records since it last landed (Len if never)
func (a *Analyzer) DigitSumGan() [contracts.DigitSumMax + 1]int {
	var out [contracts.DigitSumMax + 1]int
	var seen [contracts.DigitSumMax + 1]bool
	cur := len(a.records)
	for s := range out {
		out[s] = cur
	}

	found := 0
	for i := cur - 1; i >= 0 && found < len(out); i-- {
		for _, s := range a.records[i].DigitSumsLanded {
			if !seen[s] {
				seen[s] = true
				out[s] = cur - i - 1
				found++
			}
		}
	}
	return out
}

// DropCandidates counts, over the trailing w records, how often each number landed on
// two consecutive days. With mustBeConsecutive only numbers that repeated on every
// adjacent pair of the window are kept. Numbers with zero count are omitted.
func (a *Analyzer) DropCandidates(w int, mustBeConsecutive bool) map[string]int {
	win := a.window(w)
	out := make(map[string]int)
	for i := 1; i < len(win); i++ {
		for _, n := range win[i].UniqueNumbers {
			if win[i-1].Has(n) {
				out[n]++
			}
		}
	}

	if mustBeConsecutive {
		for n, c := range out {
			if c != len(win)-1 {
				delete(out, n)
			}
		}
	}
	return out
}

// ReversalCandidates credits the reverse of every non-double number landed in the window.
// In bidirectional mode the original is also credited when both directions landed the same day.
func (a *Analyzer) ReversalCandidates(w int, bidirectional bool) map[string]int {
	out := make(map[string]int)
	for _, r := range a.window(w) {
		for _, n := range r.UniqueNumbers {
			if contracts.IsDouble(n) {
				continue
			}
			rev := contracts.Reverse(n)
			out[rev]++
			if bidirectional && r.Has(rev) {
				out[n]++
			}
		}
	}
	return out
}

// ConsecutiveStreak counts the most recent records (up to maxLookback) containing n without a gap
func (a *Analyzer) ConsecutiveStreak(n string, maxLookback int) int {
	streak := 0
	for k := 0; k < maxLookback; k++ {
		r := a.Latest(k)
		if r == nil || !r.Has(n) {
			break
		}
		streak++
	}
	return streak
}
