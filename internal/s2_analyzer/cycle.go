package s2_analyzer

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/wonny/lotoscope/internal/contracts"
)

// meanStd returns the mean and sample standard deviation (0 when fewer than two values)
func meanStd(values []int) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	xs := make([]float64, len(values))
	for i, v := range values {
		xs[i] = float64(v)
	}
	mean := stat.Mean(xs, nil)
	if len(xs) < 2 {
		return mean, 0
	}
	return mean, stat.StdDev(xs, nil)
}

// appearances returns, per number, the ascending record indices where it landed
func (a *Analyzer) appearances() map[string][]int {
	out := make(map[string][]int, contracts.UniverseSize)
	for i := range a.records {
		for _, n := range a.records[i].UniqueNumbers {
			out[n] = append(out[n], i)
		}
	}
	return out
}

// CycleAnalysis profiles every number over the entire history
func (a *Analyzer) CycleAnalysis() map[string]CycleProfile {
	a.cycleOnce.Do(func() {
		a.cycles = a.computeCycles()
	})

	out := make(map[string]CycleProfile, len(a.cycles))
	for k, v := range a.cycles {
		v.Appearances = append([]int(nil), v.Appearances...)
		v.Gaps = append([]int(nil), v.Gaps...)
		out[k] = v
	}
	return out
}

func (a *Analyzer) computeCycles() map[string]CycleProfile {
	cur := len(a.records)
	apps := a.appearances()

	cycles := make(map[string]CycleProfile, contracts.UniverseSize)
	for _, n := range contracts.Universe() {
		idx := apps[n]
		p := CycleProfile{
			Number:        n,
			Appearances:   append([]int{}, idx...),
			Gaps:          []int{},
			Consistency:   1,
			NextDue:       -1,
			DaysSinceLast: cur,
		}

		if len(idx) > 0 {
			last := idx[len(idx)-1]
			p.DaysSinceLast = cur - last - 1
			for i := 1; i < len(idx); i++ {
				p.Gaps = append(p.Gaps, idx[i]-idx[i-1])
			}
			p.MeanGap, p.StdDev = meanStd(p.Gaps)
			if len(p.Gaps) >= 2 && p.StdDev > 0 {
				p.Consistency = 1 / (1 + p.StdDev)
			}
			p.NextDue = float64(last) + p.MeanGap
		}

		cycles[n] = p
	}
	return cycles
}

// AbsencePeriods walks the full history and records every completed absence streak
// (bounded by appearances on both sides) plus the open trailing streak.
// The streak before the first appearance is not counted as completed.
func (a *Analyzer) AbsencePeriods() map[string]AbsencePeriodStats {
	a.absenceOnce.Do(func() {
		a.absences = a.computeAbsences()
	})

	out := make(map[string]AbsencePeriodStats, len(a.absences))
	for k, v := range a.absences {
		v.Completed = append([]int(nil), v.Completed...)
		out[k] = v
	}
	return out
}

func (a *Analyzer) computeAbsences() map[string]AbsencePeriodStats {
	cur := len(a.records)
	apps := a.appearances()

	out := make(map[string]AbsencePeriodStats, contracts.UniverseSize)
	for _, n := range contracts.Universe() {
		idx := apps[n]
		s := AbsencePeriodStats{Number: n, Completed: []int{}, Current: cur}
		if len(idx) > 0 {
			for i := 1; i < len(idx); i++ {
				if gap := idx[i] - idx[i-1] - 1; gap >= 1 {
					s.Completed = append(s.Completed, gap)
				}
			}
			s.Current = cur - idx[len(idx)-1] - 1
		}
		s.Mean, s.StdDev = meanStd(s.Completed)
		out[n] = s
	}
	return out
}

// BridgeCandidates returns, sorted ascending, numbers with a run of minOccurrences
// consecutive appearances in the trailing w records spaced exactly p apart
// (1 <= p <= maxPeriod) whose next step lands exactly on the next day index.
func (a *Analyzer) BridgeCandidates(w, minOccurrences, maxPeriod int) []string {
	if minOccurrences < 2 {
		minOccurrences = 2
	}
	cur := len(a.records)
	start := cur - a.clamp(w)

	apps := make(map[string][]int)
	for i := start; i < cur; i++ {
		for _, n := range a.records[i].UniqueNumbers {
			apps[n] = append(apps[n], i)
		}
	}

	out := make([]string, 0)
	for n, idx := range apps {
		if len(idx) < minOccurrences {
			continue
		}
		if hasBridge(idx, cur, minOccurrences, maxPeriod) {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// hasBridge checks whether some period p has a run ending at cur-p
func hasBridge(idx []int, cur, minOcc, maxPeriod int) bool {
	for p := 1; p <= maxPeriod; p++ {
		end := sort.SearchInts(idx, cur-p)
		if end >= len(idx) || idx[end] != cur-p || end+1 < minOcc {
			continue
		}
		ok := true
		for k := end; k > end-minOcc+1; k-- {
			if idx[k]-idx[k-1] != p {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}
