package s2_analyzer

import (
	"sort"

	"github.com/wonny/lotoscope/internal/contracts"
)

// NumbersFrequency counts occurrences (duplicates included) over the trailing w records
func (a *Analyzer) NumbersFrequency(w int) map[string]int {
	return copyCounts(a.numbersFrequency(w))
}

func (a *Analyzer) numbersFrequency(w int) map[string]int {
	w = a.clamp(w)
	return memo(a, a.numberFreq, w, func() map[string]int {
		m := newCounts()
		for _, r := range a.window(w) {
			for _, n := range r.Numbers {
				m[n]++
			}
		}
		return m
	})
}

// UniqueFrequency counts the days each number landed over the trailing w records
func (a *Analyzer) UniqueFrequency(w int) map[string]int {
	return copyCounts(a.uniqueFrequency(w))
}

func (a *Analyzer) uniqueFrequency(w int) map[string]int {
	w = a.clamp(w)
	return memo(a, a.uniqueFreq, w, func() map[string]int {
		m := newCounts()
		for _, r := range a.window(w) {
			for _, n := range r.UniqueNumbers {
				m[n]++
			}
		}
		return m
	})
}

// HotNumbers returns up to limit numbers by count descending (ties: numeric ascending)
func (a *Analyzer) HotNumbers(w, limit int) []string {
	freq := a.numbersFrequency(w)
	nums := contracts.Universe()
	sort.SliceStable(nums, func(i, j int) bool {
		return freq[nums[i]] > freq[nums[j]]
	})
	if limit < len(nums) && limit >= 0 {
		nums = nums[:limit]
	}
	return nums
}

// ColdNumbers returns the numbers tied at the minimum count, ascending, up to limit
func (a *Analyzer) ColdNumbers(w, limit int) []string {
	freq := a.numbersFrequency(w)
	min := -1
	for _, n := range contracts.Universe() {
		if min < 0 || freq[n] < min {
			min = freq[n]
		}
	}

	cold := make([]string, 0)
	for _, n := range contracts.Universe() {
		if freq[n] == min {
			if len(cold) >= limit {
				break
			}
			cold = append(cold, n)
		}
	}
	return cold
}

// PercentileRanks maps each key of freq to the share (0~100) of values <= its own value
func PercentileRanks(freq map[string]int) map[string]float64 {
	out := make(map[string]float64, len(freq))
	if len(freq) == 0 {
		return out
	}

	values := make([]int, 0, len(freq))
	for _, v := range freq {
		values = append(values, v)
	}
	sort.Ints(values)

	total := float64(len(values))
	for k, v := range freq {
		// v 이하 값의 개수 (동률 포함)
		le := sort.Search(len(values), func(i int) bool { return values[i] > v })
		out[k] = float64(le) / total * 100
	}
	return out
}

// Percentile returns the inclusive percentile rank of n within freq (0 when absent)
func Percentile(freq map[string]int, n string) float64 {
	v, ok := freq[n]
	if !ok || len(freq) == 0 {
		return 0
	}
	le := 0
	for _, other := range freq {
		if other <= v {
			le++
		}
	}
	return float64(le) / float64(len(freq)) * 100
}

// PercentileRanks returns NumbersFrequency(w) percentile ranks (memoized)
func (a *Analyzer) PercentileRanks(w int) map[string]float64 {
	src := a.percentileRanks(w)
	out := make(map[string]float64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func (a *Analyzer) percentileRanks(w int) map[string]float64 {
	w = a.clamp(w)
	return memo(a, a.percentiles, w, func() map[string]float64 {
		return PercentileRanks(a.numbersFrequency(w))
	})
}

// Trend compares the short-window percentile of n against its long-window percentile
func (a *Analyzer) Trend(n string, shortW, longW int) TrendClass {
	short := a.percentileRanks(shortW)[n]
	long := a.percentileRanks(longW)[n]
	t := a.trend

	switch {
	case short >= t.HotPercentile && long >= t.HotPercentile:
		return TrendConsistentlyHot
	case short <= t.ColdPercentile && long <= t.ColdPercentile:
		return TrendConsistentlyCold
	case short >= t.HotPercentile && short-long >= t.MinGap:
		return TrendNewlyHot
	case short <= t.ColdPercentile && long-short >= t.MinGap:
		return TrendNewlyCold
	default:
		return TrendNeutral
	}
}

// WeekdayFrequency restricts the trailing w records to one weekday
func (a *Analyzer) WeekdayFrequency(weekday, w int) WeekdayStats {
	stats := WeekdayStats{
		Weekday:  weekday,
		Totals:   newCounts(),
		Averages: make(map[string]float64, contracts.UniverseSize),
	}

	for _, r := range a.window(w) {
		if r.DayOfWeek != weekday {
			continue
		}
		stats.MatchingDays++
		for _, n := range r.Numbers {
			stats.Totals[n]++
		}
	}

	for n, c := range stats.Totals {
		if stats.MatchingDays > 0 {
			stats.Averages[n] = float64(c) / float64(stats.MatchingDays)
		} else {
			stats.Averages[n] = 0
		}
	}
	return stats
}

// DoublesFrequency is NumbersFrequency scoped to the ten doubles
func (a *Analyzer) DoublesFrequency(w int) map[string]int {
	freq := a.numbersFrequency(w)
	out := make(map[string]int, 10)
	for _, d := range contracts.Doubles() {
		out[d] = freq[d]
	}
	return out
}

// DigitSumFrequency counts, per digit sum, the days on which it landed (deduplicated per day)
func (a *Analyzer) DigitSumFrequency(w int) [contracts.DigitSumMax + 1]int {
	var out [contracts.DigitSumMax + 1]int
	for _, r := range a.window(w) {
		for _, s := range r.DigitSumsLanded {
			out[s]++
		}
	}
	return out
}

// DigitSumPercentiles ranks the digit sums by DigitSumFrequency(w)
func (a *Analyzer) DigitSumPercentiles(w int) [contracts.DigitSumMax + 1]float64 {
	freq := a.DigitSumFrequency(w)
	sorted := freq
	s := sorted[:]
	sort.Ints(s)

	var out [contracts.DigitSumMax + 1]float64
	for sum, v := range freq {
		le := sort.Search(len(s), func(i int) bool { return s[i] > v })
		out[sum] = float64(le) / float64(len(s)) * 100
	}
	return out
}

// ZoneOf returns the band 0..3 of n
func (a *Analyzer) ZoneOf(n string) int {
	return contracts.Zone(n)
}

// ZoneFrequency sums NumbersFrequency(w) per zone
func (a *Analyzer) ZoneFrequency(w int) [contracts.ZoneCount]int {
	var out [contracts.ZoneCount]int
	for n, c := range a.numbersFrequency(w) {
		out[contracts.Zone(n)] += c
	}
	return out
}
