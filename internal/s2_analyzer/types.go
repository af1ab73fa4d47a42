package s2_analyzer

import (
	"time"

	"github.com/wonny/lotoscope/internal/contracts"
)

// AbsenceStatus is the gan (absence streak) of one number
type AbsenceStatus struct {
	Number        string    `json:"number"`
	DaysGone      int       `json:"days_gone"`
	LastSeenIndex int       `json:"last_seen_index"` // -1 = 한 번도 나오지 않음
	LastSeenDate  time.Time `json:"last_seen_date"`  // zero = 한 번도 나오지 않음
}

// Seen reports whether the number ever appeared
func (s AbsenceStatus) Seen() bool {
	return s.LastSeenIndex >= 0
}

// CycleProfile describes the periodicity of one number over the whole history
type CycleProfile struct {
	Number        string  `json:"number"`
	Appearances   []int   `json:"appearances"`
	Gaps          []int   `json:"gaps"`
	MeanGap       float64 `json:"mean_gap"`
	StdDev        float64 `json:"std_dev"` // 표본 표준편차
	Consistency   float64 `json:"consistency"`
	NextDue       float64 `json:"next_due"` // 다음 예상 인덱스, 미출현 시 -1
	DaysSinceLast int     `json:"days_since_last"`
}

// AbsencePeriodStats summarizes completed and open absence streaks of one number
type AbsencePeriodStats struct {
	Number    string  `json:"number"`
	Completed []int   `json:"completed"`
	Current   int     `json:"current"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
}

// WeekdayStats is the frequency table restricted to one weekday
type WeekdayStats struct {
	Weekday      int                `json:"weekday"`
	MatchingDays int                `json:"matching_days"`
	Totals       map[string]int     `json:"totals"`
	Averages     map[string]float64 `json:"averages"`
}

// DigitStrength holds per-digit head/tail share (percent of draws) in a window
type DigitStrength struct {
	HeadShare  [10]float64 `json:"head_share"`
	TailShare  [10]float64 `json:"tail_share"`
	StrongHead [10]bool    `json:"strong_head"`
	StrongTail [10]bool    `json:"strong_tail"`
}

// CountMatrix is a 100×100 count table indexed by numeric value
type CountMatrix [contracts.UniverseSize][contracts.UniverseSize]int

// Get returns the count for (a, b); invalid numbers read as 0
func (m *CountMatrix) Get(a, b string) int {
	i, j := contracts.Index(a), contracts.Index(b)
	if i < 0 || j < 0 {
		return 0
	}
	return m[i][j]
}

// Row returns the counts from a to every other number
func (m *CountMatrix) Row(a string) map[string]int {
	out := make(map[string]int, contracts.UniverseSize)
	i := contracts.Index(a)
	if i < 0 {
		return out
	}
	for j, c := range m[i] {
		if c > 0 {
			out[contracts.Number(j)] = c
		}
	}
	return out
}

// TrendClass classifies short vs long percentile movement
type TrendClass string

const (
	TrendConsistentlyHot  TrendClass = "CONSISTENTLY_HOT"
	TrendConsistentlyCold TrendClass = "CONSISTENTLY_COLD"
	TrendNewlyHot         TrendClass = "NEWLY_HOT"
	TrendNewlyCold        TrendClass = "NEWLY_COLD"
	TrendNeutral          TrendClass = "NEUTRAL"
)
