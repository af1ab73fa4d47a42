package contracts

import "time"

// DrawsPerDay is the number of two-digit results landed on a well-formed day
const DrawsPerDay = 27

// RawDraw is one parsed date section passed from S0 to S1
// ⭐ SSOT: S0 → S1 원본 추첨 데이터 전달
type RawDraw struct {
	Date    time.Time `json:"date"`
	Numbers []string  `json:"numbers"` // 두 자리 문자열, 중복 허용, 원래 순서
}

// DailyDrawRecord is the enriched, immutable view of a single day passed from S1 to S2
// ⭐ SSOT: S1 → S2 일별 레코드 전달
type DailyDrawRecord struct {
	Date          time.Time      `json:"date"`
	Numbers       []string       `json:"numbers"`
	UniqueNumbers []string       `json:"unique_numbers"` // 오름차순
	Counts        map[string]int `json:"counts"`
	DayOfWeek     int            `json:"day_of_week"` // 0=Sunday

	MultiHit2 []string `json:"multi_hit_2"` // 2회 이상
	MultiHit3 []string `json:"multi_hit_3"` // 3회 이상

	DoublesLanded    []string `json:"doubles_landed"`
	DigitSumsLanded  []int    `json:"digit_sums_landed"`
	HeadDigitsLanded []int    `json:"head_digits_landed"`
	TailDigitsLanded []int    `json:"tail_digits_landed"`

	ReversedPairs []string `json:"reversed_pairs"` // 뒤집은 수도 같은 날 나온 수
	ShadowPairs   []string `json:"shadow_pairs"`   // 그림자 수도 같은 날 나온 수
}

// Has reports whether the number landed at least once that day
func (r *DailyDrawRecord) Has(n string) bool {
	return r.Counts[n] > 0
}

// DrawCount returns the number of landed results including duplicates
func (r *DailyDrawRecord) DrawCount() int {
	return len(r.Numbers)
}

// IsWellFormed checks the per-day draw count
func (r *DailyDrawRecord) IsWellFormed() bool {
	return len(r.Numbers) == DrawsPerDay
}

// HistorySummary describes a history snapshot for display
type HistorySummary struct {
	Days             int       `json:"days"`
	FirstDate        time.Time `json:"first_date"`
	LastDate         time.Time `json:"last_date"`
	MalformedDays    int       `json:"malformed_days"`
	ActiveStrategies int       `json:"active_strategies"`
}

// Summarize builds a HistorySummary; ActiveStrategies is filled by the caller
func Summarize(records []DailyDrawRecord) HistorySummary {
	s := HistorySummary{Days: len(records)}
	if len(records) == 0 {
		return s
	}
	s.FirstDate = records[0].Date
	s.LastDate = records[len(records)-1].Date
	for i := range records {
		if !records[i].IsWellFormed() {
			s.MalformedDays++
		}
	}
	return s
}

// DataQualitySnapshot represents history quality information passed from S0 to S1
// ⭐ SSOT: S0 → S1 데이터 품질 정보 전달
type DataQualitySnapshot struct {
	Date           time.Time          `json:"date"` // 마지막 기록일
	TotalDays      int                `json:"total_days"`
	WellFormedDays int                `json:"well_formed_days"`
	EmptyDays      int                `json:"empty_days"`
	MissingDates   []time.Time        `json:"missing_dates,omitempty"` // 달력상 빠진 날짜
	Coverage       map[string]float64 `json:"coverage"`                // 항목별 커버리지
	QualityScore   float64            `json:"quality_score"`           // 0.0 ~ 1.0
	Passed         bool               `json:"passed"`                  // 품질 검증 통과 여부
}

// CoverageRate returns the average coverage rate across all checks
func (d *DataQualitySnapshot) CoverageRate() float64 {
	if len(d.Coverage) == 0 {
		return 0.0
	}

	total := 0.0
	for _, rate := range d.Coverage {
		total += rate
	}

	return total / float64(len(d.Coverage))
}
