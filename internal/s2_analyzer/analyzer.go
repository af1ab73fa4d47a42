package s2_analyzer

import (
	"fmt"
	"sync"
	"time"

	"github.com/wonny/lotoscope/internal/contracts"
	"github.com/wonny/lotoscope/internal/strategyconfig"
)

// Analyzer is a read-only query library over a chronological record sequence.
// Every query is a pure function of the records and its arguments; results are memoized
// per instance and callers always receive copies.
// ⭐ SSOT: S2 히스토리 통계는 이 패키지에서만 계산
type Analyzer struct {
	records []contracts.DailyDrawRecord // 호출자가 수정하지 않는다는 전제 (불변)
	windows strategyconfig.Windows
	trend   strategyconfig.Trend

	mu          sync.Mutex
	numberFreq  map[int]map[string]int
	uniqueFreq  map[int]map[string]int
	pairs       map[int]*CountMatrix
	successors  map[int]*CountMatrix
	ganAt       map[int]map[string]AbsenceStatus
	percentiles map[int]map[string]float64

	cycleOnce   sync.Once
	cycles      map[string]CycleProfile
	absenceOnce sync.Once
	absences    map[string]AbsencePeriodStats
}

// New creates an Analyzer; cfg nil means strategyconfig.Default()
func New(records []contracts.DailyDrawRecord, cfg *strategyconfig.Config) (*Analyzer, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("analyzer requires a non-empty history: %w", contracts.ErrInvalidArgument)
	}
	if cfg == nil {
		cfg = strategyconfig.Default()
	}

	return &Analyzer{
		records:     records,
		windows:     cfg.Windows,
		trend:       cfg.Trend,
		numberFreq:  make(map[int]map[string]int),
		uniqueFreq:  make(map[int]map[string]int),
		pairs:       make(map[int]*CountMatrix),
		successors:  make(map[int]*CountMatrix),
		ganAt:       make(map[int]map[string]AbsenceStatus),
		percentiles: make(map[int]map[string]float64),
	}, nil
}

// memo returns cache[key], computing and storing it on a miss.
// The lock is not held while computing so computations may call other memoized queries.
func memo[K comparable, V any](a *Analyzer, cache map[K]V, key K, compute func() V) V {
	a.mu.Lock()
	v, ok := cache[key]
	a.mu.Unlock()
	if ok {
		return v
	}

	v = compute()

	a.mu.Lock()
	cache[key] = v
	a.mu.Unlock()
	return v
}

// Len is the number of records, i.e. the index of the next unknown day (currentDayIndex)
func (a *Analyzer) Len() int {
	return len(a.records)
}

// Windows returns the configured lookback windows
func (a *Analyzer) Windows() strategyconfig.Windows {
	return a.windows
}

// Records returns the underlying records (read-only)
func (a *Analyzer) Records() []contracts.DailyDrawRecord {
	return a.records
}

// clamp maps a requested window to [1, Len]; w <= 0 means the full history
func (a *Analyzer) clamp(w int) int {
	if w <= 0 || w > len(a.records) {
		return len(a.records)
	}
	return w
}

// window returns the trailing w records
func (a *Analyzer) window(w int) []contracts.DailyDrawRecord {
	return a.records[len(a.records)-a.clamp(w):]
}

// Latest returns the k-th most recent record (0 = latest), nil when out of range
func (a *Analyzer) Latest(k int) *contracts.DailyDrawRecord {
	i := len(a.records) - 1 - k
	if k < 0 || i < 0 {
		return nil
	}
	return &a.records[i]
}

// LandedWithin reports whether n landed in any of the last k records
func (a *Analyzer) LandedWithin(n string, k int) bool {
	for i := 0; i < k; i++ {
		r := a.Latest(i)
		if r == nil {
			return false
		}
		if r.Has(n) {
			return true
		}
	}
	return false
}

// NextDrawDate is the calendar day after the latest record
func (a *Analyzer) NextDrawDate() time.Time {
	return a.records[len(a.records)-1].Date.AddDate(0, 0, 1)
}

// NextWeekday is the weekday (0=Sunday) of NextDrawDate
func (a *Analyzer) NextWeekday() int {
	return int(a.NextDrawDate().Weekday())
}

func newCounts() map[string]int {
	m := make(map[string]int, contracts.UniverseSize)
	for _, n := range contracts.Universe() {
		m[n] = 0
	}
	return m
}

func copyCounts(src map[string]int) map[string]int {
	out := make(map[string]int, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
