package s1_records

import (
	"sort"

	"github.com/wonny/lotoscope/internal/contracts"
	"github.com/wonny/lotoscope/pkg/logger"
)

// Preparer turns raw draws into enriched daily records
type Preparer struct {
	logger *logger.Logger
}

// NewPreparer creates a new Preparer
func NewPreparer(log *logger.Logger) *Preparer {
	return &Preparer{logger: log.WithStage(contracts.StageRecords)}
}

// Prepare is NewPreparer(logger.Nop()).Prepare
func Prepare(draws []contracts.RawDraw) []contracts.DailyDrawRecord {
	return NewPreparer(logger.Nop()).Prepare(draws)
}

// Prepare sorts draws by date (stable) and derives one record per draw
// ⭐ SSOT: S1 → S2 레코드 생성
func (p *Preparer) Prepare(draws []contracts.RawDraw) []contracts.DailyDrawRecord {
	sorted := make([]contracts.RawDraw, len(draws))
	copy(sorted, draws)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	records := make([]contracts.DailyDrawRecord, 0, len(sorted))
	malformed := 0
	for _, d := range sorted {
		rec := PrepareDay(d)
		if !rec.IsWellFormed() {
			malformed++
			p.logger.WithFields(map[string]interface{}{
				"date":     d.Date.Format("2006-01-02"),
				"count":    len(rec.Numbers),
				"invalid":  len(d.Numbers) - len(rec.Numbers),
				"expected": contracts.DrawsPerDay,
			}).Warn("Unexpected draw count")
		}
		records = append(records, rec)
	}

	p.logger.WithFields(map[string]interface{}{
		"days":      len(records),
		"malformed": malformed,
	}).Debug("Records prepared")

	return records
}

// PrepareDay derives every field from a single day's numbers; other days are never consulted.
// Tokens that are not two-digit numbers are dropped, so such a day is not well formed.
func PrepareDay(d contracts.RawDraw) contracts.DailyDrawRecord {
	numbers := make([]string, 0, len(d.Numbers))
	for _, n := range d.Numbers {
		if contracts.IsValidNumber(n) {
			numbers = append(numbers, n)
		}
	}

	counts := make(map[string]int, len(numbers))
	for _, n := range numbers {
		counts[n]++
	}

	unique := make([]string, 0, len(counts))
	for n := range counts {
		unique = append(unique, n)
	}
	sort.Strings(unique)

	rec := contracts.DailyDrawRecord{
		Date:             d.Date,
		Numbers:          numbers,
		UniqueNumbers:    unique,
		Counts:           counts,
		DayOfWeek:        int(d.Date.Weekday()),
		MultiHit2:        []string{},
		MultiHit3:        []string{},
		DoublesLanded:    []string{},
		DigitSumsLanded:  []int{},
		HeadDigitsLanded: []int{},
		TailDigitsLanded: []int{},
		ReversedPairs:    []string{},
		ShadowPairs:      []string{},
	}

	var sums [contracts.DigitSumMax + 1]bool
	var heads, tails [10]bool
	for _, n := range unique {
		c := counts[n]
		if c >= 2 {
			rec.MultiHit2 = append(rec.MultiHit2, n)
		}
		if c >= 3 {
			rec.MultiHit3 = append(rec.MultiHit3, n)
		}
		if contracts.IsDouble(n) {
			rec.DoublesLanded = append(rec.DoublesLanded, n)
		} else if counts[contracts.Reverse(n)] > 0 {
			rec.ReversedPairs = append(rec.ReversedPairs, n)
		}
		if counts[contracts.Shadow(n)] > 0 {
			rec.ShadowPairs = append(rec.ShadowPairs, n)
		}
		sums[contracts.DigitSum(n)] = true
		heads[contracts.Head(n)] = true
		tails[contracts.Tail(n)] = true
	}

	for s, ok := range sums {
		if ok {
			rec.DigitSumsLanded = append(rec.DigitSumsLanded, s)
		}
	}
	for dgt := 0; dgt < 10; dgt++ {
		if heads[dgt] {
			rec.HeadDigitsLanded = append(rec.HeadDigitsLanded, dgt)
		}
		if tails[dgt] {
			rec.TailDigitsLanded = append(rec.TailDigitsLanded, dgt)
		}
	}

	return rec
}
