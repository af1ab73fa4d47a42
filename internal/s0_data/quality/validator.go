package quality

import (
	"time"

	"github.com/wonny/lotoscope/internal/contracts"
	"github.com/wonny/lotoscope/pkg/logger"
)

// maxReportedGaps caps MissingDates so a sparse file does not flood the snapshot
const maxReportedGaps = 50

// QualityGate validates a parsed history before it reaches the record preparer
type QualityGate struct {
	config Config
	logger *logger.Logger
}

// Config holds quality gate thresholds
type Config struct {
	MinWellFormedCoverage float64 `yaml:"min_well_formed_coverage"` // 27개 완전한 날 비율
	MinCalendarCoverage   float64 `yaml:"min_calendar_coverage"`    // 달력상 연속성
	MinNonEmptyCoverage   float64 `yaml:"min_non_empty_coverage"`   // 번호가 있는 날 비율
	MinScore              float64 `yaml:"min_score"`
}

// DefaultConfig returns permissive thresholds (deviations are logged, not rejected)
func DefaultConfig() Config {
	return Config{
		MinWellFormedCoverage: 0.90,
		MinCalendarCoverage:   0.80,
		MinNonEmptyCoverage:   0.95,
		MinScore:              0.70,
	}
}

// NewQualityGate creates a new QualityGate instance
func NewQualityGate(config Config, log *logger.Logger) *QualityGate {
	return &QualityGate{
		config: config,
		logger: log.WithStage(contracts.StageData),
	}
}

// Check validates a sorted draw list
// ⭐ SSOT: S0 → S1 품질 검증
func (g *QualityGate) Check(draws []contracts.RawDraw) *contracts.DataQualitySnapshot {
	snapshot := &contracts.DataQualitySnapshot{
		TotalDays:    len(draws),
		Coverage:     make(map[string]float64),
		MissingDates: []time.Time{},
	}
	if len(draws) == 0 {
		return snapshot
	}
	snapshot.Date = draws[len(draws)-1].Date

	// 1. 일별 건전성
	for _, d := range draws {
		switch {
		case len(d.Numbers) == 0:
			snapshot.EmptyDays++
		case len(d.Numbers) == contracts.DrawsPerDay:
			snapshot.WellFormedDays++
		}
	}

	// 2. 달력 연속성
	spanDays := int(draws[len(draws)-1].Date.Sub(draws[0].Date).Hours()/24) + 1
	for i := 1; i < len(draws); i++ {
		for d := draws[i-1].Date.AddDate(0, 0, 1); d.Before(draws[i].Date); d = d.AddDate(0, 0, 1) {
			if len(snapshot.MissingDates) < maxReportedGaps {
				snapshot.MissingDates = append(snapshot.MissingDates, d)
			}
		}
	}

	total := float64(len(draws))
	snapshot.Coverage["well_formed"] = float64(snapshot.WellFormedDays) / total
	snapshot.Coverage["non_empty"] = float64(len(draws)-snapshot.EmptyDays) / total
	snapshot.Coverage["calendar"] = calendarCoverage(len(draws), spanDays)

	// 3. 품질 점수 계산
	snapshot.QualityScore = g.calculateScore(snapshot.Coverage)
	snapshot.Passed = g.passes(snapshot)

	fields := map[string]interface{}{
		"days":          snapshot.TotalDays,
		"well_formed":   snapshot.WellFormedDays,
		"empty":         snapshot.EmptyDays,
		"missing_dates": len(snapshot.MissingDates),
		"score":         snapshot.QualityScore,
	}
	if snapshot.Passed {
		g.logger.WithFields(fields).Info("History quality check passed")
	} else {
		g.logger.WithFields(fields).Warn("History quality below thresholds")
	}

	return snapshot
}

// calculateScore weights the coverage checks into a 0~1 score
func (g *QualityGate) calculateScore(coverage map[string]float64) float64 {
	weights := map[string]float64{
		"well_formed": 0.5,
		"non_empty":   0.3,
		"calendar":    0.2,
	}

	score := 0.0
	for key, weight := range weights {
		score += coverage[key] * weight
	}
	return score
}

func (g *QualityGate) passes(s *contracts.DataQualitySnapshot) bool {
	return s.Coverage["well_formed"] >= g.config.MinWellFormedCoverage &&
		s.Coverage["calendar"] >= g.config.MinCalendarCoverage &&
		s.Coverage["non_empty"] >= g.config.MinNonEmptyCoverage &&
		s.QualityScore >= g.config.MinScore
}

func calendarCoverage(days, span int) float64 {
	if span <= 0 {
		return 0
	}
	c := float64(days) / float64(span)
	if c > 1 {
		c = 1
	}
	return c
}
