package brain

import (
	"context"
	"fmt"

	"github.com/wonny/lotoscope/internal/contracts"
	"github.com/wonny/lotoscope/internal/s2_analyzer"
)

// NumberReport explains how one number stands in the history and in the current scoring
type NumberReport struct {
	Number    string                         `json:"number"`
	Gan       s2_analyzer.AbsenceStatus      `json:"gan"`
	Frequency map[string]int                 `json:"frequency"` // window name -> count
	Trend     s2_analyzer.TrendClass         `json:"trend"`
	Cycle     s2_analyzer.CycleProfile       `json:"cycle"`
	Absence   s2_analyzer.AbsencePeriodStats `json:"absence"`
	Reverse   string                         `json:"reverse"`
	Shadow    string                         `json:"shadow"`

	StrategyScores map[string]float64 `json:"strategy_scores"` // 가중치 적용 전
	RawScore       float64            `json:"raw_score"`
	AdjustedScore  float64            `json:"adjusted_score"`
	Rank           int                `json:"rank"`
	Failed         []string           `json:"failed_strategies,omitempty"`
}

// AnalyzeNumber scores the history like PredictNextDay and reports on a single number
func (e *Engine) AnalyzeNumber(ctx context.Context, records []contracts.DailyDrawRecord, number string) (*NumberReport, error) {
	if !contracts.IsValidNumber(number) {
		return nil, fmt.Errorf("number %q is not in 00..99: %w", number, contracts.ErrInvalidArgument)
	}

	sc, err := e.Score(ctx, records)
	if err != nil {
		return nil, err
	}
	a := sc.Analyzer
	w := e.cfg.Windows

	report := &NumberReport{
		Number: number,
		Gan:    a.GanStatus()[number],
		Frequency: map[string]int{
			"very_short": a.NumbersFrequency(w.VeryShort)[number],
			"short":      a.NumbersFrequency(w.Short)[number],
			"medium":     a.NumbersFrequency(w.Medium)[number],
			"long":       a.NumbersFrequency(w.Long)[number],
			"very_long":  a.NumbersFrequency(w.VeryLong)[number],
			"extended":   a.NumbersFrequency(w.Extended)[number],
		},
		Trend:          a.Trend(number, w.Short, w.VeryLong),
		Cycle:          a.CycleAnalysis()[number],
		Absence:        a.AbsencePeriods()[number],
		Reverse:        contracts.Reverse(number),
		Shadow:         contracts.Shadow(number),
		StrategyScores: make(map[string]float64, len(sc.Outputs)),
		RawScore:       sc.Raw[number],
		AdjustedScore:  sc.Adjusted[number],
		Failed:         sc.Failed,
	}

	for _, out := range sc.Outputs {
		if v, ok := out.Scores[number]; ok {
			report.StrategyScores[out.Name] = v
		}
	}
	for _, rn := range sc.Adjusted.Ranked() {
		if rn.Number == number {
			report.Rank = rn.Rank
			break
		}
	}

	return report, nil
}
