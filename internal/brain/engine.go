package brain

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/wonny/lotoscope/internal/contracts"
	"github.com/wonny/lotoscope/internal/s2_analyzer"
	"github.com/wonny/lotoscope/internal/s3_strategies"
	"github.com/wonny/lotoscope/internal/selection"
	"github.com/wonny/lotoscope/internal/strategyconfig"
	"github.com/wonny/lotoscope/pkg/logger"
)

// Engine turns a history into the next-day prediction (S2 → S3 → S4)
// ⭐ SSOT: 다음 회차 예측은 여기서만
type Engine struct {
	cfg        *strategyconfig.Config
	configHash string
	strategies []s3_strategies.Strategy

	ranker   *selection.Ranker
	selector *selection.Selector
	logger   *logger.Logger

	now func() time.Time
}

// Scoring is the intermediate result of one prediction
type Scoring struct {
	Analyzer      *s2_analyzer.Analyzer
	Outputs       []selection.StrategyOutput
	Raw           contracts.ScoreMap // 가중 합산 (보정 전)
	Adjusted      contracts.ScoreMap // 전역 보정 후
	Contributions map[string]map[string]float64
	Failed        []string
}

// New creates an engine. cfg nil means strategyconfig.Default(); strategies nil means
// s3_strategies.Registry(cfg). An explicit slice lets tests isolate single strategies.
func New(cfg *strategyconfig.Config, strategies []s3_strategies.Strategy, log *logger.Logger) *Engine {
	if cfg == nil {
		cfg = strategyconfig.Default()
	}
	if strategies == nil {
		strategies = s3_strategies.Registry(cfg)
	}
	if log == nil {
		log = logger.Nop()
	}

	hash, err := strategyconfig.Hash(cfg)
	if err != nil {
		log.WithError(err).Warn("Failed to hash strategy config")
	}

	return &Engine{
		cfg:        cfg,
		configHash: hash,
		strategies: strategies,
		ranker:     selection.NewRanker(log),
		selector:   selection.NewSelector(cfg.Selection, cfg.Engine.DesiredCount, log),
		logger:     log,
		now:        time.Now,
	}
}

// Config returns the engine configuration (read-only)
func (e *Engine) Config() *strategyconfig.Config {
	return e.cfg
}

// ConfigHash returns the sha256 of the configuration
func (e *Engine) ConfigHash() string {
	return e.configHash
}

// Strategies returns the strategies in evaluation order
func (e *Engine) Strategies() []s3_strategies.Strategy {
	return append([]s3_strategies.Strategy(nil), e.strategies...)
}

// PredictNextDay predicts DesiredCount numbers for the day after the last record
func (e *Engine) PredictNextDay(ctx context.Context, records []contracts.DailyDrawRecord) (*contracts.Prediction, error) {
	sc, err := e.Score(ctx, records)
	if err != nil {
		return nil, err
	}

	ranked := e.ranker.Rank(sc.Adjusted)
	res := e.selector.Select(ranked)

	// 선택된 번호의 전략별 기여도 (보정 전 가중 점수)
	contributions := make(map[string]map[string]float64, len(res.Numbers))
	for _, n := range res.Numbers {
		row := make(map[string]float64, len(sc.Contributions[n]))
		for name, v := range sc.Contributions[n] {
			row[name] = v
		}
		contributions[n] = row
	}

	pred := &contracts.Prediction{
		TargetDate:       sc.Analyzer.NextDrawDate(),
		TargetDay:        sc.Analyzer.NextWeekday(),
		BasedOnDays:      len(records),
		Numbers:          res.Numbers,
		Exempt:           res.Exempt,
		Fallback:         res.Fallback + res.Filled,
		Scores:           sc.Adjusted,
		Contributions:    contributions,
		FailedStrategies: sc.Failed,
		ConfigHash:       e.configHash,
		GeneratedAt:      e.now(),
	}

	e.logger.WithStage(contracts.StageSelection).WithFields(map[string]interface{}{
		"target_date": pred.TargetDate.Format("2006-01-02"),
		"based_on":    pred.BasedOnDays,
		"numbers":     pred.Numbers,
		"failed":      len(pred.FailedStrategies),
	}).Debug("Prediction generated")

	return pred, nil
}

// Score runs every strategy over the history and applies the global adjustments
func (e *Engine) Score(ctx context.Context, records []contracts.DailyDrawRecord) (*Scoring, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	required := e.cfg.Engine.MinHistory
	if len(records) < required || len(records) == 0 {
		return nil, &contracts.InsufficientDataError{Required: required, Got: len(records)}
	}

	a, err := s2_analyzer.New(records, e.cfg)
	if err != nil {
		return nil, fmt.Errorf("build analyzer: %w", err)
	}

	outputs, failed := e.runStrategies(a)
	raw, contributions := e.ranker.Aggregate(outputs)

	return &Scoring{
		Analyzer:      a,
		Outputs:       outputs,
		Raw:           raw,
		Adjusted:      e.adjust(a, raw),
		Contributions: contributions,
		Failed:        failed,
	}, nil
}

// runStrategies evaluates each strategy in order; failures are logged and skipped
func (e *Engine) runStrategies(a *s2_analyzer.Analyzer) ([]selection.StrategyOutput, []string) {
	outputs := make([]selection.StrategyOutput, 0, len(e.strategies))
	failed := make([]string, 0)

	for _, s := range e.strategies {
		scores, err := runStrategy(s, a)
		if err != nil {
			e.logger.WithStage(contracts.StageStrategies).WithFields(map[string]interface{}{
				"strategy": s.Name(),
				"error":    err.Error(),
			}).Warn("Strategy failed, contribution skipped")
			failed = append(failed, s.Name())
			continue
		}
		outputs = append(outputs, selection.StrategyOutput{
			Name:   s.Name(),
			Weight: s.Weight(),
			Scores: scores,
		})
	}
	return outputs, failed
}

// runStrategy converts panics into errors and drops non-finite scores
func runStrategy(s s3_strategies.Strategy, a *s2_analyzer.Analyzer) (scores contracts.ScoreMap, err error) {
	defer func() {
		if r := recover(); r != nil {
			scores = nil
			err = fmt.Errorf("strategy %s panicked: %v", s.Name(), r)
		}
	}()

	scores, err = s.Predict(a)
	if err != nil {
		return nil, fmt.Errorf("strategy %s: %w", s.Name(), err)
	}

	clean := make(contracts.ScoreMap, len(scores))
	for n, v := range scores {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		clean[n] = v
	}
	return clean, nil
}

// adjust applies recency penalties, absence rules and counterpart bonuses, then clamps at 0
func (e *Engine) adjust(a *s2_analyzer.Analyzer, raw contracts.ScoreMap) contracts.ScoreMap {
	adj := e.cfg.Adjustments
	extreme := e.cfg.Gan.Extreme
	latest, prior := a.Latest(0), a.Latest(1)
	gan := a.GanStatus()

	out := make(contracts.ScoreMap, len(raw))
	for n, v := range raw {
		if latest != nil && latest.Has(n) {
			v *= adj.LatestDayFactor
		}
		if prior != nil && prior.Has(n) {
			v *= adj.TwoDaysAgoFactor
		}

		daysGone := gan[n].DaysGone
		if extreme.Contains(daysGone) && v < adj.LowScoreThreshold {
			v *= adj.ExtremeGanFactor
		}
		if adj.EmergingRange.Contains(daysGone) {
			v += adj.EmergingBonus
		}

		if latest != nil {
			if !contracts.IsDouble(n) && latest.Has(contracts.Reverse(n)) {
				v += adj.ReverseBonus
			}
			if latest.Has(contracts.Shadow(n)) {
				v += adj.ShadowBonus
			}
		}
		out[n] = v
	}
	return out.Clamp(0, math.Inf(1))
}
