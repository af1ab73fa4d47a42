package backtest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/wonny/lotoscope/internal/contracts"
	"github.com/wonny/lotoscope/internal/strategyconfig"
	loggerpkg "github.com/wonny/lotoscope/pkg/logger"
)

// Engine replays a predictor over the trailing history without look-ahead
// ⭐ SSOT: 백테스팅 실행은 여기서만
type Engine struct {
	predictor  contracts.Predictor
	simulator  *Simulator
	cfg        strategyconfig.Backtest
	minHistory int
	configHash string
	logger     *loggerpkg.Logger
}

// NewEngine creates a new backtest engine. cfg nil means strategyconfig.Default().
func NewEngine(predictor contracts.Predictor, cfg *strategyconfig.Config, logger *loggerpkg.Logger) *Engine {
	if cfg == nil {
		cfg = strategyconfig.Default()
	}
	if logger == nil {
		logger = loggerpkg.Nop()
	}

	e := &Engine{
		predictor:  predictor,
		simulator:  NewSimulator(cfg.Backtest.UnitCost, cfg.Backtest.UnitPayout, cfg.Engine.DesiredCount, logger),
		cfg:        cfg.Backtest,
		minHistory: cfg.Engine.MinHistory,
		logger:     logger,
	}
	// 리포트 해시는 실제 실행 설정 기준 (API의 days 오버라이드 포함)
	if hash, err := strategyconfig.Hash(cfg); err == nil {
		e.configHash = hash
	} else if h, ok := predictor.(interface{ ConfigHash() string }); ok {
		e.configHash = h.ConfigHash()
	}
	return e
}

// Window returns the record indices [start, end) that Run would test
func (e *Engine) Window(n int) (start, end int) {
	start = n - e.cfg.TestDays
	if start < e.minHistory {
		start = e.minHistory
	}
	if start < 1 {
		start = 1
	}
	return start, n
}

// Run predicts every day index i in the trailing window from records[:i] only and
// scores the prediction against records[i]. progress may be nil.
func (e *Engine) Run(ctx context.Context, records []contracts.DailyDrawRecord, progress contracts.ProgressFunc) (*contracts.BacktestReport, error) {
	startTime := time.Now()

	start, end := e.Window(len(records))
	if start >= end {
		return nil, &contracts.InsufficientDataError{Required: e.minHistory + 1, Got: len(records)}
	}
	total := end - start

	e.logger.WithStage(contracts.StageBacktest).WithFields(map[string]interface{}{
		"start_date": records[start].Date.Format("2006-01-02"),
		"end_date":   records[end-1].Date.Format("2006-01-02"),
		"days":       total,
	}).Info("Starting backtest")

	report := &contracts.BacktestReport{
		Days:            make([]contracts.DayResult, 0, total),
		HitDistribution: make([]int, 0),
		StartDate:       records[start].Date,
		EndDate:         records[end-1].Date,
		ConfigHash:      e.configHash,
	}
	attribution := newAttribution()
	e.simulator.Initialize()

	hits := make([]float64, 0, total)
	for i := start; i < end; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("backtest canceled at day %d/%d: %w", i-start, total, err)
		}

		day := e.runDay(ctx, records, i, attribution)
		day.Cost, day.Gain, day.Cumulative = e.simulator.Settle(day.HitCount)
		report.Days = append(report.Days, day)
		hits = append(hits, float64(day.HitCount))

		if progress != nil {
			progress(i-start+1, total)
		}
	}

	e.summarize(report, hits)
	report.Strategies = attribution.stats()
	report.Duration = time.Since(startTime)

	e.logger.WithStage(contracts.StageBacktest).WithDuration(report.Duration).WithFields(map[string]interface{}{
		"days_tested":  report.DaysTested,
		"failed_days":  report.FailedDays,
		"average_hits": fmt.Sprintf("%.2f", report.AverageHits),
		"roi":          fmt.Sprintf("%.2f%%", report.ROI),
	}).Info("Backtest completed")

	return report, nil
}

// runDay predicts records[i] from the strict prefix records[:i]
func (e *Engine) runDay(ctx context.Context, records []contracts.DailyDrawRecord, i int, attr *attribution) contracts.DayResult {
	actual := &records[i]
	day := contracts.DayResult{
		Index:     i,
		Date:      actual.Date,
		Predicted: []string{},
		Hits:      []string{},
	}

	// cap = i 로 제한해 예측기가 이후 레코드를 볼 수 없게 함
	prefix := records[:i:i]

	pred, err := e.predictor.PredictNextDay(ctx, prefix)
	if err != nil {
		day.Failed = true
		day.Error = err.Error()
		e.logger.WithFields(map[string]interface{}{
			"index": i,
			"date":  actual.Date.Format("2006-01-02"),
			"error": err.Error(),
		}).Warn("Prediction failed, counted as a zero-hit day")
		return day
	}

	day.Predicted = pred.Numbers
	day.Hits = pred.Hits(actual)
	day.HitCount = len(day.Hits)
	attr.add(pred, actual)
	return day
}

// summarize fills the aggregate statistics
func (e *Engine) summarize(r *contracts.BacktestReport, hits []float64) {
	r.DaysTested = len(r.Days)

	maxHits := 0
	for _, d := range r.Days {
		if d.Failed {
			r.FailedDays++
		}
		r.TotalHits += d.HitCount
		if d.HitCount >= e.cfg.HighAccuracyHits {
			r.HighAccuracyDays++
		}
		if d.HitCount >= e.cfg.ProfitHits {
			r.ProfitDays++
		}
		if d.HitCount > maxHits {
			maxHits = d.HitCount
		}
	}

	r.HitDistribution = make([]int, maxHits+1)
	for _, d := range r.Days {
		r.HitDistribution[d.HitCount]++
	}

	if r.DaysTested > 0 {
		n := float64(r.DaysTested)
		r.AverageHits = stat.Mean(hits, nil)
		if len(hits) > 1 {
			r.HitStdDev = stat.StdDev(hits, nil)
		}
		r.HighAccuracyPct = float64(r.HighAccuracyDays) / n * 100
		r.ProfitPct = float64(r.ProfitDays) / n * 100
	}

	st := e.simulator.GetStats()
	r.TotalInvestment = st.Investment
	r.TotalGains = st.Gains
	r.NetProfit = st.NetProfit
	r.ROI = st.ROI
	r.MaxDrawdown = st.MaxDrawdown
}

// attribution accumulates per-strategy contributions on selected numbers
type attribution struct {
	byName map[string]*contracts.StrategyStats
}

func newAttribution() *attribution {
	return &attribution{byName: make(map[string]*contracts.StrategyStats)}
}

func (a *attribution) get(name string) *contracts.StrategyStats {
	s, ok := a.byName[name]
	if !ok {
		s = &contracts.StrategyStats{Name: name}
		a.byName[name] = s
	}
	return s
}

func (a *attribution) add(pred *contracts.Prediction, actual *contracts.DailyDrawRecord) {
	for _, name := range pred.FailedStrategies {
		a.get(name).Failures++
	}
	for _, n := range pred.Numbers {
		hit := actual.Has(n)
		for name, v := range pred.Contributions[n] {
			s := a.get(name)
			s.Contributed += v
			if hit {
				s.HitContributed += v
			}
		}
	}
}

// stats returns strategies by contributed score descending, ties by name
func (a *attribution) stats() []contracts.StrategyStats {
	out := make([]contracts.StrategyStats, 0, len(a.byName))
	for _, s := range a.byName {
		if s.Contributed > 0 {
			s.HitContributionPct = s.HitContributed / s.Contributed * 100
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Contributed != out[j].Contributed {
			return out[i].Contributed > out[j].Contributed
		}
		return out[i].Name < out[j].Name
	})
	return out
}
