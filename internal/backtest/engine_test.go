package backtest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/lotoscope/internal/brain"
	"github.com/wonny/lotoscope/internal/contracts"
	"github.com/wonny/lotoscope/internal/strategyconfig"
	"github.com/wonny/lotoscope/internal/testutil"
	"github.com/wonny/lotoscope/pkg/logger"
)

// fixedPredictor always predicts the same numbers and records what it was given
type fixedPredictor struct {
	numbers  []string
	contrib  map[string]map[string]float64
	failAt   map[int]bool
	failed   []string
	prefixes [][]contracts.DailyDrawRecord
}

func (p *fixedPredictor) PredictNextDay(_ context.Context, records []contracts.DailyDrawRecord) (*contracts.Prediction, error) {
	p.prefixes = append(p.prefixes, records)
	if p.failAt[len(records)] {
		return nil, errors.New("engine exploded")
	}
	return &contracts.Prediction{
		Numbers:          p.numbers,
		Contributions:    p.contrib,
		FailedStrategies: p.failed,
	}, nil
}

func smallConfig() *strategyconfig.Config {
	cfg := strategyconfig.Default()
	cfg.Engine.MinHistory = 2
	cfg.Engine.DesiredCount = 2
	cfg.Backtest = strategyconfig.Backtest{
		TestDays:         3,
		HighAccuracyHits: 2,
		ProfitHits:       1,
		UnitCost:         10,
		UnitPayout:       30,
	}
	return cfg
}

func smallHistory() []contracts.DailyDrawRecord {
	return testutil.Records(testutil.FixedDraws(
		[]string{"50"},
		[]string{"51"},
		[]string{"01", "02", "02"},
		[]string{"01"},
		[]string{},
	))
}

func newFixedPredictor() *fixedPredictor {
	return &fixedPredictor{
		numbers: []string{"01", "02"},
		contrib: map[string]map[string]float64{
			"01": {"a": 3},
			"02": {"a": 1, "b": 2},
		},
	}
}

func TestRun_Statistics(t *testing.T) {
	p := newFixedPredictor()
	e := NewEngine(p, smallConfig(), logger.Nop())

	report, err := e.Run(context.Background(), smallHistory(), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, report.DaysTested)
	assert.Zero(t, report.FailedDays)
	assert.Equal(t, 3, report.TotalHits)
	assert.InDelta(t, 1.0, report.AverageHits, 1e-9)
	assert.InDelta(t, 1.0, report.HitStdDev, 1e-9)
	assert.Equal(t, []int{1, 1, 1}, report.HitDistribution)

	assert.Equal(t, 1, report.HighAccuracyDays)
	assert.InDelta(t, 100.0/3, report.HighAccuracyPct, 1e-9)
	assert.Equal(t, 2, report.ProfitDays)
	assert.InDelta(t, 200.0/3, report.ProfitPct, 1e-9)

	assert.Equal(t, int64(60), report.TotalInvestment)
	assert.Equal(t, int64(90), report.TotalGains)
	assert.Equal(t, int64(30), report.NetProfit)
	assert.InDelta(t, 50.0, report.ROI, 1e-9)
	assert.Equal(t, int64(20), report.MaxDrawdown)

	require.Len(t, report.Days, 3)
	assert.Equal(t, []string{"01", "02"}, report.Days[0].Hits)
	assert.Equal(t, int64(40), report.Days[0].Cumulative)
	assert.Equal(t, int64(30), report.Days[2].Cumulative)
	assert.Equal(t, testutil.Start.AddDate(0, 0, 2), report.StartDate)
	assert.Equal(t, testutil.Start.AddDate(0, 0, 4), report.EndDate)

	require.Len(t, report.Strategies, 2)
	assert.Equal(t, "a", report.Strategies[0].Name)
	assert.InDelta(t, 9.0, report.Strategies[0].Contributed, 1e-9)
	assert.InDelta(t, 6.0, report.Strategies[0].HitContributed, 1e-9)
	assert.InDelta(t, 200.0/3, report.Strategies[0].HitContributionPct, 1e-9)
	assert.Equal(t, "b", report.Strategies[1].Name)
	assert.InDelta(t, 6.0, report.Strategies[1].Contributed, 1e-9)
	assert.InDelta(t, 2.0, report.Strategies[1].HitContributed, 1e-9)
}

func TestRun_NoLookAhead(t *testing.T) {
	p := newFixedPredictor()
	records := smallHistory()
	e := NewEngine(p, smallConfig(), logger.Nop())

	_, err := e.Run(context.Background(), records, nil)
	require.NoError(t, err)

	require.Len(t, p.prefixes, 3)
	for k, prefix := range p.prefixes {
		i := 2 + k
		assert.Len(t, prefix, i)
		assert.Equal(t, i, cap(prefix), "prefix must not expose later records")
		assert.True(t, prefix[len(prefix)-1].Date.Before(records[i].Date))
	}
}

func TestRun_FailedDayIsFullLoss(t *testing.T) {
	p := newFixedPredictor()
	p.failAt = map[int]bool{3: true} // records[3] 예측 실패
	p.failed = []string{"flaky"}

	report, err := NewEngine(p, smallConfig(), logger.Nop()).Run(context.Background(), smallHistory(), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, report.DaysTested)
	assert.Equal(t, 1, report.FailedDays)
	assert.True(t, report.Days[1].Failed)
	assert.Equal(t, "engine exploded", report.Days[1].Error)
	assert.Zero(t, report.Days[1].HitCount)
	assert.Equal(t, int64(20), report.Days[1].Cost)
	assert.Equal(t, int64(60), report.TotalInvestment)
	assert.Equal(t, 2, report.TotalHits)

	for _, s := range report.Strategies {
		if s.Name == "flaky" {
			assert.Equal(t, 2, s.Failures)
		}
	}
}

func TestRun_InsufficientData(t *testing.T) {
	records := smallHistory()[:2]

	_, err := NewEngine(newFixedPredictor(), smallConfig(), logger.Nop()).Run(context.Background(), records, nil)
	assert.ErrorIs(t, err, contracts.ErrInsufficientData)

	var insufficient *contracts.InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 3, insufficient.Required)
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine(newFixedPredictor(), smallConfig(), logger.Nop()).Run(ctx, smallHistory(), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_Progress(t *testing.T) {
	var calls [][2]int
	progress := func(done, total int) { calls = append(calls, [2]int{done, total}) }

	_, err := NewEngine(newFixedPredictor(), smallConfig(), logger.Nop()).Run(context.Background(), smallHistory(), progress)
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, calls)
}

func TestWindow(t *testing.T) {
	e := NewEngine(newFixedPredictor(), nil, logger.Nop())

	tests := []struct {
		n         int
		wantStart int
	}{
		{400, 250},
		{300, 200}, // MinHistory 이전 날짜는 제외
		{200, 200},
	}
	for _, tt := range tests {
		start, end := e.Window(tt.n)
		assert.Equal(t, tt.wantStart, start, "n=%d", tt.n)
		assert.Equal(t, tt.n, end)
	}
}

func TestRun_DeterministicWithEngine(t *testing.T) {
	cfg := strategyconfig.Default()
	cfg.Engine.MinHistory = 30
	cfg.Backtest.TestDays = 4

	records := testutil.RandomHistory(77, 40)
	run := func() *contracts.BacktestReport {
		e := NewEngine(brain.New(cfg, nil, logger.Nop()), cfg, logger.Nop())
		report, err := e.Run(context.Background(), records, nil)
		require.NoError(t, err)
		report.Duration = 0
		return report
	}

	first, second := run(), run()
	assert.Equal(t, first, second)
	assert.Equal(t, 4, first.DaysTested)
	assert.NotEmpty(t, first.ConfigHash)
	for _, d := range first.Days {
		assert.Len(t, d.Predicted, 16)
	}
}

func TestRun_ConfigHashFollowsOverride(t *testing.T) {
	base := smallConfig()
	override := *base
	override.Backtest.TestDays = 2

	wantBase, err := strategyconfig.Hash(base)
	require.NoError(t, err)
	wantOverride, err := strategyconfig.Hash(&override)
	require.NoError(t, err)
	require.NotEqual(t, wantBase, wantOverride)

	tests := []struct {
		name string
		cfg  *strategyconfig.Config
		want string
		days int
	}{
		{"configured window", base, wantBase, 3},
		{"overridden window", &override, wantOverride, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(newFixedPredictor(), tt.cfg, logger.Nop())
			report, err := e.Run(context.Background(), smallHistory(), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.days, report.DaysTested)
			assert.Equal(t, tt.want, report.ConfigHash)
		})
	}
}

func TestSimulator(t *testing.T) {
	s := NewSimulator(100, 250, 4, logger.Nop())
	s.Initialize()

	cost, gain, cum := s.Settle(0)
	assert.Equal(t, int64(400), cost)
	assert.Zero(t, gain)
	assert.Equal(t, int64(-400), cum)

	_, _, cum = s.Settle(4)
	assert.Equal(t, int64(200), cum)

	_, _, cum = s.Settle(1)
	assert.Equal(t, int64(50), cum)

	st := s.GetStats()
	assert.Equal(t, 3, st.Days)
	assert.Equal(t, int64(1200), st.Investment)
	assert.Equal(t, int64(1250), st.Gains)
	assert.Equal(t, int64(50), st.NetProfit)
	assert.Equal(t, int64(150), st.MaxDrawdown)
	assert.InDelta(t, 50.0/1200*100, st.ROI, 1e-9)
}
