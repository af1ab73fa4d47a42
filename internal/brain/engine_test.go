package brain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/lotoscope/internal/contracts"
	"github.com/wonny/lotoscope/internal/s0_data"
	"github.com/wonny/lotoscope/internal/s2_analyzer"
	"github.com/wonny/lotoscope/internal/s3_strategies"
	"github.com/wonny/lotoscope/internal/selection"
	"github.com/wonny/lotoscope/internal/strategyconfig"
	"github.com/wonny/lotoscope/internal/testutil"
	"github.com/wonny/lotoscope/pkg/logger"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(cfg *strategyconfig.Config, strategies []s3_strategies.Strategy) *Engine {
	e := New(cfg, strategies, logger.Nop())
	e.now = func() time.Time { return fixedNow }
	return e
}

func stub(name string, weight float64, fn func(*s2_analyzer.Analyzer) (contracts.ScoreMap, error)) s3_strategies.Strategy {
	return s3_strategies.FuncStrategy{StrategyName: name, StrategyWeight: weight, Fn: fn}
}

func TestPredictNextDay_InsufficientData(t *testing.T) {
	e := newTestEngine(nil, nil)

	_, err := e.PredictNextDay(context.Background(), testutil.RandomHistory(1, 10))
	require.Error(t, err)
	assert.ErrorIs(t, err, contracts.ErrInsufficientData)

	var insufficient *contracts.InsufficientDataError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 200, insufficient.Required)
	assert.Equal(t, 10, insufficient.Got)
}

func TestPredictNextDay_EmptyInput(t *testing.T) {
	draws, warnings := s0_data.ParseText("")
	assert.Empty(t, draws)
	assert.Empty(t, warnings)

	e := newTestEngine(nil, nil)
	_, err := e.PredictNextDay(context.Background(), testutil.Records(draws))
	assert.ErrorIs(t, err, contracts.ErrInsufficientData)
}

func TestPredictNextDay_ExactlyMinHistory(t *testing.T) {
	e := newTestEngine(nil, nil)
	records := testutil.RandomHistory(2024, 200)

	pred, err := e.PredictNextDay(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, pred.Numbers, 16)
	assert.IsIncreasing(t, pred.Numbers)
	for _, n := range pred.Numbers {
		assert.True(t, contracts.IsValidNumber(n), n)
		assert.Contains(t, pred.Contributions, n)
	}
	assert.Len(t, pred.Contributions, 16)
	assert.Empty(t, pred.FailedStrategies)
	assert.Equal(t, 200, pred.BasedOnDays)
	assert.Equal(t, records[199].Date.AddDate(0, 0, 1), pred.TargetDate)
	assert.Equal(t, int(pred.TargetDate.Weekday()), pred.TargetDay)
	assert.Equal(t, e.ConfigHash(), pred.ConfigHash)
	assert.Equal(t, fixedNow, pred.GeneratedAt)
	assert.Len(t, pred.Scores, contracts.UniverseSize)
	assert.Len(t, pred.Exempt, 4)

	// 상위 4개 면제 슬롯 이외에는 머리/꼬리 한도 유지
	if pred.Fallback == 0 {
		assert.Empty(t, selection.Violations(pred.Numbers, pred.Exempt, e.Config().Selection))
	}
	top := pred.Scores.Ranked()[:4]
	for _, rn := range top {
		assert.Contains(t, pred.Exempt, rn.Number)
		assert.True(t, pred.Contains(rn.Number))
	}
}

func TestPredictNextDay_Deterministic(t *testing.T) {
	e := newTestEngine(nil, nil)
	records := testutil.RandomHistory(99, 220)

	first, err := e.PredictNextDay(context.Background(), records)
	require.NoError(t, err)
	second, err := e.PredictNextDay(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPredictNextDay_StrategyFailuresAreIsolated(t *testing.T) {
	frequency, err := s3_strategies.New("frequency", nil)
	require.NoError(t, err)

	e := newTestEngine(nil, []s3_strategies.Strategy{
		stub("exploding", 1, func(*s2_analyzer.Analyzer) (contracts.ScoreMap, error) {
			panic("boom")
		}),
		stub("erroring", 1, func(*s2_analyzer.Analyzer) (contracts.ScoreMap, error) {
			return nil, errors.New("no data")
		}),
		frequency,
	})

	pred, err := e.PredictNextDay(context.Background(), testutil.RandomHistory(5, 200))
	require.NoError(t, err)
	assert.Equal(t, []string{"exploding", "erroring"}, pred.FailedStrategies)
	assert.Len(t, pred.Numbers, 16)

	for _, n := range pred.Numbers {
		assert.NotContains(t, pred.Contributions[n], "exploding")
	}
}

func TestPredictNextDay_SingleStrategyIsolation(t *testing.T) {
	// 42 는 한 번도 나오지 않음
	records := testutil.Records(testutil.PeriodicDraws(8, 200, "07", 5, "42"))

	e := newTestEngine(nil, []s3_strategies.Strategy{
		stub("favourite", 1, func(*s2_analyzer.Analyzer) (contracts.ScoreMap, error) {
			return contracts.ScoreMap{"42": 100}, nil
		}),
	})

	pred, err := e.PredictNextDay(context.Background(), records)
	require.NoError(t, err)

	assert.True(t, pred.Contains("42"))
	assert.Equal(t, "42", pred.Scores.Ranked()[0].Number)
	assert.Equal(t, map[string]float64{"favourite": 100}, pred.Contributions["42"])
}

func TestPredictNextDay_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEngine(nil, nil).PredictNextDay(ctx, testutil.RandomHistory(1, 200))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAdjust(t *testing.T) {
	cfg := strategyconfig.Default()
	cfg.Gan.Extreme = strategyconfig.Range{Min: 2, Max: 0}
	cfg.Adjustments.EmergingRange = strategyconfig.Range{Min: 1, Max: 1}

	records := testutil.Records(testutil.FixedDraws(
		[]string{"50"},
		[]string{"11"},
		[]string{"12", "33"},
	))
	a, err := s2_analyzer.New(records, cfg)
	require.NoError(t, err)

	raw := contracts.NewScoreMap(contracts.Universe())
	for n := range raw {
		raw[n] = 10
	}
	raw["01"] = -5

	got := newTestEngine(cfg, []s3_strategies.Strategy{}).adjust(a, raw)

	tests := []struct {
		number string
		want   float64
	}{
		{"12", 5},  // 최근일 ×0.5
		{"33", 5},  // 최근일 ×0.5
		{"11", 23}, // 이틀 전 ×0.8, 신규 구간 +15
		{"50", 2},  // 극단 간 ×0.2
		{"99", 2},  // 미출현 → 극단 간
		{"21", 12}, // 극단 간 ×0.2, 뒤집기 +10
		{"88", 10}, // 극단 간 ×0.2, 그림자 +8
		{"01", 0},  // 음수 → 0
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, got[tt.number], 1e-9, tt.number)
	}
}

func TestAnalyzeNumber(t *testing.T) {
	e := newTestEngine(nil, nil)
	records := testutil.RandomHistory(17, 200)

	_, err := e.AnalyzeNumber(context.Background(), records, "7")
	assert.ErrorIs(t, err, contracts.ErrInvalidArgument)

	report, err := e.AnalyzeNumber(context.Background(), records, "77")
	require.NoError(t, err)
	assert.Equal(t, "77", report.Reverse)
	assert.Equal(t, "22", report.Shadow)
	assert.Len(t, report.StrategyScores, 12) // 겹수라 doubles 전략 포함

	plain, err := e.AnalyzeNumber(context.Background(), records, "07")
	require.NoError(t, err)
	assert.NotContains(t, plain.StrategyScores, "doubles")
	assert.GreaterOrEqual(t, report.Rank, 1)
	assert.LessOrEqual(t, report.Rank, contracts.UniverseSize)
	assert.Contains(t, report.Frequency, "extended")
}
