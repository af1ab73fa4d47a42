package s3_strategies

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/lotoscope/internal/contracts"
	"github.com/wonny/lotoscope/internal/s2_analyzer"
	"github.com/wonny/lotoscope/internal/strategyconfig"
	"github.com/wonny/lotoscope/internal/testutil"
)

func analyzerFor(t *testing.T, draws []contracts.RawDraw) *s2_analyzer.Analyzer {
	t.Helper()
	a, err := s2_analyzer.New(testutil.Records(draws), nil)
	require.NoError(t, err)
	return a
}

func TestRegistry_DefaultOrderAndWeights(t *testing.T) {
	strategies := Registry(nil)
	require.Len(t, strategies, 12)

	cfg := strategyconfig.Default()
	for i, s := range strategies {
		assert.Equal(t, strategyconfig.StrategyNames[i], s.Name())
		toggle, ok := cfg.Strategies.Toggle(s.Name())
		require.True(t, ok)
		assert.Equal(t, toggle.Weight, s.Weight())
	}
}

func TestRegistry_SkipsDisabled(t *testing.T) {
	cfg := strategyconfig.Default()
	cfg.Strategies.Doubles.Enabled = false
	cfg.Strategies.Zone.Enabled = false
	cfg.Strategies.Cycle.Weight = 2.5

	strategies := Registry(cfg)
	require.Len(t, strategies, 10)

	names := make([]string, 0, len(strategies))
	for _, s := range strategies {
		names = append(names, s.Name())
		if s.Name() == "cycle" {
			assert.Equal(t, 2.5, s.Weight())
		}
	}
	assert.NotContains(t, names, "doubles")
	assert.NotContains(t, names, "zone")
}

func TestNew(t *testing.T) {
	s, err := New("bridge", nil)
	require.NoError(t, err)
	assert.Equal(t, "bridge", s.Name())
	assert.Equal(t, []string{"bridge", "strong_bridge"}, s.RuleNames())

	_, err = New("astrology", nil)
	assert.ErrorIs(t, err, contracts.ErrInvalidArgument)
}

func TestStrategies_ScoresWithinBounds(t *testing.T) {
	a := analyzerFor(t, testutil.RandomDraws(11, 220))
	maxScore := strategyconfig.Default().Params.MaxStrategyScore

	for _, s := range Registry(nil) {
		t.Run(s.Name(), func(t *testing.T) {
			scores, err := s.Predict(a)
			require.NoError(t, err)

			want := contracts.UniverseSize
			if s.Name() == "doubles" {
				want = 10
			}
			assert.Len(t, scores, want)
			for n, v := range scores {
				assert.True(t, contracts.IsValidNumber(n), n)
				assert.GreaterOrEqual(t, v, 0.0, n)
				assert.LessOrEqual(t, v, maxScore, n)
			}
		})
	}
}

func TestStrategies_Deterministic(t *testing.T) {
	draws := testutil.RandomDraws(3, 150)

	for _, s := range Registry(nil) {
		first, err := s.Predict(analyzerFor(t, draws))
		require.NoError(t, err)
		second, err := s.Predict(analyzerFor(t, draws))
		require.NoError(t, err)
		assert.Equal(t, first, second, s.Name())
	}
}

func TestStrategies_DegenerateHistories(t *testing.T) {
	histories := map[string][]contracts.RawDraw{
		"single day":   testutil.FixedDraws([]string{"01", "02"}),
		"empty days":   testutil.FixedDraws([]string{}, []string{}, []string{}),
		"one number":   testutil.FixedDraws([]string{"07"}, []string{"07"}, []string{"07"}),
		"short random": testutil.RandomDraws(9, 4),
	}

	for name, draws := range histories {
		t.Run(name, func(t *testing.T) {
			a := analyzerFor(t, draws)
			for _, s := range Registry(nil) {
				assert.NotPanics(t, func() {
					scores, err := s.Predict(a)
					require.NoError(t, err)
					for n, v := range scores {
						assert.GreaterOrEqual(t, v, 0.0, "%s %s", s.Name(), n)
					}
				}, s.Name())
			}
		})
	}
}

func TestPredict_NilAnalyzer(t *testing.T) {
	s, err := New("frequency", nil)
	require.NoError(t, err)

	_, err = s.Predict(nil)
	assert.ErrorIs(t, err, contracts.ErrInvalidArgument)
}

func TestCycle_PeriodicNumberOutscoresAbsent(t *testing.T) {
	a := analyzerFor(t, testutil.PeriodicDraws(3, 200, "07", 5, "99"))

	s, err := New("cycle", nil)
	require.NoError(t, err)
	scores, err := s.Predict(a)
	require.NoError(t, err)

	// 주기 5, 표준편차 0, 다음 예정일 = 200
	assert.InDelta(t, 80.0, scores["07"], 1e-9)
	assert.Zero(t, scores["99"])
	assert.Greater(t, scores["07"], scores["99"]+50)
}

func TestBridge_ScoresPeriodicNumber(t *testing.T) {
	a := analyzerFor(t, testutil.PeriodicDraws(5, 100, "07", 5, "99"))

	s, err := New("bridge", nil)
	require.NoError(t, err)
	scores, err := s.Predict(a)
	require.NoError(t, err)

	assert.InDelta(t, 80.0, scores["07"], 1e-9)
	assert.Zero(t, scores["99"])
}

func TestDropReversal_Rules(t *testing.T) {
	a := analyzerFor(t, testutil.FixedDraws(
		[]string{"12", "40"},
		[]string{"12", "21"},
	))

	s, err := New("drop_reversal", nil)
	require.NoError(t, err)
	rules := s.RuleBreakdown(a)

	assert.Equal(t, 10.0, rules["drop_history"]["12"])
	assert.Equal(t, 20.0, rules["landed_yesterday"]["21"])
	assert.Zero(t, rules["landed_yesterday"]["40"])
	// 40 → 04 한 번, 12 → 21 두 번, 21 → 12 한 번
	assert.Equal(t, 10.0, rules["reversal"]["04"])
	assert.Equal(t, 20.0, rules["reversal"]["21"])
	assert.Equal(t, 10.0, rules["reversal"]["12"])
	assert.Equal(t, 5.0, rules["bidirectional"]["12"])
	assert.Equal(t, 5.0, rules["bidirectional"]["21"])
}

func TestDoubles_OnlyScoresDoubles(t *testing.T) {
	a := analyzerFor(t, testutil.RandomDraws(21, 60))

	s, err := New("doubles", nil)
	require.NoError(t, err)
	scores, err := s.Predict(a)
	require.NoError(t, err)

	assert.ElementsMatch(t, contracts.Doubles(), keys(scores))
}

func TestShadow_LandedYesterday(t *testing.T) {
	a := analyzerFor(t, testutil.FixedDraws([]string{"99"}, []string{"12"}))

	s, err := New("shadow", nil)
	require.NoError(t, err)
	rules := s.RuleBreakdown(a)

	assert.Equal(t, 25.0, rules["shadow_landed"]["67"])
	assert.Zero(t, rules["shadow_landed"]["44"])
	assert.Equal(t, 3.0, rules["hot_shadow"]["44"])
}

func TestPair_NormalizedToFifty(t *testing.T) {
	a := analyzerFor(t, testutil.RandomDraws(4, 40))

	s, err := New("pair", nil)
	require.NoError(t, err)
	rules := s.RuleBreakdown(a)

	assert.InDelta(t, 50.0, rules["co_occurrence"].Max(), 1e-9)
	assert.InDelta(t, 50.0, rules["successor"].Max(), 1e-9)
}

func TestAnomaly_HitStreak(t *testing.T) {
	a := analyzerFor(t, testutil.FixedDraws(
		[]string{"05", "06"},
		[]string{"05", "06"},
		[]string{"05", "06", "08"},
		[]string{"05", "08"},
	))

	s, err := New("anomaly", nil)
	require.NoError(t, err)
	rules := s.RuleBreakdown(a)

	assert.Equal(t, 20.0, rules["hit_streak"]["05"])
	assert.Equal(t, 10.0, rules["hit_streak"]["08"])
	assert.Zero(t, rules["hit_streak"]["06"])
}

func TestFuncStrategy(t *testing.T) {
	boom := errors.New("boom")
	f := FuncStrategy{
		StrategyName:   "stub",
		StrategyWeight: 0.5,
		Fn: func(*s2_analyzer.Analyzer) (contracts.ScoreMap, error) {
			return nil, boom
		},
	}

	var s Strategy = f
	assert.Equal(t, "stub", s.Name())
	assert.Equal(t, 0.5, s.Weight())
	_, err := s.Predict(nil)
	assert.ErrorIs(t, err, boom)
}

func TestNormalize(t *testing.T) {
	assert.Empty(t, normalize(contracts.ScoreMap{"01": 0}, 50))

	got := normalize(contracts.ScoreMap{"01": 2, "02": 4}, 50)
	assert.InDelta(t, 25.0, got["01"], 1e-9)
	assert.InDelta(t, 50.0, got["02"], 1e-9)
}

func keys(m contracts.ScoreMap) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
