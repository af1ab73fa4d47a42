package s3_strategies

import (
	"math"

	"github.com/wonny/lotoscope/internal/contracts"
	"github.com/wonny/lotoscope/internal/s2_analyzer"
	"github.com/wonny/lotoscope/internal/strategyconfig"
)

// newGan scores absence streaks (간)
func newGan(cfg *strategyconfig.Config, weight float64) *RuleStrategy {
	gan := cfg.Gan
	inRange := func(r strategyconfig.Range, score float64) func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
		return func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			m := make(contracts.ScoreMap)
			for _, s := range a.GanInRange(r.Min, r.Max) {
				if s.Seen() {
					m[s.Number] = score
				}
			}
			return m
		}
	}

	return newRuleStrategy("gan", weight, cfg, contracts.Universe(),
		Rule{Name: "medium_gan", Score: inRange(gan.Medium, 40)},
		Rule{Name: "long_gan", Score: inRange(gan.Long, 25)},
		Rule{Name: "extreme_gan", Score: inRange(gan.Extreme, 10)},
		Rule{Name: "typical_absence", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			// 현재 간이 과거 평균 간과 비슷하면 가산
			m := make(contracts.ScoreMap)
			for n, s := range a.AbsencePeriods() {
				if len(s.Completed) == 0 || s.Current == 0 {
					continue
				}
				if math.Abs(float64(s.Current)-s.Mean) <= 1 {
					m[n] = 20
				}
			}
			return m
		}},
	)
}

// newCycle scores numbers whose regular appearance cycle is due
func newCycle(cfg *strategyconfig.Config, weight float64) *RuleStrategy {
	return newRuleStrategy("cycle", weight, cfg, contracts.Universe(),
		Rule{Name: "due", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			cur := float64(a.Len())
			m := make(contracts.ScoreMap)
			for n, p := range a.CycleAnalysis() {
				if len(p.Gaps) < 2 {
					continue
				}
				diff := cur - p.NextDue
				switch {
				case math.Abs(diff) <= 1:
					m[n] = 60 * p.Consistency
				case math.Abs(diff) <= 3:
					m[n] = 30 * p.Consistency
				case diff > 3:
					m[n] = 15 * p.Consistency
				}
			}
			return m
		}},
		Rule{Name: "consistency", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			m := make(contracts.ScoreMap)
			for n, p := range a.CycleAnalysis() {
				if len(p.Gaps) >= 2 {
					m[n] = 20 * p.Consistency
				}
			}
			return m
		}},
	)
}

// newAnomaly flags unusual behaviour: rapid warming, over-long absence, hit streaks, rare digit sums
func newAnomaly(cfg *strategyconfig.Config, weight float64) *RuleStrategy {
	w := cfg.Windows
	p := cfg.Params
	return newRuleStrategy("anomaly", weight, cfg, contracts.Universe(),
		Rule{Name: "rapid_warming", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			short := a.PercentileRanks(w.Short)
			long := a.PercentileRanks(w.VeryLong)
			m := make(contracts.ScoreMap)
			for _, n := range contracts.Universe() {
				if long[n] <= 40 && short[n] >= 80 && a.DaysGone(n) >= 2 {
					m[n] = 35
				}
			}
			return m
		}},
		Rule{Name: "overdue_absence", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			m := make(contracts.ScoreMap)
			for n, s := range a.AbsencePeriods() {
				if len(s.Completed) < 2 {
					continue
				}
				if float64(s.Current) > s.Mean+p.AnomalyStdDevs*s.StdDev {
					m[n] = 30
				}
			}
			return m
		}},
		Rule{Name: "hit_streak", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			m := make(contracts.ScoreMap)
			for _, n := range latestUnique(a, 0) {
				switch streak := a.ConsecutiveStreak(n, p.StreakLookback); {
				case streak >= 3:
					m[n] = 20
				case streak >= 2:
					m[n] = 10
				}
			}
			return m
		}},
		Rule{Name: "rare_digit_sum", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			latest := a.Latest(0)
			if latest == nil {
				return nil
			}
			pct := a.DigitSumPercentiles(w.VeryLong)
			rare := make(map[int]bool)
			for _, s := range latest.DigitSumsLanded {
				if pct[s] <= p.RareDigitSumPercentile {
					rare[s] = true
				}
			}

			m := make(contracts.ScoreMap)
			for _, n := range contracts.Universe() {
				if rare[contracts.DigitSum(n)] {
					m[n] = 15
				}
			}
			return m
		}},
	)
}
