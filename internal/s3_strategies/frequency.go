package s3_strategies

import (
	"sort"

	"github.com/wonny/lotoscope/internal/contracts"
	"github.com/wonny/lotoscope/internal/s2_analyzer"
	"github.com/wonny/lotoscope/internal/strategyconfig"
)

// newFrequency: recent counts plus medium/long percentile standing
func newFrequency(cfg *strategyconfig.Config, weight float64) *RuleStrategy {
	w := cfg.Windows
	return newRuleStrategy("frequency", weight, cfg, contracts.Universe(),
		Rule{Name: "recent_count", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			return fromCounts(a.NumbersFrequency(w.Short), 8)
		}},
		Rule{Name: "medium_percentile", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			return contracts.ScoreMap(a.PercentileRanks(w.Medium)).Scale(0.3)
		}},
		Rule{Name: "long_percentile", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			return contracts.ScoreMap(a.PercentileRanks(w.VeryLong)).Scale(0.2)
		}},
	)
}

// newWeekday: average count on the weekday of the next draw
func newWeekday(cfg *strategyconfig.Config, weight float64) *RuleStrategy {
	w := cfg.Windows
	return newRuleStrategy("weekday", weight, cfg, contracts.Universe(),
		Rule{Name: "weekday_average", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			stats := a.WeekdayFrequency(a.NextWeekday(), w.VeryLong)
			return contracts.ScoreMap(stats.Averages).Scale(60)
		}},
		Rule{Name: "weekday_top", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			stats := a.WeekdayFrequency(a.NextWeekday(), w.VeryLong)
			if stats.MatchingDays == 0 {
				return nil
			}
			nums := contracts.Universe()
			sort.SliceStable(nums, func(i, j int) bool {
				return stats.Totals[nums[i]] > stats.Totals[nums[j]]
			})
			top := make([]string, 0, 10)
			for _, n := range nums[:10] {
				if stats.Totals[n] > 0 {
					top = append(top, n)
				}
			}
			return flat(top, 15)
		}},
	)
}

// newZone: rebalance toward bands that landed less than average recently
func newZone(cfg *strategyconfig.Config, weight float64) *RuleStrategy {
	w := cfg.Windows
	gan := cfg.Gan
	return newRuleStrategy("zone", weight, cfg, contracts.Universe(),
		Rule{Name: "cold_zone", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			zones := a.ZoneFrequency(w.Short)
			total := 0
			for _, c := range zones {
				total += c
			}
			mean := float64(total) / contracts.ZoneCount
			if mean == 0 {
				return nil
			}

			m := make(contracts.ScoreMap)
			for _, n := range contracts.Universe() {
				if f := float64(zones[a.ZoneOf(n)]); f < mean {
					m[n] = 40 * (mean - f) / mean
				}
			}
			return m
		}},
		Rule{Name: "coldest_zone_gan", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			zones := a.ZoneFrequency(w.Short)
			coldest := 0
			for z := 1; z < contracts.ZoneCount; z++ {
				if zones[z] < zones[coldest] {
					coldest = z
				}
			}

			m := make(contracts.ScoreMap)
			for _, s := range a.GanInRange(gan.Medium.Min, gan.Medium.Max) {
				if a.ZoneOf(s.Number) == coldest {
					m[s.Number] = 10
				}
			}
			return m
		}},
	)
}
