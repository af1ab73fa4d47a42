package s3_strategies

import (
	"github.com/wonny/lotoscope/internal/contracts"
	"github.com/wonny/lotoscope/internal/s2_analyzer"
	"github.com/wonny/lotoscope/internal/strategyconfig"
)

// newPair scores companions and successors of yesterday's numbers (xiên)
func newPair(cfg *strategyconfig.Config, weight float64) *RuleStrategy {
	w := cfg.Windows
	fromLatest := func(matrix func(a *s2_analyzer.Analyzer) *s2_analyzer.CountMatrix) func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
		return func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			mx := matrix(a)
			m := make(contracts.ScoreMap)
			for _, src := range latestUnique(a, 0) {
				for n, c := range mx.Row(src) {
					m[n] += float64(c)
				}
			}
			return normalize(m, 50)
		}
	}

	return newRuleStrategy("pair", weight, cfg, contracts.Universe(),
		Rule{Name: "co_occurrence", Score: fromLatest(func(a *s2_analyzer.Analyzer) *s2_analyzer.CountMatrix {
			return a.PairCoOccurrence(w.Medium)
		})},
		Rule{Name: "successor", Score: fromLatest(func(a *s2_analyzer.Analyzer) *s2_analyzer.CountMatrix {
			return a.SuccessorFrequency(w.Medium)
		})},
	)
}

// newDigitSum scores digit sums that have been away and strong head/tail digits (chạm)
func newDigitSum(cfg *strategyconfig.Config, weight float64) *RuleStrategy {
	w := cfg.Windows
	p := cfg.Params
	return newRuleStrategy("digit_sum", weight, cfg, contracts.Universe(),
		Rule{Name: "digit_sum_gan", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			gan := a.DigitSumGan()
			m := make(contracts.ScoreMap)
			for _, n := range contracts.Universe() {
				g := gan[contracts.DigitSum(n)]
				if g >= a.Len() {
					continue // 한 번도 나오지 않은 합
				}
				if g > 8 {
					g = 8
				}
				m[n] = 5 * float64(g)
			}
			return m
		}},
		Rule{Name: "cham", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			return a.ChamScores(w.Short, p.ChamThresholdPct).Scale(0.5)
		}},
	)
}
