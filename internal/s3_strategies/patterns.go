package s3_strategies

import (
	"github.com/wonny/lotoscope/internal/contracts"
	"github.com/wonny/lotoscope/internal/s2_analyzer"
	"github.com/wonny/lotoscope/internal/strategyconfig"
)

// newDropReversal: lô rơi (repeat next day) and lô lộn (reverse of a recent number)
func newDropReversal(cfg *strategyconfig.Config, weight float64) *RuleStrategy {
	w := cfg.Windows
	return newRuleStrategy("drop_reversal", weight, cfg, contracts.Universe(),
		Rule{Name: "drop_history", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			return fromCounts(a.DropCandidates(w.Short, false), 10)
		}},
		Rule{Name: "landed_yesterday", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			return flat(latestUnique(a, 0), 20)
		}},
		Rule{Name: "reversal", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			return fromCounts(a.ReversalCandidates(w.VeryShort, false), 10)
		}},
		Rule{Name: "bidirectional", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			m := make(contracts.ScoreMap)
			for n, c := range a.ReverseCoOccurrences(w.VeryShort) {
				if c > 0 {
					m[n] = 5
				}
			}
			return m
		}},
	)
}

// newDoubles scores only the ten doubles (kép)
func newDoubles(cfg *strategyconfig.Config, weight float64) *RuleStrategy {
	w := cfg.Windows
	gan := cfg.Gan
	return newRuleStrategy("doubles", weight, cfg, contracts.Doubles(),
		Rule{Name: "doubles_gan", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			m := make(contracts.ScoreMap)
			for n, s := range a.DoublesGan() {
				switch {
				case !s.Seen():
				case gan.Medium.Contains(s.DaysGone):
					m[n] = 30
				case gan.Long.Contains(s.DaysGone):
					m[n] = 20
				}
			}
			return m
		}},
		Rule{Name: "doubles_frequency", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			freq := a.DoublesFrequency(w.Medium)
			total := 0
			for _, c := range freq {
				total += c
			}
			if total == 0 {
				return nil
			}
			return contracts.ScoreMap(s2_analyzer.PercentileRanks(freq)).Scale(0.3)
		}},
		Rule{Name: "doubles_recent", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			m := make(contracts.ScoreMap)
			for _, d := range contracts.Doubles() {
				if a.LandedWithin(d, w.VeryShort) {
					m[d] = 10
				}
			}
			return m
		}},
	)
}

// newBridge scores numbers recurring at a fixed period (cầu) whose next step is tomorrow
func newBridge(cfg *strategyconfig.Config, weight float64) *RuleStrategy {
	bp := cfg.Params.Bridge
	return newRuleStrategy("bridge", weight, cfg, contracts.Universe(),
		Rule{Name: "bridge", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			return flat(a.BridgeCandidates(bp.Window, bp.MinOccurrences, bp.MaxPeriod), 60)
		}},
		Rule{Name: "strong_bridge", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			return flat(a.BridgeCandidates(bp.Window, bp.MinOccurrences+1, bp.MaxPeriod), 20)
		}},
	)
}

// newShadow scores shadow (bóng) counterparts of recent numbers
func newShadow(cfg *strategyconfig.Config, weight float64) *RuleStrategy {
	w := cfg.Windows
	return newRuleStrategy("shadow", weight, cfg, contracts.Universe(),
		Rule{Name: "shadow_landed", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			m := make(contracts.ScoreMap)
			for _, n := range latestUnique(a, 0) {
				m[contracts.Shadow(n)] = 25
			}
			return m
		}},
		Rule{Name: "shadow_pairs", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			return fromCounts(a.ShadowCoOccurrences(w.Medium), 5)
		}},
		Rule{Name: "hot_shadow", Score: func(a *s2_analyzer.Analyzer) contracts.ScoreMap {
			freq := a.NumbersFrequency(w.Short)
			m := make(contracts.ScoreMap, len(freq))
			for n, c := range freq {
				m[contracts.Shadow(n)] = float64(c) * 3
			}
			return m
		}},
	)
}
