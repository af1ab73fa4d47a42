package selection

import (
	"github.com/wonny/lotoscope/internal/contracts"
	"github.com/wonny/lotoscope/pkg/logger"
)

// StrategyOutput is one strategy's clamped scores with its weight
type StrategyOutput struct {
	Name   string
	Weight float64
	Scores contracts.ScoreMap
}

// Ranker blends weighted strategy outputs and ranks the universe
// ⭐ SSOT: S4 가중 합산 및 랭킹 로직은 여기서만
type Ranker struct {
	logger *logger.Logger
}

// NewRanker creates a new ranker
func NewRanker(log *logger.Logger) *Ranker {
	return &Ranker{
		logger: log,
	}
}

// Aggregate sums weight × score over every output into a map covering the whole universe.
// contributions[number][strategy] holds each non-zero weighted term.
func (r *Ranker) Aggregate(outputs []StrategyOutput) (contracts.ScoreMap, map[string]map[string]float64) {
	total := contracts.NewScoreMap(contracts.Universe())
	contributions := make(map[string]map[string]float64, contracts.UniverseSize)

	for _, out := range outputs {
		weighted := out.Scores.Scale(out.Weight)
		total = total.Add(weighted)

		for n, v := range weighted {
			if v == 0 || !contracts.IsValidNumber(n) {
				continue
			}
			if contributions[n] == nil {
				contributions[n] = make(map[string]float64)
			}
			contributions[n][out.Name] += v
		}
	}

	return total, contributions
}

// Rank sorts by score descending (ties: numeric ascending) and assigns ranks
func (r *Ranker) Rank(scores contracts.ScoreMap) []contracts.RankedNumber {
	ranked := scores.Ranked()

	if len(ranked) > 0 {
		r.logger.WithFields(map[string]interface{}{
			"total_numbers": len(ranked),
			"top_score":     ranked[0].Score,
			"top_number":    ranked[0].Number,
		}).Debug("Ranking completed")
	}

	return ranked
}
