package s3_strategies

import (
	"fmt"

	"github.com/wonny/lotoscope/internal/contracts"
	"github.com/wonny/lotoscope/internal/s2_analyzer"
	"github.com/wonny/lotoscope/internal/strategyconfig"
)

// Strategy scores universe members from analyzer queries
// ⭐ SSOT: S3 전략 인터페이스
type Strategy interface {
	Name() string
	Weight() float64
	Predict(a *s2_analyzer.Analyzer) (contracts.ScoreMap, error)
}

// Rule is one named scoring rule; it may return a sparse map
type Rule struct {
	Name  string
	Score func(a *s2_analyzer.Analyzer) contracts.ScoreMap
}

// RuleStrategy sums its rules into a zeroed map over its members and clamps the result
type RuleStrategy struct {
	name     string
	weight   float64
	members  []string
	maxScore float64
	rules    []Rule
}

// Name returns the strategy key
func (s *RuleStrategy) Name() string { return s.name }

// Weight returns the configured weight
func (s *RuleStrategy) Weight() float64 { return s.weight }

// Members returns the scored subset of the universe
func (s *RuleStrategy) Members() []string { return append([]string(nil), s.members...) }

// RuleNames lists the rules in evaluation order
func (s *RuleStrategy) RuleNames() []string {
	names := make([]string, len(s.rules))
	for i, r := range s.rules {
		names[i] = r.Name
	}
	return names
}

// Predict applies every rule and clamps to [0, maxScore]
func (s *RuleStrategy) Predict(a *s2_analyzer.Analyzer) (contracts.ScoreMap, error) {
	if a == nil {
		return nil, fmt.Errorf("strategy %s: nil analyzer: %w", s.name, contracts.ErrInvalidArgument)
	}

	total := contracts.NewScoreMap(s.members)
	for _, r := range s.rules {
		total = total.Add(r.Score(a))
	}
	return total.Clamp(0, s.maxScore), nil
}

// RuleBreakdown returns each rule's unclamped contribution restricted to the members
func (s *RuleStrategy) RuleBreakdown(a *s2_analyzer.Analyzer) map[string]contracts.ScoreMap {
	out := make(map[string]contracts.ScoreMap, len(s.rules))
	for _, r := range s.rules {
		out[r.Name] = contracts.NewScoreMap(s.members).Add(r.Score(a))
	}
	return out
}

// FuncStrategy adapts a plain function to Strategy (test doubles, ad-hoc scoring)
type FuncStrategy struct {
	StrategyName   string
	StrategyWeight float64
	Fn             func(a *s2_analyzer.Analyzer) (contracts.ScoreMap, error)
}

// Name returns the strategy key
func (f FuncStrategy) Name() string { return f.StrategyName }

// Weight returns the weight
func (f FuncStrategy) Weight() float64 { return f.StrategyWeight }

// Predict calls Fn
func (f FuncStrategy) Predict(a *s2_analyzer.Analyzer) (contracts.ScoreMap, error) {
	return f.Fn(a)
}

type constructor func(cfg *strategyconfig.Config, weight float64) *RuleStrategy

var constructors = map[string]constructor{
	"frequency":     newFrequency,
	"gan":           newGan,
	"drop_reversal": newDropReversal,
	"doubles":       newDoubles,
	"weekday":       newWeekday,
	"bridge":        newBridge,
	"pair":          newPair,
	"digit_sum":     newDigitSum,
	"shadow":        newShadow,
	"cycle":         newCycle,
	"anomaly":       newAnomaly,
	"zone":          newZone,
}

// Registry builds the enabled strategies in registry order with configured weights.
// cfg nil means strategyconfig.Default().
func Registry(cfg *strategyconfig.Config) []Strategy {
	if cfg == nil {
		cfg = strategyconfig.Default()
	}

	out := make([]Strategy, 0, len(strategyconfig.StrategyNames))
	for _, name := range strategyconfig.StrategyNames {
		t, _ := cfg.Strategies.Toggle(name)
		if !t.Enabled {
			continue
		}
		out = append(out, constructors[name](cfg, t.Weight))
	}
	return out
}

// New builds one strategy by key regardless of its enabled flag
func New(name string, cfg *strategyconfig.Config) (*RuleStrategy, error) {
	if cfg == nil {
		cfg = strategyconfig.Default()
	}
	build, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q: %w", name, contracts.ErrInvalidArgument)
	}
	t, _ := cfg.Strategies.Toggle(name)
	return build(cfg, t.Weight), nil
}

func newRuleStrategy(name string, weight float64, cfg *strategyconfig.Config, members []string, rules ...Rule) *RuleStrategy {
	return &RuleStrategy{
		name:     name,
		weight:   weight,
		members:  members,
		maxScore: cfg.Params.MaxStrategyScore,
		rules:    rules,
	}
}

// flat gives every listed number the same score
func flat(nums []string, score float64) contracts.ScoreMap {
	m := make(contracts.ScoreMap, len(nums))
	for _, n := range nums {
		m[n] += score
	}
	return m
}

// fromCounts scales integer counts into scores
func fromCounts(counts map[string]int, factor float64) contracts.ScoreMap {
	m := make(contracts.ScoreMap, len(counts))
	for n, c := range counts {
		m[n] = float64(c) * factor
	}
	return m
}

// normalize rescales m so its maximum equals top; an all-zero map stays zero
func normalize(m contracts.ScoreMap, top float64) contracts.ScoreMap {
	max := m.Max()
	if max <= 0 {
		return contracts.ScoreMap{}
	}
	return m.Scale(top / max)
}

// latestUnique returns the numbers of the k-th most recent record (empty when out of range)
func latestUnique(a *s2_analyzer.Analyzer, k int) []string {
	r := a.Latest(k)
	if r == nil {
		return nil
	}
	return r.UniqueNumbers
}
