package strategyconfig

import "fmt"

// Config는 분석/예측/백테스트 전체 튜닝 값
// ⭐ SSOT: 윈도우, 간 범위, 가중치, 분산 한도는 여기서만 정의
// 불변 레코드로 취급: 생성 후 수정하지 않고 엔진에 그대로 전달
type Config struct {
	Meta        Meta        `yaml:"meta" json:"meta"`
	Windows     Windows     `yaml:"windows" json:"windows"`
	Gan         GanRanges   `yaml:"gan" json:"gan"`
	Trend       Trend       `yaml:"trend" json:"trend"`
	Strategies  Strategies  `yaml:"strategies" json:"strategies"`
	Params      Params      `yaml:"params" json:"params"`
	Engine      Engine      `yaml:"engine" json:"engine"`
	Adjustments Adjustments `yaml:"adjustments" json:"adjustments"`
	Selection   Selection   `yaml:"selection" json:"selection"`
	Backtest    Backtest    `yaml:"backtest" json:"backtest"`
}

// Meta 메타 정보
type Meta struct {
	ConfigID string `yaml:"config_id" json:"config_id"`
	Version  string `yaml:"version" json:"version"`
}

// Windows S2: 분석 윈도우 (레코드 수)
type Windows struct {
	VeryShort int `yaml:"very_short" json:"very_short"`
	Short     int `yaml:"short" json:"short"`
	Medium    int `yaml:"medium" json:"medium"`
	Long      int `yaml:"long" json:"long"`
	VeryLong  int `yaml:"very_long" json:"very_long"`
	Extended  int `yaml:"extended" json:"extended"`
}

// Ordered returns the windows from shortest to longest
func (w Windows) Ordered() []int {
	return []int{w.VeryShort, w.Short, w.Medium, w.Long, w.VeryLong, w.Extended}
}

// Range is an inclusive day-gone range; Max <= 0 means unbounded
type Range struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// Contains reports whether v lies in the range
func (r Range) Contains(v int) bool {
	return v >= r.Min && (r.Max <= 0 || v <= r.Max)
}

// GanRanges 간(부재 일수) 구간
type GanRanges struct {
	Medium  Range `yaml:"medium" json:"medium"`
	Long    Range `yaml:"long" json:"long"`
	Extreme Range `yaml:"extreme" json:"extreme"`
}

// Trend 추세 분류 임계값 (백분위)
type Trend struct {
	HotPercentile  float64 `yaml:"hot_percentile" json:"hot_percentile"`
	ColdPercentile float64 `yaml:"cold_percentile" json:"cold_percentile"`
	MinGap         float64 `yaml:"min_gap" json:"min_gap"`
}

// StrategyToggle 전략 활성화 및 가중치
type StrategyToggle struct {
	Enabled bool    `yaml:"enabled" json:"enabled"`
	Weight  float64 `yaml:"weight" json:"weight"`
}

// Strategies S3: 전략별 설정
// 주의: map 대신 struct 사용으로 해시 재현성 보장
type Strategies struct {
	Frequency    StrategyToggle `yaml:"frequency" json:"frequency"`
	Gan          StrategyToggle `yaml:"gan" json:"gan"`
	DropReversal StrategyToggle `yaml:"drop_reversal" json:"drop_reversal"`
	Doubles      StrategyToggle `yaml:"doubles" json:"doubles"`
	Weekday      StrategyToggle `yaml:"weekday" json:"weekday"`
	Bridge       StrategyToggle `yaml:"bridge" json:"bridge"`
	Pair         StrategyToggle `yaml:"pair" json:"pair"`
	DigitSum     StrategyToggle `yaml:"digit_sum" json:"digit_sum"`
	Shadow       StrategyToggle `yaml:"shadow" json:"shadow"`
	Cycle        StrategyToggle `yaml:"cycle" json:"cycle"`
	Anomaly      StrategyToggle `yaml:"anomaly" json:"anomaly"`
	Zone         StrategyToggle `yaml:"zone" json:"zone"`
}

// StrategyNames lists strategy keys in registry order
var StrategyNames = []string{
	"frequency", "gan", "drop_reversal", "doubles", "weekday", "bridge",
	"pair", "digit_sum", "shadow", "cycle", "anomaly", "zone",
}

// Toggle looks up a strategy by key
func (s Strategies) Toggle(name string) (StrategyToggle, bool) {
	if t := s.ref(name); t != nil {
		return *t, true
	}
	return StrategyToggle{}, false
}

// Only returns a copy of cfg with just the named strategies enabled
func (c *Config) Only(names ...string) (*Config, error) {
	out := *c
	for _, name := range StrategyNames {
		out.Strategies.ref(name).Enabled = false
	}
	for _, name := range names {
		t := out.Strategies.ref(name)
		if t == nil {
			return nil, ValidationError{"strategies", fmt.Sprintf("unknown strategy %q", name)}
		}
		t.Enabled = true
	}
	if err := validateStrategies(out.Strategies); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Strategies) ref(name string) *StrategyToggle {
	switch name {
	case "frequency":
		return &s.Frequency
	case "gan":
		return &s.Gan
	case "drop_reversal":
		return &s.DropReversal
	case "doubles":
		return &s.Doubles
	case "weekday":
		return &s.Weekday
	case "bridge":
		return &s.Bridge
	case "pair":
		return &s.Pair
	case "digit_sum":
		return &s.DigitSum
	case "shadow":
		return &s.Shadow
	case "cycle":
		return &s.Cycle
	case "anomaly":
		return &s.Anomaly
	case "zone":
		return &s.Zone
	default:
		return nil
	}
}

// EnabledCount returns the number of enabled strategies
func (s Strategies) EnabledCount() int {
	n := 0
	for _, name := range StrategyNames {
		if t, _ := s.Toggle(name); t.Enabled {
			n++
		}
	}
	return n
}

// Params 전략 내부 규칙 파라미터
type Params struct {
	MaxStrategyScore float64 `yaml:"max_strategy_score" json:"max_strategy_score"`

	Bridge BridgeParams `yaml:"bridge" json:"bridge"`

	ChamThresholdPct       float64 `yaml:"cham_threshold_pct" json:"cham_threshold_pct"`
	AnomalyStdDevs         float64 `yaml:"anomaly_std_devs" json:"anomaly_std_devs"`
	RareDigitSumPercentile float64 `yaml:"rare_digit_sum_percentile" json:"rare_digit_sum_percentile"`
	StreakLookback         int     `yaml:"streak_lookback" json:"streak_lookback"`
}

// BridgeParams 주기(cầu) 탐지 파라미터
type BridgeParams struct {
	Window         int `yaml:"window" json:"window"`
	MinOccurrences int `yaml:"min_occurrences" json:"min_occurrences"`
	MaxPeriod      int `yaml:"max_period" json:"max_period"`
}

// Engine S4: 예측 엔진
type Engine struct {
	MinHistory   int `yaml:"min_history" json:"min_history"`
	DesiredCount int `yaml:"desired_count" json:"desired_count"`
}

// Adjustments S4: 전역 보정
type Adjustments struct {
	LatestDayFactor   float64 `yaml:"latest_day_factor" json:"latest_day_factor"`
	TwoDaysAgoFactor  float64 `yaml:"two_days_ago_factor" json:"two_days_ago_factor"`
	ExtremeGanFactor  float64 `yaml:"extreme_gan_factor" json:"extreme_gan_factor"`
	LowScoreThreshold float64 `yaml:"low_score_threshold" json:"low_score_threshold"`
	EmergingRange     Range   `yaml:"emerging_range" json:"emerging_range"`
	EmergingBonus     float64 `yaml:"emerging_bonus" json:"emerging_bonus"`
	ReverseBonus      float64 `yaml:"reverse_bonus" json:"reverse_bonus"`
	ShadowBonus       float64 `yaml:"shadow_bonus" json:"shadow_bonus"`
}

// Selection S4: 분산 선택
type Selection struct {
	PoolMultiplier int     `yaml:"pool_multiplier" json:"pool_multiplier"`
	ExemptFraction float64 `yaml:"exempt_fraction" json:"exempt_fraction"`
	MaxPerHead     int     `yaml:"max_per_head" json:"max_per_head"`
	MaxPerTail     int     `yaml:"max_per_tail" json:"max_per_tail"`
	MaxPerDigitSum int     `yaml:"max_per_digit_sum" json:"max_per_digit_sum"`
}

// ExemptCount returns how many top slots skip the diversity caps
func (s Selection) ExemptCount(desired int) int {
	return int(float64(desired) * s.ExemptFraction)
}

// Backtest S5: 백테스트
type Backtest struct {
	TestDays         int   `yaml:"test_days" json:"test_days"`
	HighAccuracyHits int   `yaml:"high_accuracy_hits" json:"high_accuracy_hits"`
	ProfitHits       int   `yaml:"profit_hits" json:"profit_hits"`
	UnitCost         int64 `yaml:"unit_cost" json:"unit_cost"`
	UnitPayout       int64 `yaml:"unit_payout" json:"unit_payout"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Meta: Meta{
			ConfigID: "lotoscope_default",
			Version:  "1.0.0",
		},
		Windows: Windows{
			VeryShort: 3,
			Short:     7,
			Medium:    30,
			Long:      60,
			VeryLong:  120,
			Extended:  200,
		},
		Gan: GanRanges{
			Medium:  Range{Min: 8, Max: 15},
			Long:    Range{Min: 16, Max: 30},
			Extreme: Range{Min: 31, Max: 0},
		},
		Trend: Trend{
			HotPercentile:  80,
			ColdPercentile: 20,
			MinGap:         30,
		},
		Strategies: Strategies{
			Frequency:    StrategyToggle{Enabled: true, Weight: 1.0},
			Gan:          StrategyToggle{Enabled: true, Weight: 0.9},
			DropReversal: StrategyToggle{Enabled: true, Weight: 0.8},
			Doubles:      StrategyToggle{Enabled: true, Weight: 0.6},
			Weekday:      StrategyToggle{Enabled: true, Weight: 0.5},
			Bridge:       StrategyToggle{Enabled: true, Weight: 0.9},
			Pair:         StrategyToggle{Enabled: true, Weight: 0.8},
			DigitSum:     StrategyToggle{Enabled: true, Weight: 0.6},
			Shadow:       StrategyToggle{Enabled: true, Weight: 0.6},
			Cycle:        StrategyToggle{Enabled: true, Weight: 1.0},
			Anomaly:      StrategyToggle{Enabled: true, Weight: 0.7},
			Zone:         StrategyToggle{Enabled: true, Weight: 0.5},
		},
		Params: Params{
			MaxStrategyScore: 100,
			Bridge: BridgeParams{
				Window:         60,
				MinOccurrences: 3,
				MaxPeriod:      10,
			},
			ChamThresholdPct:       12,
			AnomalyStdDevs:         1.5,
			RareDigitSumPercentile: 20,
			StreakLookback:         10,
		},
		Engine: Engine{
			MinHistory:   200,
			DesiredCount: 16,
		},
		Adjustments: Adjustments{
			LatestDayFactor:   0.5,
			TwoDaysAgoFactor:  0.8,
			ExtremeGanFactor:  0.2,
			LowScoreThreshold: 100,
			EmergingRange:     Range{Min: 8, Max: 14},
			EmergingBonus:     15,
			ReverseBonus:      10,
			ShadowBonus:       8,
		},
		Selection: Selection{
			PoolMultiplier: 2,
			ExemptFraction: 0.25,
			MaxPerHead:     3,
			MaxPerTail:     3,
			MaxPerDigitSum: 2,
		},
		Backtest: Backtest{
			TestDays:         150,
			HighAccuracyHits: 10,
			ProfitHits:       5,
			UnitCost:         23_000,
			UnitPayout:       80_000,
		},
	}
}
