package strategyconfig

import (
	"errors"
	"fmt"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Windows ===
	w := cfg.Windows.Ordered()
	for i, v := range w {
		if v <= 0 {
			return ValidationError{"windows", fmt.Sprintf("window[%d] must be > 0", i)}
		}
		if i > 0 && v < w[i-1] {
			return ValidationError{"windows", "must be non-decreasing from very_short to extended"}
		}
	}

	// === Gan ===
	if err := validateRange(cfg.Gan.Medium, "gan.medium"); err != nil {
		return err
	}
	if err := validateRange(cfg.Gan.Long, "gan.long"); err != nil {
		return err
	}
	if err := validateRange(cfg.Gan.Extreme, "gan.extreme"); err != nil {
		return err
	}

	// === Trend ===
	if err := validatePercentile(cfg.Trend.HotPercentile, "trend.hot_percentile"); err != nil {
		return err
	}
	if err := validatePercentile(cfg.Trend.ColdPercentile, "trend.cold_percentile"); err != nil {
		return err
	}
	if cfg.Trend.ColdPercentile >= cfg.Trend.HotPercentile {
		return ValidationError{"trend", "cold_percentile must be < hot_percentile"}
	}
	if cfg.Trend.MinGap < 0 {
		return ValidationError{"trend.min_gap", "must be >= 0"}
	}

	// === Strategies ===
	if err := validateStrategies(cfg.Strategies); err != nil {
		return err
	}

	// === Params ===
	p := cfg.Params
	if p.MaxStrategyScore <= 0 {
		return ValidationError{"params.max_strategy_score", "must be > 0"}
	}
	if p.Bridge.Window <= 0 {
		return ValidationError{"params.bridge.window", "must be > 0"}
	}
	if p.Bridge.MinOccurrences < 2 {
		return ValidationError{"params.bridge.min_occurrences", "must be >= 2"}
	}
	if p.Bridge.MaxPeriod < 1 {
		return ValidationError{"params.bridge.max_period", "must be >= 1"}
	}
	if p.ChamThresholdPct <= 0 || p.ChamThresholdPct > 100 {
		return ValidationError{"params.cham_threshold_pct", "must be in (0, 100]"}
	}
	if p.AnomalyStdDevs < 0 {
		return ValidationError{"params.anomaly_std_devs", "must be >= 0"}
	}
	if err := validatePercentile(p.RareDigitSumPercentile, "params.rare_digit_sum_percentile"); err != nil {
		return err
	}
	if p.StreakLookback < 1 {
		return ValidationError{"params.streak_lookback", "must be >= 1"}
	}

	// === Engine ===
	if cfg.Engine.MinHistory < 1 {
		return ValidationError{"engine.min_history", "must be >= 1"}
	}
	if cfg.Engine.DesiredCount < 1 || cfg.Engine.DesiredCount > 100 {
		return ValidationError{"engine.desired_count", "must be in [1, 100]"}
	}

	// === Adjustments ===
	a := cfg.Adjustments
	if err := validateFactor(a.LatestDayFactor, "adjustments.latest_day_factor"); err != nil {
		return err
	}
	if err := validateFactor(a.TwoDaysAgoFactor, "adjustments.two_days_ago_factor"); err != nil {
		return err
	}
	if err := validateFactor(a.ExtremeGanFactor, "adjustments.extreme_gan_factor"); err != nil {
		return err
	}
	if err := validateRange(a.EmergingRange, "adjustments.emerging_range"); err != nil {
		return err
	}
	if a.EmergingBonus < 0 || a.ReverseBonus < 0 || a.ShadowBonus < 0 {
		return ValidationError{"adjustments", "bonuses must be >= 0"}
	}

	// === Selection ===
	s := cfg.Selection
	if s.PoolMultiplier < 1 {
		return ValidationError{"selection.pool_multiplier", "must be >= 1"}
	}
	if s.ExemptFraction < 0 || s.ExemptFraction > 1 {
		return ValidationError{"selection.exempt_fraction", "must be in range [0, 1]"}
	}
	if s.MaxPerHead < 1 || s.MaxPerTail < 1 || s.MaxPerDigitSum < 1 {
		return ValidationError{"selection", "caps must be >= 1"}
	}

	// === Backtest ===
	b := cfg.Backtest
	if b.TestDays < 1 {
		return ValidationError{"backtest.test_days", "must be >= 1"}
	}
	if b.HighAccuracyHits < 0 || b.HighAccuracyHits > cfg.Engine.DesiredCount {
		return ValidationError{"backtest.high_accuracy_hits", fmt.Sprintf("must be in [0, %d]", cfg.Engine.DesiredCount)}
	}
	if b.ProfitHits < 0 || b.ProfitHits > b.HighAccuracyHits {
		return ValidationError{"backtest.profit_hits", "must be in [0, high_accuracy_hits]"}
	}
	if b.UnitCost <= 0 {
		return ValidationError{"backtest.unit_cost", "must be > 0"}
	}
	if b.UnitPayout < 0 {
		return ValidationError{"backtest.unit_payout", "must be >= 0"}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	// 최소 히스토리 < 최장 윈도우
	if cfg.Engine.MinHistory < cfg.Windows.Extended {
		warnings = append(warnings, Warning{
			Code:    "SHORT_MIN_HISTORY",
			Message: fmt.Sprintf("min_history=%d < extended window=%d: long windows are clamped", cfg.Engine.MinHistory, cfg.Windows.Extended),
		})
	}

	// 분산 한도가 너무 좁으면 fallback 빈번
	if cfg.Selection.MaxPerHead*10 < cfg.Engine.DesiredCount || cfg.Selection.MaxPerTail*10 < cfg.Engine.DesiredCount {
		warnings = append(warnings, Warning{
			Code:    "TIGHT_DIVERSITY",
			Message: "head/tail caps cannot admit desired_count numbers; raw-score fallback will fill",
		})
	}

	// 수익 기준 적중 수로도 손실
	b := cfg.Backtest
	if int64(b.ProfitHits)*b.UnitPayout < int64(cfg.Engine.DesiredCount)*b.UnitCost {
		warnings = append(warnings, Warning{
			Code:    "UNPROFITABLE_THRESHOLD",
			Message: "profit_hits × unit_payout < desired_count × unit_cost: profit days still lose money",
		})
	}

	// 가중치 0인 활성 전략
	for _, name := range StrategyNames {
		t, _ := cfg.Strategies.Toggle(name)
		if t.Enabled && t.Weight == 0 {
			warnings = append(warnings, Warning{
				Code:    "ZERO_WEIGHT",
				Message: fmt.Sprintf("strategy %s is enabled with weight 0", name),
			})
		}
	}

	return warnings
}

// === Helper Functions ===

func validateStrategies(s Strategies) error {
	for _, name := range StrategyNames {
		t, _ := s.Toggle(name)
		if t.Weight < 0 {
			return ValidationError{"strategies." + name + ".weight", "must be >= 0"}
		}
	}
	if s.EnabledCount() == 0 {
		return ValidationError{"strategies", "at least one strategy must be enabled"}
	}
	return nil
}

func validateRange(r Range, field string) error {
	if r.Min < 0 {
		return ValidationError{field + ".min", "must be >= 0"}
	}
	if r.Max > 0 && r.Max < r.Min {
		return ValidationError{field, "max must be >= min (or <= 0 for unbounded)"}
	}
	return nil
}

func validatePercentile(v float64, field string) error {
	if v < 0 || v > 100 {
		return ValidationError{field, "must be in range [0, 100]"}
	}
	return nil
}

// validateFactor는 배수 값이 0~1 범위인지 검증
func validateFactor(v float64, field string) error {
	if v < 0 || v > 1 {
		return ValidationError{field, "must be in range [0, 1]"}
	}
	return nil
}

// IsValidationError reports whether err is (or wraps) a ValidationError
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
