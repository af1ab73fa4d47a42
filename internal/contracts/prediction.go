package contracts

import (
	"sort"
	"time"
)

// Prediction is the engine output for the next draw
// ⭐ SSOT: S4 → 출력 예측 결과 전달
type Prediction struct {
	TargetDate  time.Time `json:"target_date"`
	TargetDay   int       `json:"target_weekday"`
	BasedOnDays int       `json:"based_on_days"`
	Numbers     []string  `json:"numbers"`  // 오름차순, 중복 없음
	Exempt      []string  `json:"exempt"`   // 분산 한도 면제된 상위 번호
	Fallback    int       `json:"fallback"` // 한도를 무시하고 채운 개수

	Scores           ScoreMap                      `json:"scores"` // 조정 후 최종 점수
	Contributions    map[string]map[string]float64 `json:"contributions"`
	FailedStrategies []string                      `json:"failed_strategies,omitempty"`
	ConfigHash       string                        `json:"config_hash,omitempty"`
	GeneratedAt      time.Time                     `json:"generated_at"`
}

// Contains reports whether n is among the selected numbers
func (p *Prediction) Contains(n string) bool {
	i := sort.SearchStrings(p.Numbers, n)
	return i < len(p.Numbers) && p.Numbers[i] == n
}

// Hits returns the selected numbers that landed in the given record
func (p *Prediction) Hits(actual *DailyDrawRecord) []string {
	hits := make([]string, 0)
	for _, n := range p.Numbers {
		if actual.Has(n) {
			hits = append(hits, n)
		}
	}
	return hits
}

// DayResult is one tested day of a backtest
type DayResult struct {
	Index     int       `json:"index"`
	Date      time.Time `json:"date"`
	Predicted []string  `json:"predicted"`
	Hits      []string  `json:"hits"`
	HitCount  int       `json:"hit_count"`
	Failed    bool      `json:"failed,omitempty"`
	Error     string    `json:"error,omitempty"`

	Cost       int64 `json:"cost"`
	Gain       int64 `json:"gain"`
	Cumulative int64 `json:"cumulative"` // 누적 순손익
}

// StrategyStats attributes selected-number score to a strategy
type StrategyStats struct {
	Name               string  `json:"name"`
	Contributed        float64 `json:"contributed"`          // 선택된 번호에 기여한 점수 합
	HitContributed     float64 `json:"hit_contributed"`      // 그 중 적중 번호 몫
	Failures           int     `json:"failures"`             // 실패한 일수
	HitContributionPct float64 `json:"hit_contribution_pct"` // HitContributed / Contributed × 100
}

// BacktestReport summarizes a backtest run
// ⭐ SSOT: S5 백테스트 결과
type BacktestReport struct {
	DaysTested       int     `json:"days_tested"` // 실패일 포함
	FailedDays       int     `json:"failed_days"`
	TotalHits        int     `json:"total_hits"`
	AverageHits      float64 `json:"average_hits"`
	HitStdDev        float64 `json:"hit_std_dev"`
	HitDistribution  []int   `json:"hit_distribution"` // index = 적중 수
	HighAccuracyDays int     `json:"high_accuracy_days"`
	HighAccuracyPct  float64 `json:"high_accuracy_pct"`
	ProfitDays       int     `json:"profit_days"`
	ProfitPct        float64 `json:"profit_pct"`

	TotalInvestment int64   `json:"total_investment"`
	TotalGains      int64   `json:"total_gains"`
	NetProfit       int64   `json:"net_profit"`
	ROI             float64 `json:"roi_pct"`
	MaxDrawdown     int64   `json:"max_drawdown"` // 누적 순손익 고점 대비 최대 하락

	Days       []DayResult     `json:"days"`
	Strategies []StrategyStats `json:"strategies"`

	StartDate  time.Time     `json:"start_date"`
	EndDate    time.Time     `json:"end_date"`
	ConfigHash string        `json:"config_hash,omitempty"`
	Duration   time.Duration `json:"duration"`
}
