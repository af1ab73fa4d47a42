package selection

import (
	"sort"

	"github.com/wonny/lotoscope/internal/contracts"
	"github.com/wonny/lotoscope/internal/strategyconfig"
	"github.com/wonny/lotoscope/pkg/logger"
)

// Result is a diversified selection
type Result struct {
	Numbers  []string       `json:"numbers"` // 오름차순
	Exempt   []string       `json:"exempt"`  // 분산 한도 면제 (상위 슬롯)
	Admitted int            `json:"admitted"`
	Fallback int            `json:"fallback"` // 한도 무시 보충
	Filled   int            `json:"filled"`   // 전체 랭킹에서 보충
	Rejected map[string]int `json:"rejected"` // reason -> count
}

// Selector picks desired numbers from a ranking under diversity caps
// ⭐ SSOT: S4 분산 선택 로직은 여기서만
type Selector struct {
	caps    strategyconfig.Selection
	desired int
	logger  *logger.Logger
}

// NewSelector creates a new selector
func NewSelector(caps strategyconfig.Selection, desired int, log *logger.Logger) *Selector {
	return &Selector{
		caps:    caps,
		desired: desired,
		logger:  log,
	}
}

// Select walks the top PoolMultiplier×desired candidates greedily under the caps,
// exempting the first ExemptCount slots, then falls back to raw score within the pool
// and finally to the full ranking. The result holds at most desired distinct numbers, ascending.
func (s *Selector) Select(ranked []contracts.RankedNumber) *Result {
	res := &Result{
		Exempt:   make([]string, 0),
		Rejected: make(map[string]int),
	}

	poolSize := s.caps.PoolMultiplier * s.desired
	if poolSize > len(ranked) {
		poolSize = len(ranked)
	}
	pool := ranked[:poolSize]
	exempt := s.caps.ExemptCount(s.desired)

	screener := NewScreener(s.caps)
	chosen := make(map[string]bool, s.desired)
	picked := make([]string, 0, s.desired)
	admit := func(n string) {
		chosen[n] = true
		picked = append(picked, n)
		screener.Add(n)
	}

	// Phase 1: 분산 한도 적용 (상위 슬롯 면제)
	for _, rn := range pool {
		if len(picked) >= s.desired {
			break
		}
		if chosen[rn.Number] {
			continue
		}
		if len(picked) < exempt {
			res.Exempt = append(res.Exempt, rn.Number)
			admit(rn.Number)
			continue
		}
		if reason := screener.Check(rn.Number); reason != "" {
			res.Rejected[reason]++
			continue
		}
		admit(rn.Number)
	}
	res.Admitted = len(picked)

	// Phase 2: 풀 안에서 점수순 보충 (한도 무시)
	for _, rn := range pool {
		if len(picked) >= s.desired {
			break
		}
		if !chosen[rn.Number] {
			admit(rn.Number)
			res.Fallback++
		}
	}

	// Phase 3: 전체 랭킹에서 보충
	for _, rn := range ranked {
		if len(picked) >= s.desired {
			break
		}
		if !chosen[rn.Number] {
			admit(rn.Number)
			res.Filled++
		}
	}

	if len(picked) > s.desired {
		picked = picked[:s.desired]
	}
	sort.Strings(picked)
	res.Numbers = picked

	s.logger.WithFields(map[string]interface{}{
		"pool":     poolSize,
		"exempt":   len(res.Exempt),
		"admitted": res.Admitted,
		"fallback": res.Fallback,
		"filled":   res.Filled,
		"rejected": res.Rejected,
	}).Debug("Selection completed")

	return res
}
