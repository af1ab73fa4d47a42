package selection

import (
	"github.com/wonny/lotoscope/internal/contracts"
	"github.com/wonny/lotoscope/internal/strategyconfig"
)

// Rejection reasons reported by Screener.Check
const (
	ReasonHead     = "head_cap"
	ReasonTail     = "tail_cap"
	ReasonDigitSum = "digit_sum_cap"
)

// Screener enforces per-category diversity caps over a growing selection
// ⭐ SSOT: 머리/꼬리/합 분산 한도는 여기서만 검사
type Screener struct {
	caps  strategyconfig.Selection
	heads [10]int
	tails [10]int
	sums  [contracts.DigitSumMax + 1]int
}

// NewScreener creates an empty screener
func NewScreener(caps strategyconfig.Selection) *Screener {
	return &Screener{caps: caps}
}

// Check returns "" when n fits under every cap, otherwise the first violated cap
func (s *Screener) Check(n string) string {
	switch {
	case s.heads[contracts.Head(n)] >= s.caps.MaxPerHead:
		return ReasonHead
	case s.tails[contracts.Tail(n)] >= s.caps.MaxPerTail:
		return ReasonTail
	case s.sums[contracts.DigitSum(n)] >= s.caps.MaxPerDigitSum:
		return ReasonDigitSum
	default:
		return ""
	}
}

// Add counts n against the caps (exempt numbers are counted too)
func (s *Screener) Add(n string) {
	s.heads[contracts.Head(n)]++
	s.tails[contracts.Tail(n)]++
	s.sums[contracts.DigitSum(n)]++
}

// Violations lists the head/tail digits of numbers, ignoring exempt ones, that exceed
// the caps. It checks a finished selection; an empty result means the caps hold.
func Violations(numbers, exempt []string, caps strategyconfig.Selection) []string {
	skip := make(map[string]bool, len(exempt))
	for _, n := range exempt {
		skip[n] = true
	}

	var heads, tails [10]int
	var exemptHeads, exemptTails [10]int
	for _, n := range numbers {
		heads[contracts.Head(n)]++
		tails[contracts.Tail(n)]++
		if skip[n] {
			exemptHeads[contracts.Head(n)]++
			exemptTails[contracts.Tail(n)]++
		}
	}

	out := make([]string, 0)
	for d := 0; d < 10; d++ {
		// 면제 번호가 한도를 채운 경우 그 숫자의 비면제 번호는 없어야 함
		if heads[d] > caps.MaxPerHead && heads[d] > exemptHeads[d] {
			out = append(out, "head:"+string(rune('0'+d)))
		}
		if tails[d] > caps.MaxPerTail && tails[d] > exemptTails[d] {
			out = append(out, "tail:"+string(rune('0'+d)))
		}
	}
	return out
}
