package backtest

import (
	"github.com/wonny/lotoscope/pkg/logger"
)

// Simulator keeps the synthetic ledger of a backtest: every tested day buys one
// ticket per predicted slot and every hit pays out
// ⭐ SSOT: 백테스트 손익 계산은 여기서만
type Simulator struct {
	unitCost   int64
	unitPayout int64
	slots      int
	logger     *logger.Logger

	// Current state
	investment int64
	gains      int64
	peak       int64
	drawdown   int64
	days       int
}

// Stats holds ledger totals
type Stats struct {
	Days        int
	Investment  int64
	Gains       int64
	NetProfit   int64
	ROI         float64 // %
	MaxDrawdown int64
}

// NewSimulator creates a new ledger for slots tickets per day
func NewSimulator(unitCost, unitPayout int64, slots int, logger *logger.Logger) *Simulator {
	return &Simulator{
		unitCost:   unitCost,
		unitPayout: unitPayout,
		slots:      slots,
		logger:     logger,
	}
}

// Initialize resets the ledger
func (s *Simulator) Initialize() {
	s.investment = 0
	s.gains = 0
	s.peak = 0
	s.drawdown = 0
	s.days = 0
}

// Settle books one day with the given hit count and returns its cost, gain and
// the cumulative net profit afterwards. A failed day is settled with zero hits.
func (s *Simulator) Settle(hits int) (cost, gain, cumulative int64) {
	cost = int64(s.slots) * s.unitCost
	gain = int64(hits) * s.unitPayout

	s.investment += cost
	s.gains += gain
	s.days++

	cumulative = s.gains - s.investment
	if s.days == 1 || cumulative > s.peak {
		s.peak = cumulative
	}
	if dd := s.peak - cumulative; dd > s.drawdown {
		s.drawdown = dd
	}
	return cost, gain, cumulative
}

// GetStats returns the ledger totals
func (s *Simulator) GetStats() Stats {
	st := Stats{
		Days:        s.days,
		Investment:  s.investment,
		Gains:       s.gains,
		NetProfit:   s.gains - s.investment,
		MaxDrawdown: s.drawdown,
	}
	if s.investment > 0 {
		st.ROI = float64(st.NetProfit) / float64(s.investment) * 100
	}
	return st
}
