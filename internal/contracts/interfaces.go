package contracts

import (
	"context"
)

// DrawSource yields raw draws (S0)
// ⭐ SSOT: S0 원본 데이터 수집 인터페이스
type DrawSource interface {
	Load(ctx context.Context) ([]RawDraw, []ParseWarning, error)
}

// Predictor produces the next-day prediction from a history (S4)
// ⭐ SSOT: S4 예측 인터페이스
type Predictor interface {
	PredictNextDay(ctx context.Context, records []DailyDrawRecord) (*Prediction, error)
}

// ProgressFunc receives backtest progress (done of total days)
type ProgressFunc func(done, total int)

// Backtester replays a Predictor over trailing history (S5)
// ⭐ SSOT: S5 백테스트 인터페이스
type Backtester interface {
	Run(ctx context.Context, records []DailyDrawRecord, progress ProgressFunc) (*BacktestReport, error)
}
