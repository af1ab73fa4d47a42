package contracts

// Pipeline Stage 정의 (SSOT)
// 모든 로그와 이벤트에서 이 상수를 사용해야 함
//
// 파이프라인 흐름:
//   S0 → S1 → S2 → S3 → S4 → S5
//   Data  Records  Analyzer  Strategies  Selection  Backtest

// Stage represents a pipeline stage
type Stage string

const (
	// StageData S0: 원본 텍스트/HTML 파싱
	// 위치: internal/s0_data/
	StageData Stage = "S0_DATA"

	// StageRecords S1: 일별 레코드 구성
	// 위치: internal/s1_records/
	StageRecords Stage = "S1_RECORDS"

	// StageAnalyzer S2: 히스토리 통계
	// 위치: internal/s2_analyzer/
	StageAnalyzer Stage = "S2_ANALYZER"

	// StageStrategies S3: 전략별 점수 산출
	// 위치: internal/s3_strategies/
	StageStrategies Stage = "S3_STRATEGIES"

	// StageSelection S4: 가중 합산, 보정, 분산 선택
	// 위치: internal/brain/, internal/selection/
	StageSelection Stage = "S4_SELECTION"

	// StageBacktest S5: 과거 구간 재현 검증
	// 위치: internal/backtest/
	StageBacktest Stage = "S5_BACKTEST"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// ShortName returns abbreviated stage name (e.g., "S0", "S1")
func (s Stage) ShortName() string {
	switch s {
	case StageData:
		return "S0"
	case StageRecords:
		return "S1"
	case StageAnalyzer:
		return "S2"
	case StageStrategies:
		return "S3"
	case StageSelection:
		return "S4"
	case StageBacktest:
		return "S5"
	default:
		return "UNKNOWN"
	}
}

// AllStages returns all pipeline stages in order
func AllStages() []Stage {
	return []Stage{
		StageData,
		StageRecords,
		StageAnalyzer,
		StageStrategies,
		StageSelection,
		StageBacktest,
	}
}

// IsValidStage checks if a stage string is valid
func IsValidStage(s string) bool {
	for _, stage := range AllStages() {
		if string(stage) == s {
			return true
		}
	}
	return false
}
