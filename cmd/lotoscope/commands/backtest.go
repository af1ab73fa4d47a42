package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/lotoscope/internal/backtest"
)

// backtestCmd represents the backtest command
var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "과거 구간 재현 백테스트",
	Long: `히스토리 마지막 N일을 하루씩 재현합니다. i번째 날은 records[:i]만 보고 예측합니다.

백테스트는 다음을 보고합니다:
- 일별 적중 수, 평균/표준편차, 적중 분포
- 고적중(>=10) 및 수익(>=5) 일수
- 가상 장부: 투자액, 당첨액, 순손익, ROI, 최대 낙폭
- 전략별 기여도

Example:
  go run ./cmd/lotoscope backtest
  go run ./cmd/lotoscope backtest --days 60 --json`,
	RunE: runBacktest,
}

var (
	backtestDays  int
	backtestJSON  bool
	backtestQuiet bool
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().IntVar(&backtestDays, "days", 0, "days to replay (default: backtest.test_days)")
	backtestCmd.Flags().BoolVar(&backtestJSON, "json", false, "print the report as JSON")
	backtestCmd.Flags().BoolVarP(&backtestQuiet, "quiet", "q", false, "no progress output")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	cfg := *a.strategyCfg
	if backtestDays > 0 {
		cfg.Backtest.TestDays = backtestDays
	}

	history, err := a.orchestrator.LoadHistory(cmd.Context())
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	engine := backtest.NewEngine(a.engine, &cfg, a.log)
	start, end := engine.Window(len(history.Records))

	showProgress := !backtestJSON && !backtestQuiet
	if showProgress {
		PrintHeader("lotoscope Backtest",
			fmt.Sprintf("History   : %d days", history.Summary.Days),
			fmt.Sprintf("Window    : %d days (min history %d)", max(end-start, 0), cfg.Engine.MinHistory),
			"Config    : "+a.engine.ConfigHash(),
		)
	}

	progress := func(done, total int) {
		if showProgress && (done%10 == 0 || done == total) {
			fmt.Printf("[Backtest] Replayed %d days [%d/%d]\n", done, done, total)
		}
	}

	report, err := engine.Run(cmd.Context(), history.Records, progress)
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	if backtestJSON {
		return PrintJSON(report)
	}
	printBacktestReport(report)
	return nil
}
