package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyConfigFile string
	historyFile        string
	sourceURL          string
	strategies         []string
	verbose            bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lotoscope",
	Short: "lotoscope - 일일 두 자리 추첨 결과 분석/예측",
	Long: `lotoscope Unified CLI

하루 27개 두 자리 번호 이력을 분석해 다음 추첨의 16개 번호를 고릅니다.
S0 로드 → S1 레코드 → S2 분석 → S3 전략 → S4 선택, S5 백테스트.

Usage:
  go run ./cmd/lotoscope [command]

Examples:
  go run ./cmd/lotoscope predict --history data/history.txt
  go run ./cmd/lotoscope backtest --days 150
  go run ./cmd/lotoscope analyze 07
  go run ./cmd/lotoscope predict --strategy cycle,bridge
  go run ./cmd/lotoscope serve`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// Ctrl+C cancels the command context, so long backtests stop between days.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&strategyConfigFile, "config", "", "strategy YAML (default: STRATEGY_CONFIG or built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&historyFile, "history", "", "history file, .txt or .html (default: HISTORY_FILE)")
	rootCmd.PersistentFlags().StringVar(&sourceURL, "url", "", "remote HTML history page (default: SOURCE_URL)")
	rootCmd.PersistentFlags().StringSliceVar(&strategies, "strategy", nil, "run only these strategies (comma separated)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
