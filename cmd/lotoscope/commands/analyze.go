package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/lotoscope/internal/contracts"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <number>",
	Short: "번호 하나의 통계와 전략 점수 분석",
	Long: `현재 히스토리 기준으로 한 번호의 간(부재 일수), 추세, 주기, 전략별 점수, 순위를 보여줍니다.

Example:
  go run ./cmd/lotoscope analyze 07
  go run ./cmd/lotoscope analyze 42 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var analyzeJSON bool

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the report as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	number := args[0]
	if !contracts.IsValidNumber(number) {
		return fmt.Errorf("invalid number %q: expected two digits 00..99", args[0])
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	history, err := a.orchestrator.LoadHistory(cmd.Context())
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	report, err := a.engine.AnalyzeNumber(cmd.Context(), history.Records, number)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", number, err)
	}

	if analyzeJSON {
		return PrintJSON(report)
	}
	printNumberReport(report)
	return nil
}
