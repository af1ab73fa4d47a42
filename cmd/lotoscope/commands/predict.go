package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// predictCmd represents the predict command
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "다음 추첨 번호 16개 예측",
	Long: `히스토리를 로드하고 S0 → S4 파이프라인을 실행해 다음 날 16개 번호를 출력합니다.

Example:
  go run ./cmd/lotoscope predict
  go run ./cmd/lotoscope predict --history data/history.html --json
  go run ./cmd/lotoscope predict --strategy gan,cycle`,
	RunE: runPredict,
}

var predictJSON bool

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().BoolVar(&predictJSON, "json", false, "print the prediction as JSON")
}

func runPredict(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	result, err := a.orchestrator.Run(cmd.Context(), uuid.New().String())
	if err != nil {
		return fmt.Errorf("prediction failed after %v: %w", result.CompletedStages, err)
	}

	if predictJSON {
		return PrintJSON(result.Prediction)
	}

	PrintHeader("lotoscope Prediction", "Run ID    : "+result.RunID, "Config    : "+a.engine.ConfigHash())
	printHistory(result.History)
	printPrediction(result.Prediction)
	PrintSuccess(fmt.Sprintf("Completed in %.2fs", result.Duration.Seconds()))
	return nil
}
