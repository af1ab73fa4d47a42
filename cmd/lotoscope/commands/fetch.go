package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/lotoscope/internal/s0_data"
	"github.com/wonny/lotoscope/internal/s0_data/quality"
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "원격 HTML 결과 페이지 수집",
	Long: `SOURCE_URL(또는 --url)의 HTML 결과 페이지를 내려받아 파싱하고,
품질 검사 결과를 출력합니다. --out 지정 시 텍스트 히스토리 형식으로 저장합니다.

Example:
  go run ./cmd/lotoscope fetch --url https://example.com/results
  go run ./cmd/lotoscope fetch --out data/history.txt`,
	RunE: runFetch,
}

var fetchOut string

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&fetchOut, "out", "o", "", "write parsed draws to this text file")
}

func runFetch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if a.cfg.History.SourceURL == "" {
		return fmt.Errorf("no source: set SOURCE_URL or pass --url")
	}

	PrintHeader("lotoscope Fetch", "URL       : "+a.cfg.History.SourceURL)

	draws, warnings, err := s0_data.NewFetcher(a.http, a.log).Fetch(cmd.Context(), a.cfg.History.SourceURL)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	snapshot := quality.NewQualityGate(quality.DefaultConfig(), a.log).Check(draws)
	PrintKeyValue("Days", fmt.Sprintf("%d", snapshot.TotalDays), 12)
	PrintKeyValue("Well formed", fmt.Sprintf("%d", snapshot.WellFormedDays), 12)
	PrintKeyValue("Missing", fmt.Sprintf("%d dates", len(snapshot.MissingDates)), 12)
	PrintKeyValue("Quality", fmt.Sprintf("%.2f", snapshot.QualityScore), 12)
	for _, w := range warnings {
		PrintWarning(w.String())
	}

	if fetchOut != "" {
		if err := os.WriteFile(fetchOut, []byte(formatDraws(draws)), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", fetchOut, err)
		}
		PrintSuccess(fmt.Sprintf("Saved %d days to %s", len(draws), fetchOut))
	}

	if !snapshot.Passed {
		PrintWarning("Quality gate failed")
	}
	return nil
}
