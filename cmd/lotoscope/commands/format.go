package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/wonny/lotoscope/internal/brain"
	"github.com/wonny/lotoscope/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// PrintHeader prints a formatted command header
func PrintHeader(title string, lines ...string) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", title)
	if len(lines) > 0 {
		PrintSeparator()
		for _, l := range lines {
			fmt.Printf("  %s\n", l)
		}
	}
	PrintSeparator()
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Printf("⚠️  %s\n", message)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Printf("❌ %s\n", message)
}

// PrintTableHeader prints a table header
func PrintTableHeader(columns []string, widths []int) {
	PrintTableRow(columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Println(strings.Repeat("─", totalWidth))
}

// PrintTableRow prints a table row
func PrintTableRow(values []string, widths []int) {
	for i, val := range values {
		fmt.Printf("%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}

// PrintJSON writes v as indented JSON to stdout
func PrintJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatNumber(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	var result []rune
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, c)
	}
	return sign + string(result)
}

func formatDate(d time.Time) string {
	return d.Format("2006-01-02")
}

// printHistory prints what was loaded
func printHistory(h *brain.History) {
	s := h.Summary
	PrintKeyValue("Days", fmt.Sprintf("%d (%s ~ %s)", s.Days, formatDate(s.FirstDate), formatDate(s.LastDate)), 12)
	PrintKeyValue("Malformed", fmt.Sprintf("%d", s.MalformedDays), 12)
	PrintKeyValue("Strategies", fmt.Sprintf("%d active", s.ActiveStrategies), 12)
	if h.Quality != nil {
		status := "passed"
		if !h.Quality.Passed {
			status = "failed"
		}
		PrintKeyValue("Quality", fmt.Sprintf("%.2f (%s, %d missing dates)", h.Quality.QualityScore, status, len(h.Quality.MissingDates)), 12)
	}
	if n := len(h.Warnings); n > 0 {
		PrintKeyValue("Warnings", fmt.Sprintf("%d skipped lines", n), 12)
	}
}

// printPrediction prints the selected numbers and the top contributors of each
func printPrediction(p *contracts.Prediction) {
	fmt.Println()
	fmt.Printf("🎯 Prediction for %s (based on %d days)\n", formatDate(p.TargetDate), p.BasedOnDays)
	fmt.Println()
	fmt.Printf("   %s\n", strings.Join(p.Numbers, "  "))
	fmt.Println()

	widths := []int{6, 8, 40}
	PrintTableHeader([]string{"Number", "Score", "Top strategies"}, widths)
	for _, n := range p.Numbers {
		PrintTableRow([]string{n, fmt.Sprintf("%.1f", p.Scores[n]), topContributors(p.Contributions[n], 3)}, widths)
	}
	fmt.Println()

	if len(p.Exempt) > 0 {
		PrintKeyValue("Exempt", strings.Join(p.Exempt, " "), 10)
	}
	if p.Fallback > 0 {
		PrintKeyValue("Fallback", fmt.Sprintf("%d picked ignoring caps", p.Fallback), 10)
	}
	if len(p.FailedStrategies) > 0 {
		PrintWarning("Failed strategies: " + strings.Join(p.FailedStrategies, ", "))
	}
}

func topContributors(c map[string]float64, k int) string {
	type kv struct {
		name  string
		value float64
	}
	items := make([]kv, 0, len(c))
	for name, v := range c {
		items = append(items, kv{name, v})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].value != items[j].value {
			return items[i].value > items[j].value
		}
		return items[i].name < items[j].name
	})
	if len(items) > k {
		items = items[:k]
	}

	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s %.1f", it.name, it.value)
	}
	return strings.Join(parts, ", ")
}

// printBacktestReport prints hit statistics, the synthetic ledger and attribution
func printBacktestReport(r *contracts.BacktestReport) {
	fmt.Println()
	PrintSuccess("Backtest Completed")
	PrintDoubleSeparator()

	fmt.Println("📊 Summary")
	PrintKeyValue("Period", fmt.Sprintf("%s ~ %s", formatDate(r.StartDate), formatDate(r.EndDate)), 16)
	PrintKeyValue("Days tested", fmt.Sprintf("%d (%d failed)", r.DaysTested, r.FailedDays), 16)
	PrintKeyValue("Total hits", fmt.Sprintf("%d", r.TotalHits), 16)
	PrintKeyValue("Average hits/day", fmt.Sprintf("%.2f ± %.2f", r.AverageHits, r.HitStdDev), 16)
	PrintKeyValue("High accuracy", fmt.Sprintf("%d days (%.1f%%)", r.HighAccuracyDays, r.HighAccuracyPct), 16)
	PrintKeyValue("Profit days", fmt.Sprintf("%d days (%.1f%%)", r.ProfitDays, r.ProfitPct), 16)
	PrintKeyValue("Duration", fmt.Sprintf("%.2fs", r.Duration.Seconds()), 16)
	fmt.Println()

	fmt.Println("💰 Ledger")
	PrintKeyValue("Investment", formatNumber(r.TotalInvestment), 16)
	PrintKeyValue("Gains", formatNumber(r.TotalGains), 16)
	PrintKeyValue("Net profit", formatNumber(r.NetProfit), 16)
	PrintKeyValue("ROI", fmt.Sprintf("%+.2f%%", r.ROI), 16)
	PrintKeyValue("Max drawdown", formatNumber(r.MaxDrawdown), 16)
	fmt.Println()

	fmt.Println("📈 Hit distribution")
	for hits, days := range r.HitDistribution {
		if days == 0 {
			continue
		}
		fmt.Printf("   %2d hits : %4d %s\n", hits, days, strings.Repeat("█", barLength(days, r.DaysTested)))
	}
	fmt.Println()

	fmt.Println("🧩 Strategy attribution")
	widths := []int{14, 12, 12, 8, 8}
	PrintTableHeader([]string{"Strategy", "Contributed", "On hits", "Hit %", "Failed"}, widths)
	for _, s := range r.Strategies {
		PrintTableRow([]string{
			s.Name,
			fmt.Sprintf("%.1f", s.Contributed),
			fmt.Sprintf("%.1f", s.HitContributed),
			fmt.Sprintf("%.1f", s.HitContributionPct),
			fmt.Sprintf("%d", s.Failures),
		}, widths)
	}
	fmt.Println()
}

func barLength(days, total int) int {
	if total == 0 {
		return 0
	}
	return (days*40 + total - 1) / total
}

// printNumberReport prints AnalyzeNumber output
func printNumberReport(r *brain.NumberReport) {
	fmt.Println()
	fmt.Printf("🔎 Number %s  (rank %d, score %.1f, raw %.1f)\n", r.Number, r.Rank, r.AdjustedScore, r.RawScore)
	PrintSeparator()

	lastSeen := "never"
	if r.Gan.LastSeenIndex >= 0 {
		lastSeen = formatDate(r.Gan.LastSeenDate)
	}
	PrintKeyValue("Gan", fmt.Sprintf("%d days (last seen %s)", r.Gan.DaysGone, lastSeen), 12)
	PrintKeyValue("Trend", string(r.Trend), 12)
	PrintKeyValue("Cycle", fmt.Sprintf("mean gap %.1f, sd %.1f, consistency %.2f", r.Cycle.MeanGap, r.Cycle.StdDev, r.Cycle.Consistency), 12)
	PrintKeyValue("Absences", fmt.Sprintf("current %d, mean %.1f, sd %.1f", r.Absence.Current, r.Absence.Mean, r.Absence.StdDev), 12)
	PrintKeyValue("Reverse", r.Reverse, 12)
	PrintKeyValue("Shadow", r.Shadow, 12)

	windows := make([]string, 0, len(r.Frequency))
	for w := range r.Frequency {
		windows = append(windows, w)
	}
	sort.Strings(windows)
	freq := make([]string, len(windows))
	for i, w := range windows {
		freq[i] = fmt.Sprintf("%s=%d", w, r.Frequency[w])
	}
	PrintKeyValue("Frequency", strings.Join(freq, " "), 12)
	fmt.Println()

	names := make([]string, 0, len(r.StrategyScores))
	for name := range r.StrategyScores {
		names = append(names, name)
	}
	sort.Strings(names)

	widths := []int{14, 8}
	PrintTableHeader([]string{"Strategy", "Score"}, widths)
	for _, name := range names {
		PrintTableRow([]string{name, fmt.Sprintf("%.1f", r.StrategyScores[name])}, widths)
	}
	if len(r.Failed) > 0 {
		fmt.Println()
		PrintWarning("Failed strategies: " + strings.Join(r.Failed, ", "))
	}
	fmt.Println()
}

// formatDraws renders draws in the text history format
func formatDraws(draws []contracts.RawDraw) string {
	var b strings.Builder
	for _, d := range draws {
		fmt.Fprintf(&b, "%s: %s\n", formatDate(d.Date), strings.Join(d.Numbers, " "))
	}
	return b.String()
}
