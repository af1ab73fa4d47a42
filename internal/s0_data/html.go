package s0_data

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/lotoscope/internal/contracts"
)

// ParseHTML parses result pages made of <table class="results" data-date="..."> blocks.
// Every <td> holds one or more digit tokens; <th> cells carry labels and are ignored.
func ParseHTML(data []byte) ([]contracts.RawDraw, []contracts.ParseWarning, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("parse html: %w", err)
	}

	draws := make([]contracts.RawDraw, 0)
	warnings := make([]contracts.ParseWarning, 0)
	seen := make(map[string]bool)

	doc.Find("table.results[data-date]").Each(func(i int, table *goquery.Selection) {
		dateText := strings.TrimSpace(table.AttrOr("data-date", ""))
		date, ok := ParseDate(dateText)
		if !ok {
			warnings = append(warnings, contracts.ParseWarning{Line: i + 1, Text: dateText, Message: "invalid date"})
			return
		}
		key := date.Format("2006-01-02")
		if seen[key] {
			warnings = append(warnings, contracts.ParseWarning{Line: i + 1, Text: dateText, Message: "duplicate date, table ignored"})
			return
		}
		seen[key] = true

		draw := contracts.RawDraw{Date: date, Numbers: []string{}}
		table.Find("td").Each(func(_ int, cell *goquery.Selection) {
			text := strings.TrimSpace(cell.Text())
			if text == "" {
				return
			}
			for _, tok := range splitTokens(text) {
				n, ok := contracts.NormalizeNumber(tok)
				if !ok {
					warnings = append(warnings, contracts.ParseWarning{Line: i + 1, Text: tok, Message: "malformed cell token"})
					continue
				}
				draw.Numbers = append(draw.Numbers, n)
			}
		})
		draws = append(draws, draw)
	})

	sort.SliceStable(draws, func(i, j int) bool {
		return draws[i].Date.Before(draws[j].Date)
	})

	return draws, warnings, nil
}
