package s0_data

import (
	"bufio"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/wonny/lotoscope/internal/contracts"
)

// dateHeaderRe matches "2024-01-31" or "31/01/2024", optionally followed by ": numbers"
// maxLineLen bounds a single line; longer non-comment lines are skipped with a warning
const maxLineLen = 1024 * 1024

var dateHeaderRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}|\d{2}/\d{2}/\d{4})\s*(?::\s*(.*))?$`)

// ParseDate accepts YYYY-MM-DD and DD/MM/YYYY
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseText parses the plain-text history format into raw draws sorted by date.
//
//	2024-01-31
//	G1: 12345 67890
//	12, 34; 56
//	01/02/2024: 07 11 99
//
// Malformed lines, orphan number lines and repeated dates are skipped and reported as warnings.
// ⭐ SSOT: S0 텍스트 입력 파싱은 이 함수에서만
func ParseText(text string) ([]contracts.RawDraw, []contracts.ParseWarning) {
	draws := make([]contracts.RawDraw, 0)
	warnings := make([]contracts.ParseWarning, 0)

	seen := make(map[time.Time]bool)
	current := -1 // draws 내 현재 섹션 인덱스, -1 = 섹션 없음 또는 무시 중
	skipping := false

	warn := func(line int, text, msg string) {
		warnings = append(warnings, contracts.ParseWarning{Line: line, Text: text, Message: msg})
	}

	// Scanner는 긴 라인에서 조용히 멈추므로 Reader로 라인 단위 읽기
	reader := bufio.NewReader(strings.NewReader(text))
	lineNo := 0
	for {
		raw, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			warn(lineNo+1, "", "read failed: "+err.Error())
			break
		}
		if raw == "" && err == io.EOF {
			break
		}
		lineNo++
		raw = strings.TrimRight(raw, "\r\n")
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if len(line) > maxLineLen {
			warn(lineNo, line[:64]+"...", "line too long")
			continue
		}

		// 1. 날짜 헤더
		if m := dateHeaderRe.FindStringSubmatch(line); m != nil {
			date, ok := ParseDate(m[1])
			if !ok {
				warn(lineNo, raw, "invalid date")
				current, skipping = -1, true
				continue
			}
			if seen[date] {
				warn(lineNo, raw, "duplicate date, section ignored")
				current, skipping = -1, true
				continue
			}
			seen[date] = true
			draws = append(draws, contracts.RawDraw{Date: date, Numbers: []string{}})
			current, skipping = len(draws)-1, false

			if rest := strings.TrimSpace(m[2]); rest != "" {
				nums, ok := parseNumberLine(rest)
				if !ok {
					warn(lineNo, raw, "malformed numbers after date")
					continue
				}
				draws[current].Numbers = append(draws[current].Numbers, nums...)
			}
			continue
		}

		// 2. 번호 라인
		if current < 0 {
			if skipping {
				warn(lineNo, raw, "line belongs to an ignored section")
			} else {
				warn(lineNo, raw, "numbers before any date header")
			}
			continue
		}

		nums, ok := parseNumberLine(line)
		if !ok {
			warn(lineNo, raw, "malformed number line")
			continue
		}
		draws[current].Numbers = append(draws[current].Numbers, nums...)
	}

	sort.SliceStable(draws, func(i, j int) bool {
		return draws[i].Date.Before(draws[j].Date)
	})

	return draws, warnings
}

// parseNumberLine strips an optional "label:" prefix and normalizes every token.
// A line with any invalid token, or with no tokens, is rejected as a whole.
func parseNumberLine(line string) ([]string, bool) {
	if idx := strings.Index(line, ":"); idx >= 0 {
		if strings.IndexFunc(line[:idx], unicode.IsLetter) < 0 {
			return nil, false
		}
		line = line[idx+1:]
	}

	tokens := splitTokens(line)
	if len(tokens) == 0 {
		return nil, false
	}

	nums := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		n, ok := contracts.NormalizeNumber(tok)
		if !ok {
			return nil, false
		}
		nums = append(nums, n)
	}
	return nums, true
}

func splitTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';'
	})
}
