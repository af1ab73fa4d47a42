package contracts

import "fmt"

// UniverseSize is the number of two-digit candidates ("00".."99")
const UniverseSize = 100

// DigitSumMax is the largest digit sum of a two-digit number (9+9)
const DigitSumMax = 18

// ZoneCount is the number of contiguous numeric bands
const ZoneCount = 4

// shadowDigit maps each digit to its shadow (bóng) counterpart
var shadowDigit = [10]int{5, 6, 7, 8, 9, 0, 1, 2, 3, 4}

// universe is generated once and never mutated
var universe = func() []string {
	u := make([]string, UniverseSize)
	for i := range u {
		u[i] = fmt.Sprintf("%02d", i)
	}
	return u
}()

// doubles are the ten palindromic members (kép)
var doubles = func() []string {
	d := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		d = append(d, universe[i*11])
	}
	return d
}()

// Universe returns a copy of the 100 candidate numbers in ascending order
func Universe() []string {
	out := make([]string, len(universe))
	copy(out, universe)
	return out
}

// Doubles returns a copy of the ten double numbers in ascending order
func Doubles() []string {
	out := make([]string, len(doubles))
	copy(out, doubles)
	return out
}

// Number returns the universe member for index 0..99
func Number(i int) string {
	return universe[i]
}

// IsValidNumber reports whether s is a zero-padded two-digit string
func IsValidNumber(s string) bool {
	return len(s) == 2 && s[0] >= '0' && s[0] <= '9' && s[1] >= '0' && s[1] <= '9'
}

// Index returns the numeric value of a two-digit number, or -1 when invalid
func Index(n string) int {
	if !IsValidNumber(n) {
		return -1
	}
	return int(n[0]-'0')*10 + int(n[1]-'0')
}

// Head returns the first digit
func Head(n string) int {
	return int(n[0] - '0')
}

// Tail returns the second digit
func Tail(n string) int {
	return int(n[1] - '0')
}

// DigitSum returns head+tail (0..18)
func DigitSum(n string) int {
	return Head(n) + Tail(n)
}

// IsDouble reports whether both digits are equal
func IsDouble(n string) bool {
	return n[0] == n[1]
}

// Reverse returns the digit-reversed number (lộn); doubles map to themselves
func Reverse(n string) string {
	return string([]byte{n[1], n[0]})
}

// Shadow maps both digits through the bóng involution 0↔5, 1↔6, 2↔7, 3↔8, 4↔9
func Shadow(n string) string {
	return universe[shadowDigit[Head(n)]*10+shadowDigit[Tail(n)]]
}

// Zone returns the band 0..3 for 0–24, 25–49, 50–74, 75–99
func Zone(n string) int {
	return Index(n) / 25
}

// NormalizeNumber keeps the last two digits of an all-digit token ("12345" → "45").
// Tokens shorter than two digits or with non-digit runes are rejected.
func NormalizeNumber(token string) (string, bool) {
	if len(token) < 2 {
		return "", false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return token[len(token)-2:], true
}
