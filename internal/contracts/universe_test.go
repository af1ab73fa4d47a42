package contracts

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniverse(t *testing.T) {
	u := Universe()
	require.Len(t, u, UniverseSize)
	assert.Equal(t, "00", u[0])
	assert.Equal(t, "99", u[99])

	// 복사본이므로 수정해도 원본 불변
	u[0] = "xx"
	assert.Equal(t, "00", Universe()[0])

	assert.Equal(t, []string{"00", "11", "22", "33", "44", "55", "66", "77", "88", "99"}, Doubles())
}

func TestNumberHelpers(t *testing.T) {
	tests := []struct {
		n       string
		head    int
		tail    int
		sum     int
		reverse string
		shadow  string
		zone    int
		double  bool
	}{
		{"00", 0, 0, 0, "00", "55", 0, true},
		{"07", 0, 7, 7, "70", "52", 0, false},
		{"24", 2, 4, 6, "42", "79", 0, false},
		{"25", 2, 5, 7, "52", "70", 1, false},
		{"49", 4, 9, 13, "94", "94", 1, false},
		{"50", 5, 0, 5, "05", "05", 2, false},
		{"88", 8, 8, 16, "88", "33", 3, true},
		{"99", 9, 9, 18, "99", "44", 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.n, func(t *testing.T) {
			assert.Equal(t, tt.head, Head(tt.n))
			assert.Equal(t, tt.tail, Tail(tt.n))
			assert.Equal(t, tt.sum, DigitSum(tt.n))
			assert.Equal(t, tt.reverse, Reverse(tt.n))
			assert.Equal(t, tt.shadow, Shadow(tt.n))
			assert.Equal(t, tt.zone, Zone(tt.n))
			assert.Equal(t, tt.double, IsDouble(tt.n))
		})
	}
}

func TestShadowIsInvolution(t *testing.T) {
	for _, n := range Universe() {
		assert.Equal(t, n, Shadow(Shadow(n)), n)
		assert.Equal(t, n, Reverse(Reverse(n)), n)
	}
}

func TestIndex(t *testing.T) {
	assert.Equal(t, 0, Index("00"))
	assert.Equal(t, 42, Index("42"))
	assert.Equal(t, -1, Index("4"))
	assert.Equal(t, -1, Index("4a"))
	assert.Equal(t, -1, Index("100"))
}

func TestNormalizeNumber(t *testing.T) {
	tests := []struct {
		token string
		want  string
		ok    bool
	}{
		{"07", "07", true},
		{"12345", "45", true},
		{"100", "00", true},
		{"7", "", false},
		{"", "", false},
		{"1a", "", false},
		{"-12", "", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("token=%q", tt.token), func(t *testing.T) {
			got, ok := NormalizeNumber(tt.token)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreMap(t *testing.T) {
	m := NewScoreMap([]string{"01", "02", "03"})
	m["01"] = 10
	m["02"] = 30

	added := m.Add(ScoreMap{"01": 5, "99": 100})
	assert.Equal(t, 15.0, added["01"])
	_, ok := added["99"]
	assert.False(t, ok, "keys outside the base map are ignored")
	assert.Equal(t, 10.0, m["01"], "Add must not mutate the receiver")

	scaled := m.Scale(0.5)
	assert.Equal(t, 15.0, scaled["02"])

	clamped := ScoreMap{"01": -5, "02": 150, "03": 50}.Clamp(0, 100)
	assert.Equal(t, ScoreMap{"01": 0, "02": 100, "03": 50}, clamped)

	assert.Equal(t, 30.0, m.Max())
}

func TestScoreMap_RankedTieBreak(t *testing.T) {
	m := ScoreMap{"09": 5, "03": 5, "50": 8, "01": 1}
	ranked := m.Ranked()

	require.Len(t, ranked, 4)
	assert.Equal(t, "50", ranked[0].Number)
	assert.Equal(t, "03", ranked[1].Number)
	assert.Equal(t, "09", ranked[2].Number)
	assert.Equal(t, "01", ranked[3].Number)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 4, ranked[3].Rank)
}

func TestInsufficientDataError(t *testing.T) {
	var err error = &InsufficientDataError{Required: 200, Got: 150}

	assert.True(t, errors.Is(err, ErrInsufficientData))
	assert.False(t, errors.Is(err, ErrInvalidArgument))
	assert.Contains(t, err.Error(), "200")
	assert.Contains(t, err.Error(), "150")

	wrapped := fmt.Errorf("predict: %w", err)
	var ide *InsufficientDataError
	require.True(t, errors.As(wrapped, &ide))
	assert.Equal(t, 150, ide.Got)
}

func TestPipelineStages(t *testing.T) {
	stages := AllStages()
	assert.NotEmpty(t, stages)
	for _, s := range stages {
		assert.True(t, IsValidStage(string(s)))
	}
	assert.False(t, IsValidStage("S9_UNKNOWN"))
}
