// Package testutil builds deterministic synthetic draw histories for tests.
package testutil

import (
	"math/rand"
	"time"

	"github.com/wonny/lotoscope/internal/contracts"
	"github.com/wonny/lotoscope/internal/s1_records"
)

// Start is the first date of every synthetic history
var Start = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

// RandomDraws returns days of 27 uniformly drawn numbers on consecutive dates
func RandomDraws(seed int64, days int) []contracts.RawDraw {
	rng := rand.New(rand.NewSource(seed))
	draws := make([]contracts.RawDraw, days)
	for i := range draws {
		nums := make([]string, contracts.DrawsPerDay)
		for j := range nums {
			nums[j] = contracts.Number(rng.Intn(contracts.UniverseSize))
		}
		draws[i] = contracts.RawDraw{Date: Start.AddDate(0, 0, i), Numbers: nums}
	}
	return draws
}

// PeriodicDraws places target on every day i with i%period == 0 and fills the rest
// of each day with random numbers that never include target or any excluded number
func PeriodicDraws(seed int64, days int, target string, period int, exclude ...string) []contracts.RawDraw {
	rng := rand.New(rand.NewSource(seed))

	banned := map[string]bool{target: true}
	for _, n := range exclude {
		banned[n] = true
	}
	pool := make([]string, 0, contracts.UniverseSize)
	for _, n := range contracts.Universe() {
		if !banned[n] {
			pool = append(pool, n)
		}
	}

	draws := make([]contracts.RawDraw, days)
	for i := range draws {
		nums := make([]string, 0, contracts.DrawsPerDay)
		if i%period == 0 {
			nums = append(nums, target)
		}
		for len(nums) < contracts.DrawsPerDay {
			nums = append(nums, pool[rng.Intn(len(pool))])
		}
		draws[i] = contracts.RawDraw{Date: Start.AddDate(0, 0, i), Numbers: nums}
	}
	return draws
}

// FixedDraws builds consecutive days from explicit number lists
func FixedDraws(days ...[]string) []contracts.RawDraw {
	draws := make([]contracts.RawDraw, len(days))
	for i, nums := range days {
		draws[i] = contracts.RawDraw{Date: Start.AddDate(0, 0, i), Numbers: nums}
	}
	return draws
}

// Records prepares raw draws into records
func Records(draws []contracts.RawDraw) []contracts.DailyDrawRecord {
	return s1_records.Prepare(draws)
}

// RandomHistory is Records(RandomDraws(seed, days))
func RandomHistory(seed int64, days int) []contracts.DailyDrawRecord {
	return Records(RandomDraws(seed, days))
}
