package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ASHRREAL/guelph-schedule-generator/internal/models"
)

func TestParseRankPreference(t *testing.T) {
	assert.Equal(t, PreferenceMinimalGaps, ParseRankPreference("minimal_gaps"))
	assert.Equal(t, PreferenceCompact, ParseRankPreference("compact"))
	assert.Equal(t, PreferenceSmartGaps, ParseRankPreference(""))
	assert.Equal(t, PreferenceSmartGaps, ParseRankPreference("bogus"))
}

func TestBuildWeeklyLayoutSortsWithinDay(t *testing.T) {
	c := combo(
		section("MATH*1200", "0101", lecture(700, 750, models.Monday)),
		section("CIS*1500", "0101", lecture(540, 590, models.Monday)),
	)
	week := buildWeeklyLayout(c)

	monday := week[models.Monday.Index()]
	require.Len(t, monday, 2)
	assert.Equal(t, 540, monday[0].start)
	assert.Equal(t, 700, monday[1].start)
	assert.Empty(t, week[models.Tuesday.Index()])
}

func TestTotalGapMinutes(t *testing.T) {
	c := combo(
		section("CIS*1500", "0101", lecture(540, 590, models.Monday)),
		section("MATH*1200", "0101", lecture(650, 700, models.Monday)),
		section("STAT*2040", "0101", lecture(540, 590, models.Wednesday)),
	)
	week := buildWeeklyLayout(c)

	assert.Equal(t, 60, totalGapMinutes(week))
	assert.Equal(t, 2, daysOnCampus(week))
}

func TestSmartScoreIdealGap(t *testing.T) {
	// One day, two meetings separated by exactly an hour: +30 for the gap,
	// +50 for three or fewer campus days.
	c := combo(
		section("CIS*1500", "0101", lecture(540, 590, models.Monday)),
		section("MATH*1200", "0101", lecture(650, 700, models.Monday)),
	)
	score, details := smartScore(buildWeeklyLayout(c))

	assert.InDelta(t, 80.0, score, 0.001)
	assert.InDelta(t, 80.0, details.BaseScore, 0.001)
	assert.Zero(t, details.GapPenalties)
	assert.Zero(t, details.BackToBackPenalties)
	assert.Equal(t, 1, details.DaysOnCampus)
}

func TestSmartScoreBackToBackPenalty(t *testing.T) {
	c := combo(
		section("CIS*1500", "0101", lecture(540, 590, models.Monday)),
		section("MATH*1200", "0101", lecture(590, 640, models.Monday)),
	)
	score, details := smartScore(buildWeeklyLayout(c))

	assert.InDelta(t, 20.0, details.BackToBackPenalties, 0.001)
	assert.InDelta(t, 30.0, score, 0.001, "50 day bonus minus the back-to-back penalty")
}

func TestSmartScoreLongDayPenalty(t *testing.T) {
	// 480 to 1000 is a 520 minute span, 40 minutes over the threshold.
	c := combo(section("CIS*1500", "0101", lecture(480, 1000, models.Monday)))
	score, details := smartScore(buildWeeklyLayout(c))

	assert.InDelta(t, 4.0, details.LongDayPenalties, 0.001)
	assert.InDelta(t, 46.0, score, 0.001)
}

func TestSmartScoreShortGapPenalties(t *testing.T) {
	// 10 minute gap lands in the under-15 bucket.
	c := combo(
		section("CIS*1500", "0101", lecture(540, 590, models.Monday)),
		section("MATH*1200", "0101", lecture(600, 650, models.Monday)),
	)
	_, details := smartScore(buildWeeklyLayout(c))

	assert.InDelta(t, 30.0, details.GapPenalties, 0.001)
}

func TestSmartScoreDayCountBonuses(t *testing.T) {
	days := []models.Weekday{models.Monday, models.Tuesday, models.Wednesday, models.Thursday, models.Friday}
	build := func(n int) weeklyLayout {
		sections := make([]*models.Section, 0, n)
		for i := 0; i < n; i++ {
			sections = append(sections, section("C*1", "s", lecture(540, 590, days[i])))
		}
		return buildWeeklyLayout(combo(sections...))
	}

	threeDayScore, _ := smartScore(build(3))
	fourDayScore, _ := smartScore(build(4))
	fiveDayScore, _ := smartScore(build(5))

	assert.InDelta(t, 50.0, threeDayScore, 0.001)
	assert.InDelta(t, 25.0, fourDayScore, 0.001)
	assert.InDelta(t, 0.0, fiveDayScore, 0.001)
}

func TestLegacyGapScoreBuckets(t *testing.T) {
	assert.InDelta(t, 100.0, legacyGapScore(0), 0.001)
	assert.InDelta(t, 70.0, legacyGapScore(30), 0.001)
	assert.InDelta(t, 76.0, legacyGapScore(100), 0.001)
	assert.InDelta(t, 28.0, legacyGapScore(300), 0.001)
	assert.InDelta(t, 0.0, legacyGapScore(500), 0.001, "floored at zero")
}

func TestRankCombinationsMinimalGapsAscending(t *testing.T) {
	bigGap := combo(
		section("CIS*1500", "0101", lecture(540, 590, models.Monday)),
		section("MATH*1200", "0101", lecture(800, 850, models.Monday)),
	)
	smallGap := combo(
		section("CIS*1500", "0102", lecture(540, 590, models.Monday)),
		section("MATH*1200", "0102", lecture(620, 670, models.Monday)),
	)

	entries := rankCombinations([]Combination{bigGap, smallGap}, PreferenceMinimalGaps)

	require.Len(t, entries, 2)
	assert.Equal(t, 30, entries[0].gap)
	assert.Equal(t, 210, entries[1].gap)
}

func TestRankCombinationsEarlyStartAscending(t *testing.T) {
	late := combo(section("CIS*1500", "0101", lecture(700, 750, models.Monday)))
	early := combo(section("CIS*1500", "0102", lecture(510, 560, models.Monday)))

	entries := rankCombinations([]Combination{late, early}, PreferenceEarlyStart)

	assert.Equal(t, 510.0, entries[0].key)
	assert.Equal(t, 700.0, entries[1].key)
}

func TestRankCombinationsLateStartDescending(t *testing.T) {
	late := combo(section("CIS*1500", "0101", lecture(700, 750, models.Monday)))
	early := combo(section("CIS*1500", "0102", lecture(510, 560, models.Monday)))

	entries := rankCombinations([]Combination{early, late}, PreferenceLateStart)

	assert.Equal(t, 700.0, entries[0].key)
}

func TestRankCombinationsFewerDaysDominates(t *testing.T) {
	oneDay := combo(
		section("CIS*1500", "0101", lecture(540, 590, models.Monday)),
		section("MATH*1200", "0101", lecture(900, 950, models.Monday)),
	)
	twoDays := combo(
		section("CIS*1500", "0102", lecture(540, 590, models.Monday)),
		section("MATH*1200", "0102", lecture(650, 700, models.Tuesday)),
	)

	entries := rankCombinations([]Combination{twoDays, oneDay}, PreferenceFewerDays)

	// The 310 minute gap hurts the one-day schedule's smart score, but the
	// day count outweighs any gap quality.
	assert.Equal(t, 1, entries[0].days)
	assert.Equal(t, 2, entries[1].days)
}

func TestRankCombinationsStableTies(t *testing.T) {
	a := combo(section("CIS*1500", "0101", lecture(540, 590, models.Monday)))
	b := combo(section("CIS*1500", "0102", lecture(540, 590, models.Tuesday)))
	c := combo(section("CIS*1500", "0103", lecture(540, 590, models.Wednesday)))

	entries := rankCombinations([]Combination{a, b, c}, PreferenceMinimalGaps)

	// All gaps are zero; generation order must be preserved.
	assert.Equal(t, 0, entries[0].order)
	assert.Equal(t, 1, entries[1].order)
	assert.Equal(t, 2, entries[2].order)
}

func TestRankCombinationsDeterministic(t *testing.T) {
	combos := []Combination{
		combo(
			section("CIS*1500", "0101", lecture(540, 590, models.Monday, models.Wednesday)),
			section("MATH*1200", "0101", lecture(650, 700, models.Monday)),
		),
		combo(
			section("CIS*1500", "0102", lecture(600, 650, models.Tuesday)),
			section("MATH*1200", "0102", lecture(700, 750, models.Thursday)),
		),
		combo(
			section("CIS*1500", "0103", lecture(510, 560, models.Friday)),
			section("MATH*1200", "0103", lecture(560, 610, models.Friday)),
		),
	}

	first := rankCombinations(combos, PreferenceSmartGaps)
	for run := 0; run < 10; run++ {
		again := rankCombinations(combos, PreferenceSmartGaps)
		for i := range first {
			assert.Equal(t, first[i].order, again[i].order)
			assert.Equal(t, first[i].key, again[i].key)
		}
	}
}
