package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ASHRREAL/guelph-schedule-generator/internal/models"
)

func lecture(start, end int, days ...models.Weekday) []models.MeetingBlock {
	return []models.MeetingBlock{{Kind: models.MeetingLecture, Start: start, End: end, Days: days}}
}

func section(course, id string, blocks []models.MeetingBlock) *models.Section {
	return models.NewSection(course, id, blocks, nil, nil)
}

func TestGenerateCombinationsCrossProduct(t *testing.T) {
	courses := [][]*models.Section{
		{
			section("CIS*1500", "0101", lecture(540, 590, models.Monday)),
			section("CIS*1500", "0102", lecture(600, 650, models.Monday)),
		},
		{
			section("MATH*1200", "0101", lecture(540, 590, models.Tuesday)),
			section("MATH*1200", "0102", lecture(600, 650, models.Tuesday)),
		},
	}

	combos, stats := generateCombinations(courses, 100, newConflictCache())

	assert.Len(t, combos, 4, "no conflicts, so every pairing is valid")
	assert.Equal(t, int64(4), stats.TotalPossible)
	assert.Equal(t, 4, stats.Valid)
	assert.Zero(t, stats.Pruned)
	assert.False(t, stats.Truncated)
}

func TestGenerateCombinationsPrunesConflictingPrefixes(t *testing.T) {
	// Both sections of the second course collide with the first course's only
	// section, so no combination survives.
	courses := [][]*models.Section{
		{section("CIS*1500", "0101", lecture(540, 650, models.Monday))},
		{
			section("MATH*1200", "0101", lecture(560, 610, models.Monday)),
			section("MATH*1200", "0102", lecture(600, 640, models.Monday)),
		},
	}

	combos, stats := generateCombinations(courses, 100, newConflictCache())

	assert.Empty(t, combos)
	assert.Equal(t, 2, stats.Pruned)
	assert.Zero(t, stats.Valid)
}

func TestGenerateCombinationsStopsAtCap(t *testing.T) {
	// 3 x 3 conflict-free sections on distinct days: 9 possible, cap at 4.
	days := []models.Weekday{models.Monday, models.Wednesday, models.Friday}
	courses := make([][]*models.Section, 2)
	for c := range courses {
		for i, day := range days {
			courses[c] = append(courses[c], section(
				fmt.Sprintf("COURSE*%d", c),
				fmt.Sprintf("%02d", i),
				lecture(540+c*120, 590+c*120, day),
			))
		}
	}

	combos, stats := generateCombinations(courses, 4, newConflictCache())

	assert.Len(t, combos, 4)
	assert.True(t, stats.Truncated)
	assert.Equal(t, int64(9), stats.TotalPossible)
}

func TestGenerateCombinationsEmptyCourse(t *testing.T) {
	courses := [][]*models.Section{
		{section("CIS*1500", "0101", lecture(540, 590, models.Monday))},
		{},
	}

	combos, stats := generateCombinations(courses, 100, newConflictCache())

	assert.Nil(t, combos)
	assert.Equal(t, int64(0), stats.TotalPossible)
}

func TestGeneratedCombinationsAreConflictFree(t *testing.T) {
	courses := [][]*models.Section{
		{
			section("CIS*1500", "0101", lecture(540, 590, models.Monday)),
			section("CIS*1500", "0102", lecture(540, 590, models.Tuesday)),
		},
		{
			section("MATH*1200", "0101", lecture(560, 610, models.Monday)),
			section("MATH*1200", "0102", lecture(700, 750, models.Monday)),
		},
		{
			section("STAT*2040", "0101", lecture(560, 610, models.Tuesday)),
			section("STAT*2040", "0102", lecture(900, 950, models.Friday)),
		},
	}

	combos, _ := generateCombinations(courses, 1000, newConflictCache())

	require.NotEmpty(t, combos)
	for _, combo := range combos {
		assert.True(t, ValidateCombination(combo))
		assert.Len(t, combo, 3, "one section per course")
	}
}

func TestConflictCacheMemoizesBothOrderings(t *testing.T) {
	a := section("CIS*1500", "0101", lecture(540, 590, models.Monday))
	b := section("MATH*1200", "0101", lecture(560, 610, models.Monday))

	cache := newConflictCache()
	assert.True(t, cache.conflicts(a, b))
	assert.True(t, cache.conflicts(b, a))
	assert.Len(t, cache, 1, "the reverse lookup reuses the stored entry")
	assert.False(t, cache.conflicts(a, a), "a section never conflicts with itself")
}

func TestValidateCombination(t *testing.T) {
	a := section("CIS*1500", "0101", lecture(540, 590, models.Monday))
	b := section("MATH*1200", "0101", lecture(600, 650, models.Monday))
	c := section("STAT*2040", "0101", lecture(580, 640, models.Monday))

	assert.True(t, ValidateCombination([]*models.Section{a, b}))
	assert.False(t, ValidateCombination([]*models.Section{a, b, c}))
	assert.True(t, ValidateCombination(nil), "vacuously valid")
}

func TestFilterSectionsByWindowKeepsExhaustedCourses(t *testing.T) {
	morning := section("CIS*1500", "0101", lecture(480, 530, models.Monday))
	afternoon := section("CIS*1500", "0102", lecture(780, 830, models.Monday))
	evening := section("MATH*1200", "0101", lecture(1020, 1080, models.Tuesday))

	filtered := filterSectionsByWindow([][]*models.Section{
		{morning, afternoon},
		{evening},
	}, 600, 900)

	require.Len(t, filtered, 2)
	assert.Equal(t, []*models.Section{afternoon}, filtered[0])
	// Every MATH section misses the window; the original list is preserved so
	// the caller can name the course in its error.
	assert.Equal(t, []*models.Section{evening}, filtered[1])
}
