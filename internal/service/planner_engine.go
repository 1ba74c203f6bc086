package service

import (
	"github.com/ASHRREAL/guelph-schedule-generator/internal/models"
)

// Combination is one full timetable candidate: exactly one section per
// requested course, positionally aligned to the input course order.
type Combination []*models.Section

// CourseSections pairs a course code with its candidate sections.
type CourseSections struct {
	Code     string
	Sections []*models.Section
}

// GenerationStats reports how much work the generator performed.
type GenerationStats struct {
	TotalPossible int64
	Checked       int
	Pruned        int
	Valid         int
	Truncated     bool
}

type sectionPair struct {
	a *models.Section
	b *models.Section
}

// conflictCache memoizes pairwise section conflicts for the duration of one
// planning request. Keys are identity pairs, which is safe because sections
// are constructed fresh per request and the cache dies with it.
type conflictCache map[sectionPair]bool

func newConflictCache() conflictCache {
	return make(conflictCache)
}

func (c conflictCache) conflicts(a, b *models.Section) bool {
	key := sectionPair{a, b}
	if b == a {
		return false
	}
	if result, ok := c[key]; ok {
		return result
	}
	if result, ok := c[sectionPair{b, a}]; ok {
		return result
	}
	result := a.ConflictsWith(b)
	c[key] = result
	return result
}

// generateCombinations walks the cross product of per-course section choices
// using backtracking with prefix pruning: each candidate is checked against
// the sections already chosen and the branch is abandoned on the first
// conflict. Generation halts as soon as maxResults valid combinations have
// been accepted.
func generateCombinations(courses [][]*models.Section, maxResults int, cache conflictCache) ([]Combination, GenerationStats) {
	stats := GenerationStats{TotalPossible: countCombinations(courses)}
	if maxResults <= 0 {
		maxResults = defaultMaxCombinations
	}
	for _, sections := range courses {
		if len(sections) == 0 {
			return nil, stats
		}
	}

	results := make([]Combination, 0)
	prefix := make([]*models.Section, 0, len(courses))

	var backtrack func(courseIdx int)
	backtrack = func(courseIdx int) {
		if courseIdx == len(courses) {
			combo := make(Combination, len(prefix))
			copy(combo, prefix)
			results = append(results, combo)
			stats.Valid++
			return
		}
		for _, candidate := range courses[courseIdx] {
			if len(results) >= maxResults {
				// Candidates were still pending when the cap was hit, so the
				// returned list may be partial.
				stats.Truncated = true
				return
			}
			stats.Checked++
			if conflictsWithPrefix(candidate, prefix, cache) {
				stats.Pruned++
				continue
			}
			prefix = append(prefix, candidate)
			backtrack(courseIdx + 1)
			prefix = prefix[:len(prefix)-1]
		}
	}
	backtrack(0)

	return results, stats
}

func conflictsWithPrefix(candidate *models.Section, prefix []*models.Section, cache conflictCache) bool {
	for _, chosen := range prefix {
		if cache.conflicts(chosen, candidate) {
			return true
		}
	}
	return false
}

func countCombinations(courses [][]*models.Section) int64 {
	total := int64(1)
	for _, sections := range courses {
		total *= int64(len(sections))
		if total <= 0 {
			return 0
		}
	}
	return total
}

// ValidateCombination re-checks an externally constructed combination: every
// pair of sections must be conflict free. It short-circuits on the first
// conflict found.
func ValidateCombination(sections []*models.Section) bool {
	for i := 0; i < len(sections); i++ {
		for j := i + 1; j < len(sections); j++ {
			if sections[i].ConflictsWith(sections[j]) {
				return false
			}
		}
	}
	return true
}

// filterSectionsByWindow pre-filters per-course candidates against a time
// window before generation. Courses whose every section falls outside the
// window are kept intact so the caller can identify them in error reporting
// rather than silently shrinking the search space to zero.
func filterSectionsByWindow(courses [][]*models.Section, earliest, latest int) [][]*models.Section {
	if earliest == 0 && latest == 0 {
		return courses
	}
	filtered := make([][]*models.Section, len(courses))
	for i, sections := range courses {
		var kept []*models.Section
		for _, section := range sections {
			if section.FitsTimeWindow(earliest, latest) {
				kept = append(kept, section)
			}
		}
		if len(kept) == 0 {
			filtered[i] = sections
			continue
		}
		filtered[i] = kept
	}
	return filtered
}
