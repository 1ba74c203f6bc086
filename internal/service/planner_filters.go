package service

import (
	"github.com/ASHRREAL/guelph-schedule-generator/internal/models"
)

// Each filter takes a combination list and returns the surviving subset in
// input order. Filters are independent predicates over single combinations,
// so their application order only affects how much work later passes see.

// filterByEarliestAtSchool drops combinations with any meeting starting
// before the threshold. A zero threshold disables the filter.
func filterByEarliestAtSchool(combos []Combination, earliest int) []Combination {
	if earliest == 0 {
		return combos
	}
	valid := combos[:0:0]
	for _, combo := range combos {
		if earliestMeetingStart(combo) >= earliest {
			valid = append(valid, combo)
		}
	}
	return valid
}

func earliestMeetingStart(combo Combination) int {
	earliest := models.MinutesPerDay
	for _, section := range combo {
		for _, meeting := range section.Meetings() {
			if meeting.Start < earliest {
				earliest = meeting.Start
			}
		}
	}
	return earliest
}

// latestFilterResult reports what filterByLatestAtSchool had to do to avoid
// returning an empty list.
type latestFilterResult struct {
	Combos        []Combination
	RelaxedBy     int
	FallbackUsed  bool
	FallbackCount int
}

// filterByLatestAtSchool drops combinations with any meeting ending after the
// threshold. When the strict threshold would eliminate every combination the
// filter progressively widens it by the configured grace steps; if no step
// satisfies any combination a capped subset of the original list is returned
// so a too-strict constraint never silently produces zero results. The grace
// minutes are policy, not contract.
func filterByLatestAtSchool(combos []Combination, latest int, graceSteps []int, fallbackLimit int) latestFilterResult {
	if latest == 0 || len(combos) == 0 {
		return latestFilterResult{Combos: combos}
	}

	thresholds := make([]int, 0, len(graceSteps)+1)
	thresholds = append(thresholds, latest)
	for _, grace := range graceSteps {
		if grace > 0 {
			thresholds = append(thresholds, latest+grace)
		}
	}

	for _, threshold := range thresholds {
		valid := combos[:0:0]
		for _, combo := range combos {
			if latestMeetingEnd(combo) <= threshold {
				valid = append(valid, combo)
			}
		}
		if len(valid) > 0 {
			return latestFilterResult{Combos: valid, RelaxedBy: threshold - latest}
		}
	}

	if fallbackLimit <= 0 {
		fallbackLimit = defaultFallbackLimit
	}
	if fallbackLimit > len(combos) {
		fallbackLimit = len(combos)
	}
	return latestFilterResult{
		Combos:        combos[:fallbackLimit],
		FallbackUsed:  true,
		FallbackCount: fallbackLimit,
	}
}

func latestMeetingEnd(combo Combination) int {
	latest := 0
	for _, section := range combo {
		for _, meeting := range section.Meetings() {
			if meeting.End > latest {
				latest = meeting.End
			}
		}
	}
	return latest
}

// filterBySpecificDaysOff drops combinations with a meeting on any of the
// requested free days.
func filterBySpecificDaysOff(combos []Combination, daysOff []models.Weekday) []Combination {
	if len(daysOff) == 0 {
		return combos
	}
	off := make(map[models.Weekday]struct{}, len(daysOff))
	for _, day := range daysOff {
		off[day] = struct{}{}
	}

	valid := combos[:0:0]
	for _, combo := range combos {
		if !meetsOnAny(combo, off) {
			valid = append(valid, combo)
		}
	}
	return valid
}

func meetsOnAny(combo Combination, days map[models.Weekday]struct{}) bool {
	for _, section := range combo {
		for _, meeting := range section.Meetings() {
			for _, day := range meeting.Days {
				if _, ok := days[day]; ok {
					return true
				}
			}
		}
	}
	return false
}

// filterByMinDaysOff keeps combinations whose free-day count out of the
// Monday-Friday set is at least the requested minimum.
func filterByMinDaysOff(combos []Combination, minDaysOff int) []Combination {
	if minDaysOff <= 0 {
		return combos
	}
	valid := combos[:0:0]
	for _, combo := range combos {
		if len(models.ClassWeekdays)-classDaysOnCampus(combo) >= minDaysOff {
			valid = append(valid, combo)
		}
	}
	return valid
}

func classDaysOnCampus(combo Combination) int {
	onCampus := make(map[models.Weekday]struct{})
	for _, section := range combo {
		for _, meeting := range section.Meetings() {
			for _, day := range meeting.Days {
				for _, classDay := range models.ClassWeekdays {
					if day == classDay {
						onCampus[day] = struct{}{}
					}
				}
			}
		}
	}
	return len(onCampus)
}
