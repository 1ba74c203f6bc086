package service

import (
	"sort"

	"github.com/ASHRREAL/guelph-schedule-generator/internal/dto"
	"github.com/ASHRREAL/guelph-schedule-generator/internal/models"
)

// RankPreference selects the scoring function used to order valid
// combinations.
type RankPreference string

const (
	PreferenceSmartGaps   RankPreference = "smart_gaps"
	PreferenceMinimalGaps RankPreference = "minimal_gaps"
	PreferenceBestGaps    RankPreference = "best_gaps"
	PreferenceFewerDays   RankPreference = "fewer_days"
	PreferenceEarlyStart  RankPreference = "early_start"
	PreferenceLateStart   RankPreference = "late_start"
	PreferenceCompact     RankPreference = "compact"
)

// ParseRankPreference maps a request value onto a known preference,
// defaulting to the smart composite score.
func ParseRankPreference(raw string) RankPreference {
	switch RankPreference(raw) {
	case PreferenceMinimalGaps, PreferenceBestGaps, PreferenceFewerDays,
		PreferenceEarlyStart, PreferenceLateStart, PreferenceCompact:
		return RankPreference(raw)
	default:
		return PreferenceSmartGaps
	}
}

type interval struct {
	start int
	end   int
}

// weeklyLayout is the per-weekday chronologically sorted meeting intervals of
// one combination. It is rebuilt fresh for every combination and indexed by
// the canonical weekday order, never iterated through a map, so every metric
// derived from it is deterministic.
type weeklyLayout [7][]interval

func buildWeeklyLayout(combo Combination) weeklyLayout {
	var week weeklyLayout
	for _, section := range combo {
		for _, meeting := range section.Meetings() {
			for _, day := range meeting.Days {
				idx := day.Index()
				if idx < 0 {
					continue
				}
				week[idx] = append(week[idx], interval{start: meeting.Start, end: meeting.End})
			}
		}
	}
	for idx := range week {
		day := week[idx]
		sort.Slice(day, func(i, j int) bool {
			if day[i].start == day[j].start {
				return day[i].end < day[j].end
			}
			return day[i].start < day[j].start
		})
	}
	return week
}

// totalGapMinutes sums the idle minutes between consecutive meetings on the
// same day. Only positive gaps count, so the total can never go below zero
// even if an overlapping pair slips through.
func totalGapMinutes(week weeklyLayout) int {
	total := 0
	for _, day := range week {
		for i := 1; i < len(day); i++ {
			gap := day[i].start - day[i-1].end
			if gap > 0 {
				total += gap
			}
		}
	}
	return total
}

func daysOnCampus(week weeklyLayout) int {
	count := 0
	for _, day := range week {
		if len(day) > 0 {
			count++
		}
	}
	return count
}

const longDayThreshold = 8 * 60

// smartScore computes the composite desirability score: day-by-day rewards
// for well-spaced gaps minus penalties for back-to-back classes, awkward
// gaps, long days, and many days on campus.
func smartScore(week weeklyLayout) (float64, dto.ScoreBreakdown) {
	var score, gapPenalties, backToBackPenalties, longDayPenalties float64
	campusDays := 0

	for _, day := range week {
		if len(day) == 0 {
			continue
		}
		campusDays++

		span := day[len(day)-1].end - day[0].start
		if span > longDayThreshold {
			longDayPenalties += float64(span-longDayThreshold) * 0.1
		}

		for i := 0; i < len(day)-1; i++ {
			gap := day[i+1].start - day[i].end
			switch {
			case gap == 0:
				backToBackPenalties += 20
			case gap < 0:
				// Overlaps should never survive the conflict filter.
				gapPenalties += 100
			case gap < 15:
				gapPenalties += 30
			case gap < 30:
				gapPenalties += 10
			case gap <= 120:
				distance := float64(gap - 60)
				if distance < 0 {
					distance = -distance
				}
				score += 20 + 10*(1-distance/60)
			case gap <= 180:
				gapPenalties += 5
			default:
				gapPenalties += float64(gap) * 0.1
			}
		}
	}

	switch {
	case campusDays <= 3:
		score += 50
	case campusDays == 4:
		score += 25
	}

	final := score - gapPenalties - backToBackPenalties - longDayPenalties
	return final, dto.ScoreBreakdown{
		BaseScore:           score,
		GapPenalties:        gapPenalties,
		BackToBackPenalties: backToBackPenalties,
		LongDayPenalties:    longDayPenalties,
		DaysOnCampus:        campusDays,
	}
}

// legacyGapScore is the bucketed total-gap score with its sweet spot around
// an hour of total idle time.
func legacyGapScore(totalGap int) float64 {
	switch {
	case totalGap < 60:
		return float64(100 - totalGap)
	case totalGap < 240:
		return 80 - float64(totalGap-60)*0.1
	default:
		score := 40 - float64(totalGap-240)*0.2
		if score < 0 {
			return 0
		}
		return score
	}
}

func earliestStart(week weeklyLayout) int {
	earliest := models.MinutesPerDay
	for _, day := range week {
		if len(day) > 0 && day[0].start < earliest {
			earliest = day[0].start
		}
	}
	return earliest
}

// latestDailyFirstStart is the minimum of each campus day's first meeting
// start; ranking it descending prefers schedules whose mornings begin late.
func latestDailyFirstStart(week weeklyLayout) int {
	value := 0
	first := true
	for _, day := range week {
		if len(day) == 0 {
			continue
		}
		if first || day[0].start < value {
			value = day[0].start
			first = false
		}
	}
	return value
}

func totalDailySpan(week weeklyLayout) int {
	total := 0
	for _, day := range week {
		if len(day) == 0 {
			continue
		}
		total += day[len(day)-1].end - day[0].start
	}
	return total
}

type rankedEntry struct {
	order   int
	key     float64
	gap     int
	days    int
	details *dto.ScoreBreakdown
	combo   Combination
}

// rankCombinations produces a stable total order over the surviving
// combinations under the selected preference. Ties keep generation order.
func rankCombinations(combos []Combination, pref RankPreference) []rankedEntry {
	entries := make([]rankedEntry, len(combos))
	ascending := false

	for i, combo := range combos {
		week := buildWeeklyLayout(combo)
		gap := totalGapMinutes(week)
		entry := rankedEntry{order: i, gap: gap, days: daysOnCampus(week), combo: combo}

		switch pref {
		case PreferenceMinimalGaps:
			entry.key = float64(gap)
			ascending = true
		case PreferenceBestGaps:
			entry.key = legacyGapScore(gap)
		case PreferenceFewerDays:
			smart, details := smartScore(week)
			entry.key = float64(-entry.days*10000) + smart
			entry.details = &details
		case PreferenceEarlyStart:
			entry.key = float64(earliestStart(week))
			ascending = true
		case PreferenceLateStart:
			entry.key = float64(latestDailyFirstStart(week))
		case PreferenceCompact:
			entry.key = float64(totalDailySpan(week)) + float64(gap)*0.1
			ascending = true
		default:
			smart, details := smartScore(week)
			entry.key = smart
			entry.details = &details
		}
		entries[i] = entry
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if ascending {
			return entries[i].key < entries[j].key
		}
		return entries[i].key > entries[j].key
	})
	return entries
}
