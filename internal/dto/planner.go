package dto

import "github.com/ASHRREAL/guelph-schedule-generator/internal/models"

// CourseTimeWindow narrows a single course's acceptable meeting times,
// independent of the global window. Times are "HH:MM" strings.
type CourseTimeWindow struct {
	Earliest string `json:"earliest" validate:"omitempty"`
	Latest   string `json:"latest" validate:"omitempty"`
}

// PlanScheduleRequest drives one planning run over a semester catalog.
type PlanScheduleRequest struct {
	Semester       string                      `json:"semester" validate:"required"`
	Courses        []string                    `json:"courses" validate:"required,min=1,max=12"`
	Earliest       string                      `json:"earliest" validate:"omitempty"`
	Latest         string                      `json:"latest" validate:"omitempty"`
	CourseWindows  map[string]CourseTimeWindow `json:"courseTimeConstraints"`
	SectionFilter  map[string][]string         `json:"courseSectionFilter"`
	DaysOff        []string                    `json:"daysOff" validate:"omitempty,max=6"`
	MinDaysOff     *int                        `json:"minDaysOff" validate:"omitempty,min=0,max=5"`
	SortPreference string                      `json:"sortPreference" validate:"omitempty,oneof=smart_gaps minimal_gaps best_gaps fewer_days early_start late_start compact"`
	MaxResults     int                         `json:"maxResults" validate:"omitempty,min=1,max=2000"`
}

// PlannedMeeting serializes one meeting block of a chosen section.
type PlannedMeeting struct {
	Type  string           `json:"type"`
	Start int              `json:"start"`
	End   int              `json:"end"`
	Days  []models.Weekday `json:"days"`
}

// PlannedSection serializes one chosen section within a combination.
type PlannedSection struct {
	CourseCode string           `json:"courseCode"`
	SectionID  string           `json:"sectionId"`
	Lectures   []PlannedMeeting `json:"lectures,omitempty"`
	Seminars   []PlannedMeeting `json:"seminars,omitempty"`
	Labs       []PlannedMeeting `json:"labs,omitempty"`
}

// ScoreBreakdown carries the smart-score sub-penalties.
type ScoreBreakdown struct {
	BaseScore           float64 `json:"base_score"`
	GapPenalties        float64 `json:"gap_penalties"`
	BackToBackPenalties float64 `json:"back_to_back_penalties"`
	LongDayPenalties    float64 `json:"long_day_penalties"`
	DaysOnCampus        int     `json:"days_on_campus"`
}

// RankedCombination is one combination of the ranked output.
type RankedCombination struct {
	Rank         int              `json:"rank"`
	TotalGapTime int              `json:"total_gap_time"`
	Score        float64          `json:"score"`
	ScoreDetails *ScoreBreakdown  `json:"score_details,omitempty"`
	DaysOnCampus int              `json:"days_on_campus"`
	Sections     []PlannedSection `json:"courses"`
}

// PlanStats reports how the search behaved, including truncation and any
// constraint relaxation that was applied.
type PlanStats struct {
	TotalPossible        int64   `json:"total_possible"`
	CombinationsChecked  int     `json:"combinations_checked"`
	EarlyPruned          int     `json:"early_pruned"`
	ValidFound           int     `json:"valid_found"`
	TotalFoundBeforeCap  int     `json:"total_found_before_cap"`
	TotalDisplayed       int     `json:"total_displayed"`
	Truncated            bool    `json:"truncated"`
	LatestRelaxedMinutes int     `json:"latest_relaxed_minutes,omitempty"`
	FallbackApplied      bool    `json:"fallback_applied,omitempty"`
	ProcessingSeconds    float64 `json:"processing_time"`
	EarliestApplied      int     `json:"earliest_time_applied"`
	LatestApplied        int     `json:"latest_time_applied"`
	SortPreference       string  `json:"sort_preference"`
}

// PlanScheduleResponse is the ranked result handed back to the caller.
type PlanScheduleResponse struct {
	PlanID       string              `json:"planId"`
	Combinations []RankedCombination `json:"combinations"`
	Stats        PlanStats           `json:"stats"`
}

// ExportScheduleRequest renders a single chosen combination as CSV or PDF.
type ExportScheduleRequest struct {
	Format   string           `json:"format" validate:"required,oneof=csv pdf"`
	Title    string           `json:"title" validate:"omitempty,max=120"`
	Sections []PlannedSection `json:"courses" validate:"required,min=1,dive"`
}
