package models

import "strings"

// MinutesPerDay is the exclusive upper bound for meeting minutes.
const MinutesPerDay = 1440

// MeetingKind identifies the component a meeting block belongs to.
type MeetingKind string

const (
	MeetingLecture MeetingKind = "LEC"
	MeetingSeminar MeetingKind = "SEM"
	MeetingLab     MeetingKind = "LAB"
)

// Weekday is a day abbreviation drawn from the catalog vocabulary.
type Weekday string

const (
	Monday    Weekday = "M"
	Tuesday   Weekday = "T"
	Wednesday Weekday = "W"
	Thursday  Weekday = "Th"
	Friday    Weekday = "F"
	Saturday  Weekday = "Sa"
	Sunday    Weekday = "Su"
)

// AllWeekdays lists every recognized day in canonical week order.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ClassWeekdays is the Monday-Friday subset used for days-off accounting.
var ClassWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

var weekdayIndex = map[Weekday]int{
	Monday:    0,
	Tuesday:   1,
	Wednesday: 2,
	Thursday:  3,
	Friday:    4,
	Saturday:  5,
	Sunday:    6,
}

var weekdayAliases = map[string]Weekday{
	"M":         Monday,
	"MO":        Monday,
	"MON":       Monday,
	"MONDAY":    Monday,
	"T":         Tuesday,
	"TU":        Tuesday,
	"TUE":       Tuesday,
	"TUESDAY":   Tuesday,
	"W":         Wednesday,
	"WE":        Wednesday,
	"WED":       Wednesday,
	"WEDNESDAY": Wednesday,
	"TH":        Thursday,
	"THU":       Thursday,
	"THURSDAY":  Thursday,
	"F":         Friday,
	"FR":        Friday,
	"FRI":       Friday,
	"FRIDAY":    Friday,
	"SA":        Saturday,
	"SAT":       Saturday,
	"SATURDAY":  Saturday,
	"SU":        Sunday,
	"SUN":       Sunday,
	"SUNDAY":    Sunday,
}

// ParseWeekday normalizes a source-specific day abbreviation.
// The second return is false when the value is not a recognized day.
func ParseWeekday(raw string) (Weekday, bool) {
	day, ok := weekdayAliases[strings.ToUpper(strings.TrimSpace(raw))]
	return day, ok
}

// Index returns the canonical position of the day within the week, or -1.
func (d Weekday) Index() int {
	if idx, ok := weekdayIndex[d]; ok {
		return idx
	}
	return -1
}

// MeetingBlock is one recurring weekly time range tied to a set of weekdays.
// Blocks are immutable once constructed; callers are expected to supply
// Start <= End.
type MeetingBlock struct {
	Kind  MeetingKind `json:"type"`
	Start int         `json:"start"`
	End   int         `json:"end"`
	Days  []Weekday   `json:"days"`
}

// OverlapsWith reports whether the two blocks collide: they must share at
// least one weekday and their [Start,End) intervals must intersect. Blocks
// that touch at a boundary do not overlap.
func (m MeetingBlock) OverlapsWith(other MeetingBlock) bool {
	if !m.sharesDay(other) {
		return false
	}
	return !(m.End <= other.Start || other.End <= m.Start)
}

// FitsTimeWindow reports whether the block sits inside the [earliest, latest]
// minute window. A (0, 0) window means unconstrained; latest == 0 with an
// earliest set is treated as end of day.
func (m MeetingBlock) FitsTimeWindow(earliest, latest int) bool {
	if earliest == 0 && latest == 0 {
		return true
	}
	if latest == 0 {
		latest = MinutesPerDay
	}
	return m.Start >= earliest && m.End <= latest
}

func (m MeetingBlock) sharesDay(other MeetingBlock) bool {
	for _, a := range m.Days {
		for _, b := range other.Days {
			if a == b {
				return true
			}
		}
	}
	return false
}
