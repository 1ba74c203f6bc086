package models

import (
	"encoding/json"
	"time"
)

// SemesterCatalog is the parsed per-semester course data, keyed by course code.
type SemesterCatalog map[string]CourseRecord

// CourseRecord mirrors one catalog entry as produced by the scraper.
type CourseRecord struct {
	Title       string          `json:"Title"`
	Description string          `json:"Description"`
	Sections    []SectionRecord `json:"Sections"`
}

// SectionRecord is the raw shape of one course section.
type SectionRecord struct {
	ID      string      `json:"id"`
	Lecture MeetingList `json:"LEC,omitempty"`
	Seminar MeetingList `json:"SEM,omitempty"`
	Lab     MeetingList `json:"LAB,omitempty"`
}

// MeetingRecord is one raw meeting entry from the catalog.
type MeetingRecord struct {
	Start    int      `json:"start"`
	End      int      `json:"end"`
	Days     []string `json:"date"`
	Location string   `json:"location,omitempty"`
}

// MeetingList absorbs the catalog's inconsistent component shape: a slot may
// be absent, a single meeting object, or a list of meetings. It always decodes
// to a slice so downstream code never branches on shape.
type MeetingList []MeetingRecord

// UnmarshalJSON accepts null, a single object, or an array.
func (l *MeetingList) UnmarshalJSON(data []byte) error {
	*l = nil
	trimmed := string(data)
	if trimmed == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var list []MeetingRecord
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*l = list
		return nil
	}
	var single MeetingRecord
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*l = MeetingList{single}
	return nil
}

// Blocks converts the raw meetings into typed meeting blocks, dropping
// entries with no recognized weekday.
func (l MeetingList) Blocks(kind MeetingKind) []MeetingBlock {
	var blocks []MeetingBlock
	for _, rec := range l {
		days := make([]Weekday, 0, len(rec.Days))
		for _, raw := range rec.Days {
			if day, ok := ParseWeekday(raw); ok {
				days = append(days, day)
			}
		}
		if len(days) == 0 {
			continue
		}
		blocks = append(blocks, MeetingBlock{Kind: kind, Start: rec.Start, End: rec.End, Days: days})
	}
	return blocks
}

// Section builds the normalized section aggregate for this record.
func (r SectionRecord) Section(courseCode string) *Section {
	return NewSection(
		courseCode,
		r.ID,
		r.Lecture.Blocks(MeetingLecture),
		r.Seminar.Blocks(MeetingSeminar),
		r.Lab.Blocks(MeetingLab),
	)
}

// Course is the persisted catalog row for one course in one semester.
type Course struct {
	ID          string    `db:"id" json:"id"`
	Semester    string    `db:"semester" json:"semester"`
	Code        string    `db:"code" json:"code"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// SemesterInfo summarises one semester's catalog.
type SemesterInfo struct {
	Semester        string `json:"semester"`
	TotalCourses    int    `json:"total_courses"`
	TotalSections   int    `json:"total_sections"`
	DepartmentCount int    `json:"department_count"`
}

// Pagination describes paging metadata on list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
