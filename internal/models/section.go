package models

// Section is one selectable offering of a course, bundling its lecture,
// seminar and lab meeting blocks. The three component slots are normalized to
// slices at construction time so call sites never branch on the catalog's
// single-vs-list shape.
type Section struct {
	ID         string         `json:"sectionId"`
	CourseCode string         `json:"courseCode"`
	Lectures   []MeetingBlock `json:"lectures,omitempty"`
	Seminars   []MeetingBlock `json:"seminars,omitempty"`
	Labs       []MeetingBlock `json:"labs,omitempty"`

	meetings []MeetingBlock
}

// NewSection builds a section and flattens its meeting blocks once.
func NewSection(courseCode, id string, lectures, seminars, labs []MeetingBlock) *Section {
	s := &Section{
		ID:         id,
		CourseCode: courseCode,
		Lectures:   lectures,
		Seminars:   seminars,
		Labs:       labs,
	}
	s.meetings = make([]MeetingBlock, 0, len(lectures)+len(seminars)+len(labs))
	s.meetings = append(s.meetings, lectures...)
	s.meetings = append(s.meetings, seminars...)
	s.meetings = append(s.meetings, labs...)
	return s
}

// Meetings returns the flattened list of all meeting blocks.
func (s *Section) Meetings() []MeetingBlock {
	return s.meetings
}

// ConflictsWith reports whether any meeting block of this section overlaps
// any meeting block of the other. A section with no meetings never conflicts.
func (s *Section) ConflictsWith(other *Section) bool {
	for _, a := range s.meetings {
		for _, b := range other.meetings {
			if a.OverlapsWith(b) {
				return true
			}
		}
	}
	return false
}

// FitsTimeWindow reports whether every meeting block individually satisfies
// the window. Vacuously true for a section with no meetings.
func (s *Section) FitsTimeWindow(earliest, latest int) bool {
	for _, m := range s.meetings {
		if !m.FitsTimeWindow(earliest, latest) {
			return false
		}
	}
	return true
}
