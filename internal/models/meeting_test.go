package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func block(start, end int, days ...Weekday) MeetingBlock {
	return MeetingBlock{Kind: MeetingLecture, Start: start, End: end, Days: days}
}

func TestMeetingBlockOverlapRequiresSharedDay(t *testing.T) {
	a := block(540, 590, Monday, Wednesday)
	b := block(540, 590, Tuesday, Thursday)

	assert.False(t, a.OverlapsWith(b))
	assert.False(t, b.OverlapsWith(a))
}

func TestMeetingBlockOverlapIsSymmetric(t *testing.T) {
	a := block(540, 600, Monday)
	b := block(590, 650, Monday)

	assert.True(t, a.OverlapsWith(b))
	assert.True(t, b.OverlapsWith(a))
}

func TestMeetingBlockBoundaryTouchIsNotOverlap(t *testing.T) {
	a := block(540, 600, Monday)
	b := block(600, 660, Monday)

	assert.False(t, a.OverlapsWith(b))
	assert.False(t, b.OverlapsWith(a))
}

func TestMeetingBlockContainmentOverlaps(t *testing.T) {
	outer := block(480, 720, Friday)
	inner := block(540, 590, Friday)

	assert.True(t, outer.OverlapsWith(inner))
	assert.True(t, inner.OverlapsWith(outer))
}

func TestFitsTimeWindow(t *testing.T) {
	m := block(540, 590, Monday)

	assert.True(t, m.FitsTimeWindow(0, 0), "zero window is unconstrained")
	assert.True(t, m.FitsTimeWindow(540, 590), "exact fit passes")
	assert.True(t, m.FitsTimeWindow(500, 0), "zero latest means end of day")
	assert.False(t, m.FitsTimeWindow(541, 0))
	assert.False(t, m.FitsTimeWindow(0, 589))
}

func TestParseWeekdayAliases(t *testing.T) {
	cases := map[string]Weekday{
		"M":        Monday,
		"mon":      Monday,
		" Th ":     Thursday,
		"THURSDAY": Thursday,
		"fri":      Friday,
		"Su":       Sunday,
	}
	for raw, want := range cases {
		got, ok := ParseWeekday(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}

	_, ok := ParseWeekday("X")
	assert.False(t, ok)
}

func TestWeekdayIndexOrder(t *testing.T) {
	for i, day := range AllWeekdays {
		assert.Equal(t, i, day.Index())
	}
	assert.Equal(t, -1, Weekday("X").Index())
}

func TestSectionConflictsWith(t *testing.T) {
	a := NewSection("CIS*1500", "0101", []MeetingBlock{block(540, 590, Monday, Wednesday)}, nil, nil)
	b := NewSection("MATH*1200", "0102", []MeetingBlock{block(580, 630, Wednesday)}, nil, nil)
	c := NewSection("STAT*2040", "0103", []MeetingBlock{block(600, 650, Monday)}, nil, nil)
	empty := NewSection("PHIL*1010", "0104", nil, nil, nil)

	assert.True(t, a.ConflictsWith(b))
	assert.True(t, b.ConflictsWith(a))
	assert.False(t, a.ConflictsWith(c))
	assert.False(t, a.ConflictsWith(empty), "empty section never conflicts")
	assert.False(t, empty.ConflictsWith(a))
}

func TestSectionMeetingsFlattened(t *testing.T) {
	s := NewSection("CIS*1500", "0101",
		[]MeetingBlock{block(540, 590, Monday)},
		[]MeetingBlock{{Kind: MeetingSeminar, Start: 600, End: 650, Days: []Weekday{Tuesday}}},
		[]MeetingBlock{{Kind: MeetingLab, Start: 700, End: 820, Days: []Weekday{Friday}}},
	)

	assert.Len(t, s.Meetings(), 3)
}

func TestSectionFitsTimeWindow(t *testing.T) {
	s := NewSection("CIS*1500", "0101",
		[]MeetingBlock{block(540, 590, Monday)},
		nil,
		[]MeetingBlock{{Kind: MeetingLab, Start: 700, End: 820, Days: []Weekday{Friday}}},
	)

	assert.True(t, s.FitsTimeWindow(0, 0))
	assert.True(t, s.FitsTimeWindow(540, 820))
	assert.False(t, s.FitsTimeWindow(600, 0), "lecture starts before the earliest bound")
	assert.False(t, s.FitsTimeWindow(0, 800), "lab ends after the latest bound")
}
