package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduleConflictsIgnoresCaseAndSpacing(t *testing.T) {
	s := Schedule{Entries: []ScheduleEntry{
		{ID: "a", Day: "Monday", Time: "8:00-9:00"},
		{ID: "b", Day: " monday ", Time: "8:00-9:00 "},
		{ID: "c", Day: "Tuesday", Time: "8:00-9:00"},
		{ID: "d"},
	}}

	conflicts := s.Conflicts("a", "MONDAY", "8:00-9:00")
	assert.Len(t, conflicts, 1)
	assert.Equal(t, "b", conflicts[0].ID)

	assert.Empty(t, s.Conflicts("", "", ""))
}

func TestTeacherAssignmentRemaining(t *testing.T) {
	teacher := Teacher{Subjects: []TeacherAssignment{
		{Subject: RefTo[Subject]("s1"), Slots: 40, NumStudents: 39},
		{Subject: RefTo[Subject]("s2"), Slots: 30, NumStudents: 30},
		{Subject: RefTo[Subject]("s3"), Slots: 10, NumStudents: 12},
	}}

	a, ok := teacher.AssignmentFor("s1")
	assert.True(t, ok)
	assert.Equal(t, 1, a.Remaining())
	assert.False(t, a.Full())

	a, _ = teacher.AssignmentFor("s2")
	assert.True(t, a.Full())

	a, _ = teacher.AssignmentFor("s3")
	assert.Equal(t, -2, a.Remaining())
	assert.True(t, a.Full())

	_, ok = teacher.AssignmentFor("missing")
	assert.False(t, ok)
}

func TestEntryModeValid(t *testing.T) {
	assert.True(t, EntryMode("").Valid())
	assert.True(t, EntryModeUseTeacher.Valid())
	assert.True(t, EntryModeOverrideTeacher.Valid())
	assert.False(t, EntryMode("keep").Valid())
}
