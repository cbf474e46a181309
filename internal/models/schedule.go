package models

import "strings"

// ScheduleEntry is one subject within a student's per-semester schedule.
type ScheduleEntry struct {
	ID         string       `json:"_id,omitempty"`
	CourseCode string       `json:"course_code"`
	Subject    Ref[Subject] `json:"subject_ref"`
	Teacher    Ref[Teacher] `json:"teacher_ref"`
	Day        string       `json:"day"`
	Time       string       `json:"time"`
	Room       string       `json:"room"`
}

// SameSlot reports whether both entries meet on the same day at the same time. Day
// and time are compared as trimmed, case-insensitive strings.
func (e ScheduleEntry) SameSlot(day, time string) bool {
	if strings.TrimSpace(e.Day) == "" || strings.TrimSpace(e.Time) == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(e.Day), strings.TrimSpace(day)) &&
		strings.EqualFold(strings.TrimSpace(e.Time), strings.TrimSpace(time))
}

// Schedule is a student's schedule for one academic year and semester.
type Schedule struct {
	ID       string          `json:"_id,omitempty"`
	Student  Ref[Student]    `json:"student_ref"`
	AcadYear string          `json:"acad_year"`
	Semester string          `json:"semester"`
	Entries  []ScheduleEntry `json:"schedules"`
}

// Entry finds an entry by id.
func (s Schedule) Entry(entryID string) (ScheduleEntry, bool) {
	for _, e := range s.Entries {
		if e.ID == entryID {
			return e, true
		}
	}
	return ScheduleEntry{}, false
}

// Conflicts returns the other entries sharing day and time with the given slot.
func (s Schedule) Conflicts(excludeEntryID, day, time string) []ScheduleEntry {
	var out []ScheduleEntry
	for _, e := range s.Entries {
		if e.ID == excludeEntryID {
			continue
		}
		if e.SameSlot(day, time) {
			out = append(out, e)
		}
	}
	return out
}

// ScheduleFilter describes query params for listing schedules.
type ScheduleFilter struct {
	ListOptions
	StudentID string
	AcadYear  string
	Semester  string
}

// EntryMode tells the backend how to resolve a mismatch with the teacher's assignment.
type EntryMode string

const (
	EntryModeUseTeacher      EntryMode = "useTeacher"
	EntryModeOverrideTeacher EntryMode = "overrideTeacher"
)

// Valid reports whether m is empty or a known mode.
func (m EntryMode) Valid() bool {
	switch m {
	case "", EntryModeUseTeacher, EntryModeOverrideTeacher:
		return true
	}
	return false
}

// EntryStatusMismatch is the status the backend returns when an edit diverges from
// the teacher's official assignment.
const EntryStatusMismatch = "mismatch"

// EntryUpdate is the payload of an edited schedule entry.
type EntryUpdate struct {
	Day  string    `json:"day"`
	Time string    `json:"time"`
	Room string    `json:"room"`
	Mode EntryMode `json:"mode,omitempty"`
}

// EntryAssignment is the payload used to assign a teacher to an entry.
type EntryAssignment struct {
	TeacherID string `json:"teacher_ref"`
	Day       string `json:"day"`
	Time      string `json:"time"`
	Room      string `json:"room"`
}

// EntryMismatch carries the teacher's official slot returned with a mismatch.
type EntryMismatch struct {
	Message string `json:"message"`
	Day     string `json:"day"`
	Time    string `json:"time"`
	Room    string `json:"room"`
}

// EntryUpdateResult is the outcome of an entry edit. Exactly one of Schedule or
// Mismatch is set.
type EntryUpdateResult struct {
	Schedule *Schedule
	Mismatch *EntryMismatch
}
