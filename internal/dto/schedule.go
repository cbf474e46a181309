package dto

import "github.com/noah-isme/sma-admin-console/internal/models"

// TeacherOption is one selectable teacher in the assign-teacher form, carrying that
// teacher's official slot for the entry's subject.
type TeacherOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TeacherUID  string `json:"teacherUid"`
	Day         string `json:"day"`
	Time        string `json:"time"`
	Room        string `json:"room"`
	Slots       int    `json:"slots"`
	NumStudents int    `json:"numStudents"`
	Remaining   int    `json:"remaining"`
	Full        bool   `json:"full"`
	Selected    bool   `json:"selected"`
}

// AssignmentForm holds the values copied from the selected teacher.
type AssignmentForm struct {
	TeacherID string `json:"teacherId"`
	Day       string `json:"day"`
	Time      string `json:"time"`
	Room      string `json:"room"`
	Slots     int    `json:"slots"`
	Remaining int    `json:"remaining"`
}

// AssignTeacherView is the view model of the assign-teacher form.
type AssignTeacherView struct {
	ScheduleID  string                 `json:"scheduleId"`
	Entry       models.ScheduleEntry   `json:"entry"`
	SubjectCode string                 `json:"subjectCode"`
	SubjectName string                 `json:"subjectName"`
	Teachers    []TeacherOption        `json:"teachers"`
	Form        AssignmentForm         `json:"form"`
	ClassFull   bool                   `json:"classFull"`
	Conflicts   []models.ScheduleEntry `json:"conflicts"`
	// NeedsConfirmation is set when a warning is present. Submitting then requires
	// an explicit confirmation.
	NeedsConfirmation bool `json:"needsConfirmation"`
}

// HasSelection reports whether a teacher is selected.
func (v AssignTeacherView) HasSelection() bool {
	return v.Form.TeacherID != ""
}

// EntryEditView is the view model of the edit-entry form and its mismatch prompt.
type EntryEditView struct {
	ScheduleID string                `json:"scheduleId"`
	Entry      models.ScheduleEntry  `json:"entry"`
	Day        string                `json:"day"`
	Time       string                `json:"time"`
	Room       string                `json:"room"`
	Mismatch   *models.EntryMismatch `json:"mismatch,omitempty"`
}
