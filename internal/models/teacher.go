package models

// TeacherAssignment is one subject a teacher handles, with the official meeting slot.
type TeacherAssignment struct {
	ID          string       `json:"_id,omitempty"`
	Subject     Ref[Subject] `json:"subject_ref"`
	Day         string       `json:"day"`
	Time        string       `json:"time"`
	Room        string       `json:"room"`
	Slots       int          `json:"slots"`
	NumStudents int          `json:"num_students"`
}

// Remaining is the number of open seats. It is negative when over-enrolled.
func (a TeacherAssignment) Remaining() int {
	return a.Slots - a.NumStudents
}

// Full reports whether no seat is left.
func (a TeacherAssignment) Full() bool {
	return a.Remaining() <= 0
}

// Teacher is the teaching record linked to a teacher account.
type Teacher struct {
	ID          string              `json:"_id,omitempty"`
	TeacherUID  string              `json:"teacher_uid"`
	Account     Ref[Account]        `json:"account"`
	Departments []string            `json:"departments"`
	Subjects    []TeacherAssignment `json:"subjects"`
}

// DisplayName prefers the linked account name and falls back to the teacher UID.
func (t Teacher) DisplayName() string {
	if t.Account.Value != nil && t.Account.Value.Name != "" {
		return t.Account.Value.Name
	}
	return t.TeacherUID
}

// AssignmentFor returns the teacher's assignment for a subject.
func (t Teacher) AssignmentFor(subjectID string) (TeacherAssignment, bool) {
	for _, a := range t.Subjects {
		if a.Subject.ID == subjectID {
			return a, true
		}
	}
	return TeacherAssignment{}, false
}

// InDepartment reports whether the teacher belongs to dept.
func (t Teacher) InDepartment(dept string) bool {
	for _, d := range t.Departments {
		if d == dept {
			return true
		}
	}
	return false
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	ListOptions
	Department string
	SubjectID  string
}
