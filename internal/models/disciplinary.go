package models

// Severity bounds of a disciplinary violation.
const (
	MinSeverity = 1
	MaxSeverity = 5
)

// DisciplinaryRecord is a violation logged against a student.
type DisciplinaryRecord struct {
	ID            string `json:"_id,omitempty"`
	StudentNumber string `json:"student_number"`
	TeacherID     string `json:"teacher_id"`
	Violation     string `json:"violation"`
	Sanction      string `json:"sanction"`
	Severity      int    `json:"severity"`
	Remarks       string `json:"remarks"`
	Date          Date   `json:"date"`
}

// DisciplinaryFilter allows listing records.
type DisciplinaryFilter struct {
	ListOptions
	StudentNumber string
	MinSeverity   int
}

// DisciplinarySummary aggregates a student's records.
type DisciplinarySummary struct {
	StudentNumber string `json:"student_number"`
	Count         int    `json:"count"`
	MaxSeverity   int    `json:"max_severity"`
	LatestDate    Date   `json:"latest_date"`
}
