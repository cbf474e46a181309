package models

// PassingPercent is the lowest passing percent.
const PassingPercent = 75.0

// Grade is a student's percent in one subject.
type Grade struct {
	ID         string       `json:"_id,omitempty"`
	Student    Ref[Student] `json:"student_ref"`
	Subject    Ref[Subject] `json:"subject_ref"`
	Teacher    Ref[Teacher] `json:"teacher_ref"`
	Percent    float64      `json:"percent"`
	GradedDate Date         `json:"graded_date"`
}

// Passed reports whether the percent meets PassingPercent.
func (g Grade) Passed() bool {
	return g.Percent >= PassingPercent
}

// GradeFilter allows querying of grades.
type GradeFilter struct {
	ListOptions
	StudentID string
	SubjectID string
	TeacherID string
}

// GradeLine is one subject in a GPA summary.
type GradeLine struct {
	GradeID     string  `json:"grade_id"`
	SubjectID   string  `json:"subject_id"`
	SubjectCode string  `json:"subject_code"`
	SubjectName string  `json:"subject_name"`
	Units       int     `json:"units"`
	Percent     float64 `json:"percent"`
	GradePoint  float64 `json:"grade_point"`
	Passed      bool    `json:"passed"`
}

// GradeSummary aggregates a student's grades.
type GradeSummary struct {
	StudentID      string      `json:"student_id"`
	Lines          []GradeLine `json:"lines"`
	TotalUnits     int         `json:"total_units"`
	GWA            float64     `json:"gwa"`
	AveragePercent float64     `json:"average_percent"`
	Passed         int         `json:"passed"`
	Failed         int         `json:"failed"`
}
