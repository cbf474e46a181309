package models

// Subject is a course offering.
type Subject struct {
	ID          string `json:"_id,omitempty"`
	Code        string `json:"code"`
	SubjectName string `json:"subject_name"`
	Units       int    `json:"units"`
	Department  string `json:"department"`
	YearLevel   int    `json:"year_level"`
	Semester    string `json:"semester"`
}

// Label renders "CODE - Name".
func (s Subject) Label() string {
	if s.SubjectName == "" {
		return s.Code
	}
	return s.Code + " - " + s.SubjectName
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	ListOptions
	Department string
	YearLevel  int
	Semester   string
}
