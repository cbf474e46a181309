package models

// Student is the academic record linked to a student account.
type Student struct {
	ID            string       `json:"_id,omitempty"`
	StudentNumber string       `json:"student_number"`
	Department    string       `json:"department"`
	YearLevel     int          `json:"year_level"`
	Course        string       `json:"course"`
	Account       Ref[Account] `json:"account"`
}

// DisplayName prefers the linked account name and falls back to the student number.
func (s Student) DisplayName() string {
	if s.Account.Value != nil && s.Account.Value.Name != "" {
		return s.Account.Value.Name
	}
	return s.StudentNumber
}

// StudentFilter captures filtering criteria for listing students.
type StudentFilter struct {
	ListOptions
	Department string
	YearLevel  int
	Course     string
}
