package models

// UserType is the role attached to a login identity.
type UserType string

const (
	UserTypeStudent UserType = "Student"
	UserTypeTeacher UserType = "Teacher"
	UserTypeAdmin   UserType = "Admin"
)

// UserTypes lists the roles in display order.
var UserTypes = []UserType{UserTypeStudent, UserTypeTeacher, UserTypeAdmin}

// Valid reports whether t is a known role.
func (t UserType) Valid() bool {
	switch t {
	case UserTypeStudent, UserTypeTeacher, UserTypeAdmin:
		return true
	}
	return false
}

// Account is a login identity.
type Account struct {
	ID         string   `json:"_id,omitempty"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	UserType   UserType `json:"user_type"`
	Department string   `json:"department,omitempty"`
	// Password is only sent when creating an account or resetting its password.
	Password string `json:"password,omitempty"`
}

// AccountFilter captures filtering criteria for listing accounts.
type AccountFilter struct {
	ListOptions
	UserType   UserType
	Department string
}
