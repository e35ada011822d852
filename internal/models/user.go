package models

// Role is the portal role a session is opened under.
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
)

// Valid returns true when the role is a supported value.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty:
		return true
	default:
		return false
	}
}

// Session identifies the signed-in user.
type Session struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
