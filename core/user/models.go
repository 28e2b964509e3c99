package user

import (
	"github.com/volatiletech/null/v8"

	"github.com/gradegator/dashboard/core"
)

// Primary roles. The schema allows a user to carry both flags; views pick
// exactly one, preferring instructor.
const (
	RoleInstructor = "instructor"
	RoleStudent    = "student"
)

// Student is the role-specific sub-record attached to a User.
type Student struct {
	ID             int         `json:"id"`
	StudentID      string      `json:"student_id"`
	Name           string      `json:"name"`
	PreferredName  null.String `json:"preferred_name,omitempty"`
	Accommodations null.String `json:"accommodations,omitempty"`
	Courses        []int       `json:"courses"`
}

// Instructor is the role-specific sub-record attached to a User.
type Instructor struct {
	ID            int         `json:"id"`
	InstructorID  string      `json:"instructor_id"`
	Name          string      `json:"name"`
	PreferredName null.String `json:"preferred_name,omitempty"`
	Department    string      `json:"department"`
	Courses       []int       `json:"courses"`
}

// User is the canonical identity record served by /current-user/.
type User struct {
	ID           int         `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	IsStaff      bool        `json:"is_staff"`
	IsStudent    bool        `json:"is_student"`
	IsInstructor bool        `json:"is_instructor"`
	Student      *Student    `json:"student"`
	Instructor   *Instructor `json:"instructor"`
}

func (u *User) HasInstructorRole() bool {
	return u.IsInstructor || u.Instructor != nil
}

func (u *User) HasStudentRole() bool {
	return u.IsStudent || u.Student != nil
}

// PrimaryRole picks the one role a view renders for, preferring instructor
// when the schema carries both.
func (u *User) PrimaryRole() string {
	switch {
	case u.HasInstructorRole():
		return RoleInstructor
	case u.HasStudentRole():
		return RoleStudent
	}
	return ""
}

// InstructorPK returns the instructor sub-record id used by upload forms.
func (u *User) InstructorPK() (int, bool) {
	if u.Instructor == nil {
		return 0, false
	}
	return u.Instructor.ID, true
}

// StudentPK returns the student sub-record id used by upload forms.
func (u *User) StudentPK() (int, bool) {
	if u.Student == nil {
		return 0, false
	}
	return u.Student.ID, true
}

// AuthStatus is the transient session probe returned by /auth-status/.
type AuthStatus struct {
	IsAuthenticated bool   `json:"is_authenticated"`
	Message         string `json:"message,omitempty"`
}

// Credentials is the login form.
type Credentials struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (c *Credentials) Validate() error {
	c.Username = core.CleanString(c.Username, true /* lower */)
	return core.Validate.Struct(c)
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Username        string `json:"username" form:"username" validate:"required,min=6,alphanum_"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	FirstName       string `json:"first_name" form:"first_name" validate:"required"`
	LastName        string `json:"last_name" form:"last_name" validate:"required"`
	PreferredName   string `json:"preferred_name" form:"preferred_name"`
	Password        string `json:"password" form:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirmation" form:"password_confirmation" validate:"required,eqfield=Password"`
	IsStudent       bool   `json:"is_student" form:"is_student"`
	IsInstructor    bool   `json:"is_instructor" form:"is_instructor"`
}

func (nu *NewUser) Validate() error {
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.FirstName = core.CleanString(nu.FirstName)
	nu.LastName = core.CleanString(nu.LastName)
	nu.PreferredName = core.CleanString(nu.PreferredName)
	return core.Validate.Struct(nu)
}
