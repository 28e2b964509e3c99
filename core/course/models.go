package course

import (
	"time"

	"github.com/gradegator/dashboard/core"
)

// Course is one offering of a class for a term/section. The backend owns it;
// the dashboard never mutates a record outside explicit update calls.
type Course struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Number     string    `json:"number"`
	Term       string    `json:"term"`
	Section    string    `json:"section"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewCourse is the create-course form.
type NewCourse struct {
	Name       string `json:"name" form:"name" validate:"required"`
	Number     string `json:"number" form:"number" validate:"required"`
	Term       string `json:"term" form:"term" validate:"required"`
	Section    string `json:"section" form:"section"`
	Department string `json:"department" form:"department" validate:"required"`
}

func (nc *NewCourse) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	nc.Number = core.CleanString(nc.Number)
	nc.Term = core.CleanString(nc.Term)
	nc.Section = core.CleanString(nc.Section)
	nc.Department = core.CleanString(nc.Department)
	return core.Validate.Struct(nc)
}

// UpdateCourse defines what may be provided to modify an existing Course.
// Zero-valued fields are left untouched server-side.
type UpdateCourse struct {
	Name       string `json:"name,omitempty" form:"name"`
	Number     string `json:"number,omitempty" form:"number"`
	Term       string `json:"term,omitempty" form:"term"`
	Section    string `json:"section,omitempty" form:"section"`
	Department string `json:"department,omitempty" form:"department"`
}

func (uc *UpdateCourse) Validate() error {
	uc.Name = core.CleanString(uc.Name)
	uc.Number = core.CleanString(uc.Number)
	uc.Term = core.CleanString(uc.Term)
	uc.Section = core.CleanString(uc.Section)
	uc.Department = core.CleanString(uc.Department)
	return core.Validate.Struct(uc)
}
