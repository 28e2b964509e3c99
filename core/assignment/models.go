package assignment

import (
	"time"

	"github.com/gradegator/dashboard/core"
)

// GradeMethod enumerates how an assignment is scored.
type GradeMethod string

const (
	GradePoints    GradeMethod = "POINTS"
	GradePercent   GradeMethod = "PERCENT"
	GradeLetter    GradeMethod = "LETTER"
	GradeStandards GradeMethod = "STANDARDS"
)

// Assignment is a gradable unit of work belonging to a Course.
type Assignment struct {
	ID                  int         `json:"id"`
	AssignmentID        string      `json:"assignment_id"`
	Title               string      `json:"title"`
	Description         string      `json:"description"`
	Questions           string      `json:"questions"`
	GradeMethod         GradeMethod `json:"grade_method"`
	ScoringBreakdown    string      `json:"scoring_breakdown"`
	Timing              time.Time   `json:"timing"` // release timestamp
	DueDate             time.Time   `json:"due_date"`
	IsVisibleToStudents bool        `json:"is_visible_to_students"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
	Course              int         `json:"course"`
}

// NewAssignment is the create-assignment form.
type NewAssignment struct {
	AssignmentID        string      `json:"assignment_id" form:"assignment_id"`
	Title               string      `json:"title" form:"title" validate:"required"`
	Description         string      `json:"description" form:"description"`
	Questions           string      `json:"questions" form:"questions"`
	GradeMethod         GradeMethod `json:"grade_method" form:"grade_method" validate:"required,oneof=POINTS PERCENT LETTER STANDARDS"`
	ScoringBreakdown    string      `json:"scoring_breakdown" form:"scoring_breakdown"`
	Timing              time.Time   `json:"timing" form:"timing"`
	DueDate             time.Time   `json:"due_date" form:"due_date" validate:"required"`
	IsVisibleToStudents bool        `json:"is_visible_to_students" form:"is_visible_to_students"`
	Course              int         `json:"course" form:"course" validate:"required"`
}

func (na *NewAssignment) Validate() error {
	na.Title = core.CleanString(na.Title)
	na.AssignmentID = core.CleanString(na.AssignmentID)
	return core.Validate.Struct(na)
}

// UpdateAssignment defines what may be provided to modify an existing
// Assignment; zero-valued fields are left untouched server-side.
type UpdateAssignment struct {
	Title               string      `json:"title,omitempty" form:"title"`
	Description         string      `json:"description,omitempty" form:"description"`
	Questions           string      `json:"questions,omitempty" form:"questions"`
	GradeMethod         GradeMethod `json:"grade_method,omitempty" form:"grade_method" validate:"omitempty,oneof=POINTS PERCENT LETTER STANDARDS"`
	ScoringBreakdown    string      `json:"scoring_breakdown,omitempty" form:"scoring_breakdown"`
	Timing              *time.Time  `json:"timing,omitempty" form:"timing"`
	DueDate             *time.Time  `json:"due_date,omitempty" form:"due_date"`
	IsVisibleToStudents *bool       `json:"is_visible_to_students,omitempty" form:"is_visible_to_students"`
}

func (ua *UpdateAssignment) Validate() error {
	ua.Title = core.CleanString(ua.Title)
	return core.Validate.Struct(ua)
}
