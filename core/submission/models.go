package submission

import (
	"io"
	"time"
)

// Submission is a student's uploaded artifact for an Assignment.
type Submission struct {
	ID             int       `json:"id"`
	SubmissionFile string    `json:"submission_file"`
	Student        int       `json:"student"`
	Assignment     int       `json:"assignment"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Rubric is an instructor's uploaded grading rubric for an Assignment.
type Rubric struct {
	ID         int       `json:"id"`
	RubricFile string    `json:"rubric_file"`
	Instructor int       `json:"instructor"`
	Assignment int       `json:"assignment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// File is an upload candidate. Size must be known up front so the cap check
// can run before any bytes travel.
type File struct {
	Name    string
	Size    int64
	Content io.Reader
}
