package domain

import (
	"errors"
	"time"
)

var ErrCourseNotFound = errors.New("course not found")
var ErrCourseExists = errors.New("course already exists")
var ErrImportJobNotFound = errors.New("import job not found")

// Course is a scheduled unit of teaching offered by a department.
type Course struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Code         string    `json:"code" bson:"code"`
	Title        string    `json:"title" bson:"title"`
	Department   string    `json:"department" bson:"department"`
	Credits      int       `json:"credits" bson:"credits"`
	TeacherEmail string    `json:"teacher_email" bson:"teacher_email"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// ImportJobStatus is the lifecycle state of a bulk import job.
type ImportJobStatus string

const (
	ImportPending   ImportJobStatus = "pending"
	ImportRunning   ImportJobStatus = "running"
	ImportCompleted ImportJobStatus = "completed"
	ImportFailed    ImportJobStatus = "failed"
)

// RowError records why a single CSV row was rejected. Line numbers are
// 1-based and count the header row.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ImportReport is the outcome of a bulk course import, kept for later
// retrieval by job id.
type ImportReport struct {
	JobID      string          `json:"job_id"`
	Status     ImportJobStatus `json:"status"`
	TotalRows  int             `json:"total_rows"`
	Imported   int             `json:"imported"`
	RowErrors  []RowError      `json:"row_errors,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at,omitzero"`
}
