package ports

import (
	"context"

	"github.com/campushq/campus-admin-api/internal/core/domain"
)

// CreateCourseInput carries the fields required to create a course.
type CreateCourseInput struct {
	Code         string
	Title        string
	Department   string
	Credits      int
	TeacherEmail string
}

type CourseService interface {
	CreateCourse(ctx context.Context, input CreateCourseInput) (*domain.Course, error)
	GetCourse(ctx context.Context, code string) (*domain.Course, error)
	ListCourses(ctx context.Context, department string) ([]domain.Course, error)
	DeleteCourse(ctx context.Context, code string) error

	// BeginImport registers a pending import job and returns its report. The
	// actual processing happens later via ImportCSV, which the dispatcher
	// invokes from a worker.
	BeginImport(ctx context.Context) (*domain.ImportReport, error)
	ImportCSV(ctx context.Context, jobID string, data []byte) *domain.ImportReport
	ImportStatus(ctx context.Context, jobID string) (*domain.ImportReport, error)
}

// ImportReportStore keeps bulk-import outcomes for later retrieval by job id.
type ImportReportStore interface {
	Save(ctx context.Context, report *domain.ImportReport) error
	Find(ctx context.Context, jobID string) (*domain.ImportReport, error)
}
