package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campushq/campus-admin-api/internal/core/domain"
	"github.com/campushq/campus-admin-api/internal/core/ports"
)

// csvHeader is the required first row of a bulk import payload.
var csvHeader = []string{"code", "title", "department", "credits", "teacher_email"}

type CourseService struct {
	repo    ports.CourseRepository
	reports ports.ImportReportStore
	clock   ports.Clock
	logger  zerolog.Logger
}

func NewCourseService(repo ports.CourseRepository, reports ports.ImportReportStore, clock ports.Clock, logger zerolog.Logger) *CourseService {
	return &CourseService{repo: repo, reports: reports, clock: clock, logger: logger}
}

func (s *CourseService) CreateCourse(ctx context.Context, input ports.CreateCourseInput) (*domain.Course, error) {
	now := s.clock.Now()
	course := &domain.Course{
		Code:         strings.ToUpper(strings.TrimSpace(input.Code)),
		Title:        strings.TrimSpace(input.Title),
		Department:   strings.TrimSpace(input.Department),
		Credits:      input.Credits,
		TeacherEmail: strings.ToLower(strings.TrimSpace(input.TeacherEmail)),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, course)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("code", created.Code).Str("department", created.Department).Msg("course created")
	return created, nil
}

func (s *CourseService) GetCourse(ctx context.Context, code string) (*domain.Course, error) {
	return s.repo.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

func (s *CourseService) ListCourses(ctx context.Context, department string) ([]domain.Course, error) {
	return s.repo.List(ctx, strings.TrimSpace(department))
}

func (s *CourseService) DeleteCourse(ctx context.Context, code string) error {
	return s.repo.DeleteByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

// BeginImport registers a pending job. The dispatcher picks it up and
// drives ImportCSV.
func (s *CourseService) BeginImport(ctx context.Context) (*domain.ImportReport, error) {
	report := &domain.ImportReport{
		JobID:     uuid.NewString(),
		Status:    domain.ImportPending,
		StartedAt: s.clock.Now(),
	}
	if err := s.reports.Save(ctx, report); err != nil {
		return nil, fmt.Errorf("register import job: %w", err)
	}
	return report, nil
}

func (s *CourseService) ImportStatus(ctx context.Context, jobID string) (*domain.ImportReport, error) {
	return s.reports.Find(ctx, jobID)
}

// ImportCSV parses one CSV payload and inserts every valid row. Row failures
// are collected into the report rather than aborting the job; only a
// malformed header or an unreadable stream fails the whole import.
func (s *CourseService) ImportCSV(ctx context.Context, jobID string, data []byte) *domain.ImportReport {
	report := &domain.ImportReport{
		JobID:     jobID,
		Status:    domain.ImportRunning,
		StartedAt: s.clock.Now(),
	}
	if err := s.reports.Save(ctx, report); err != nil {
		s.logger.Error().Err(err).Str("job_id", jobID).Msg("failed to mark import running")
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	if err := s.checkHeader(reader); err != nil {
		return s.finish(ctx, report, domain.ImportFailed, err)
	}

	line := 1 // header consumed
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			report.RowErrors = append(report.RowErrors, domain.RowError{Line: line, Message: err.Error()})
			continue
		}
		report.TotalRows++

		input, err := parseCourseRow(record)
		if err != nil {
			report.RowErrors = append(report.RowErrors, domain.RowError{Line: line, Message: err.Error()})
			continue
		}

		if _, err := s.CreateCourse(ctx, input); err != nil {
			msg := "insert failed"
			if err == domain.ErrCourseExists {
				msg = fmt.Sprintf("course %s already exists", input.Code)
			}
			report.RowErrors = append(report.RowErrors, domain.RowError{Line: line, Message: msg})
			continue
		}
		report.Imported++
	}

	return s.finish(ctx, report, domain.ImportCompleted, nil)
}

func (s *CourseService) checkHeader(reader *csv.Reader) error {
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return fmt.Errorf("expected header %s", strings.Join(csvHeader, ","))
	}
	for i, col := range csvHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), col) {
			return fmt.Errorf("expected header %s", strings.Join(csvHeader, ","))
		}
	}
	return nil
}

func (s *CourseService) finish(ctx context.Context, report *domain.ImportReport, status domain.ImportJobStatus, cause error) *domain.ImportReport {
	report.Status = status
	report.FinishedAt = s.clock.Now()
	if cause != nil {
		report.RowErrors = append(report.RowErrors, domain.RowError{Line: 1, Message: cause.Error()})
	}
	if err := s.reports.Save(ctx, report); err != nil {
		s.logger.Error().Err(err).Str("job_id", report.JobID).Msg("failed to save import report")
	}
	s.logger.Info().
		Str("job_id", report.JobID).
		Str("status", string(status)).
		Int("imported", report.Imported).
		Int("row_errors", len(report.RowErrors)).
		Dur("took", report.FinishedAt.Sub(report.StartedAt)).
		Msg("course import finished")
	return report
}

func parseCourseRow(record []string) (ports.CreateCourseInput, error) {
	if len(record) != len(csvHeader) {
		return ports.CreateCourseInput{}, fmt.Errorf("expected %d columns, got %d", len(csvHeader), len(record))
	}

	input := ports.CreateCourseInput{
		Code:         strings.TrimSpace(record[0]),
		Title:        strings.TrimSpace(record[1]),
		Department:   strings.TrimSpace(record[2]),
		TeacherEmail: strings.TrimSpace(record[4]),
	}
	if input.Code == "" || input.Title == "" || input.Department == "" {
		return ports.CreateCourseInput{}, fmt.Errorf("code, title and department are required")
	}

	credits, err := strconv.Atoi(strings.TrimSpace(record[3]))
	if err != nil || credits <= 0 {
		return ports.CreateCourseInput{}, fmt.Errorf("credits must be a positive integer")
	}
	input.Credits = credits

	if !strings.Contains(input.TeacherEmail, "@") {
		return ports.CreateCourseInput{}, fmt.Errorf("teacher_email must be a valid email")
	}
	return input, nil
}
