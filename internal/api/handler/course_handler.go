package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campushq/campus-admin-api/internal/core/domain"
	"github.com/campushq/campus-admin-api/internal/core/ports"
	"github.com/campushq/campus-admin-api/internal/infrastructure/queue"
)

// maxImportSize bounds an uploaded CSV payload.
const maxImportSize = 5 << 20 // 5 MiB

type CourseHandler struct {
	courses    ports.CourseService
	dispatcher *queue.Dispatcher
}

func NewCourseHandler(courses ports.CourseService, dispatcher *queue.Dispatcher) *CourseHandler {
	return &CourseHandler{courses: courses, dispatcher: dispatcher}
}

type createCourseRequest struct {
	Code         string `json:"code" validate:"required"`
	Title        string `json:"title" validate:"required"`
	Department   string `json:"department" validate:"required"`
	Credits      int    `json:"credits" validate:"gt=0"`
	TeacherEmail string `json:"teacher_email" validate:"required,email"`
}

type courseListResponse struct {
	Courses []domain.Course `json:"courses"`
}

type importAcceptedResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// Create registers a new course.
//
// @Summary      Create a course
// @Tags         courses
// @Accept       json
// @Produce      json
// @Param        body  body      createCourseRequest  true  "Course details"
// @Success      201   {object}  domain.Course
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /courses [post]
func (h *CourseHandler) Create(c echo.Context) error {
	var req createCourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	course, err := h.courses.CreateCourse(c.Request().Context(), ports.CreateCourseInput{
		Code:         req.Code,
		Title:        req.Title,
		Department:   req.Department,
		Credits:      req.Credits,
		TeacherEmail: req.TeacherEmail,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, course)
}

// List returns courses, optionally filtered by department.
//
// @Summary      List courses
// @Tags         courses
// @Produce      json
// @Param        department  query     string  false  "Department filter"
// @Success      200         {object}  courseListResponse
// @Router       /courses [get]
func (h *CourseHandler) List(c echo.Context) error {
	courses, err := h.courses.ListCourses(c.Request().Context(), c.QueryParam("department"))
	if err != nil {
		return err
	}
	if courses == nil {
		courses = []domain.Course{}
	}
	return c.JSON(http.StatusOK, courseListResponse{Courses: courses})
}

// Get fetches a single course by code.
//
// @Summary      Get a course
// @Tags         courses
// @Produce      json
// @Param        code  path      string  true  "Course code"
// @Success      200   {object}  domain.Course
// @Failure      404   {object}  map[string]string
// @Router       /courses/{code} [get]
func (h *CourseHandler) Get(c echo.Context) error {
	course, err := h.courses.GetCourse(c.Request().Context(), c.Param("code"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, course)
}

// Delete removes a course by code.
//
// @Summary      Delete a course
// @Tags         courses
// @Param        code  path  string  true  "Course code"
// @Success      204
// @Failure      404   {object}  map[string]string
// @Router       /courses/{code} [delete]
func (h *CourseHandler) Delete(c echo.Context) error {
	if err := h.courses.DeleteCourse(c.Request().Context(), c.Param("code")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Import accepts a CSV upload and queues it for processing.
//
// @Summary      Bulk-import courses from CSV
// @Tags         courses
// @Accept       mpfd
// @Produce      json
// @Param        file  formData  file  true  "CSV payload (code,title,department,credits,teacher_email)"
// @Success      202   {object}  importAcceptedResponse
// @Failure      400   {object}  map[string]string
// @Router       /courses/import [post]
func (h *CourseHandler) Import(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	if fileHeader.Size > maxImportSize {
		return echo.NewHTTPError(http.StatusBadRequest, "file too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImportSize))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable file")
	}

	report, err := h.courses.BeginImport(c.Request().Context())
	if err != nil {
		return err
	}
	h.dispatcher.Enqueue(queue.ImportTask{JobID: report.JobID, Data: data})

	return c.JSON(http.StatusAccepted, importAcceptedResponse{
		JobID:  report.JobID,
		Status: string(report.Status),
	})
}

// ImportStatus reports the outcome of a queued import.
//
// @Summary      Import job status
// @Tags         courses
// @Produce      json
// @Param        job_id  path      string  true  "Import job id"
// @Success      200     {object}  domain.ImportReport
// @Failure      404     {object}  map[string]string
// @Router       /courses/import/{job_id} [get]
func (h *CourseHandler) ImportStatus(c echo.Context) error {
	report, err := h.courses.ImportStatus(c.Request().Context(), c.Param("job_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}
