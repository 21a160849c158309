package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/informs-api/internal/dto"
	"github.com/noah-isme/informs-api/internal/models"
	"github.com/noah-isme/informs-api/pkg/response"
)

type studentService interface {
	List(ctx context.Context) ([]models.Student, error)
	Get(ctx context.Context, id int64) (*models.Student, error)
}

type studentScheduleProvider interface {
	StudentSchedule(ctx context.Context, studentID int64, versionID *int64) (*dto.StudentSchedule, error)
}

// StudentHandler exposes read-only student endpoints.
type StudentHandler struct {
	service   studentService
	schedules studentScheduleProvider
}

// NewStudentHandler constructs handler.
func NewStudentHandler(svc studentService, schedules studentScheduleProvider) *StudentHandler {
	return &StudentHandler{service: svc, schedules: schedules}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedules/students [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}

// Get godoc
// @Summary Get student
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	student, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Schedule godoc
// @Summary Student exam schedule
// @Description Lists the student's enrolled exams with room and timeslot in the resolved version
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Param version_id query int false "Schedule version"
// @Success 200 {object} response.Envelope
// @Router /schedules/students/{id}/schedule [get]
func (h *StudentHandler) Schedule(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	versionID, ok := versionQuery(c)
	if !ok {
		return
	}
	view, err := h.schedules.StudentSchedule(c.Request.Context(), id, versionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}
