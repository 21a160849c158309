package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/informs-api/internal/dto"
	"github.com/noah-isme/informs-api/internal/models"
	"github.com/noah-isme/informs-api/internal/service"
	"github.com/noah-isme/informs-api/pkg/response"
)

type scheduleService interface {
	List(ctx context.Context, versionID *int64) ([]models.Schedule, error)
	Get(ctx context.Context, id int64) (*models.Schedule, error)
	Create(ctx context.Context, req service.CreateScheduleRequest) (*models.Schedule, error)
	Update(ctx context.Context, id int64, req service.ScheduleRequest) (*models.Schedule, error)
	Delete(ctx context.Context, id int64) error
	BulkReplace(ctx context.Context, versionID *int64, items []service.ScheduleRequest) ([]models.Schedule, error)
	Detailed(ctx context.Context, versionID *int64) ([]dto.DetailedSchedule, error)
}

// ScheduleHandler exposes schedule endpoints.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(svc scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// List godoc
// @Summary List schedules of a version
// @Tags Schedules
// @Produce json
// @Param version_id query int false "Schedule version"
// @Success 200 {object} response.Envelope
// @Router /schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	versionID, ok := versionQuery(c)
	if !ok {
		return
	}
	schedules, err := h.service.List(c.Request.Context(), versionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules)
}

// Get godoc
// @Summary Get schedule
// @Tags Schedules
// @Produce json
// @Param id path int true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	schedule, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule)
}

// Create godoc
// @Summary Schedule an exam
// @Description version_id in the body wins over the query parameter
// @Tags Schedules
// @Accept json
// @Produce json
// @Param version_id query int false "Schedule version"
// @Param payload body service.CreateScheduleRequest true "Schedule payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schedules [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	queryVersion, ok := versionQuery(c)
	if !ok {
		return
	}
	var req service.CreateScheduleRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.VersionID == nil {
		req.VersionID = queryVersion
	}
	schedule, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, schedule)
}

// Update godoc
// @Summary Move a schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path int true "Schedule ID"
// @Param payload body service.ScheduleRequest true "Schedule payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id} [put]
func (h *ScheduleHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.ScheduleRequest
	if !bindJSON(c, &req) {
		return
	}
	schedule, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule)
}

// Delete godoc
// @Summary Delete schedule
// @Tags Schedules
// @Param id path int true "Schedule ID"
// @Success 204
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Detailed godoc
// @Summary Schedules joined with exam, room and timeslot
// @Tags Schedules
// @Produce json
// @Param version_id query int false "Schedule version"
// @Success 200 {object} response.Envelope
// @Router /schedules/detailed [get]
func (h *ScheduleHandler) Detailed(c *gin.Context) {
	versionID, ok := versionQuery(c)
	if !ok {
		return
	}
	rows, err := h.service.Detailed(c.Request.Context(), versionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows)
}

// BulkReplace godoc
// @Summary Replace every schedule of a version
// @Tags Schedules
// @Accept json
// @Produce json
// @Param version_id query int false "Schedule version"
// @Param payload body []service.ScheduleRequest true "Complete schedule set"
// @Success 200 {object} response.Envelope
// @Router /schedules/bulk [put]
func (h *ScheduleHandler) BulkReplace(c *gin.Context) {
	versionID, ok := versionQuery(c)
	if !ok {
		return
	}
	var items []service.ScheduleRequest
	if !bindJSON(c, &items) {
		return
	}
	schedules, err := h.service.BulkReplace(c.Request.Context(), versionID, items)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules)
}
