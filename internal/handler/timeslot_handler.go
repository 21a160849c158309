package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/informs-api/internal/models"
	"github.com/noah-isme/informs-api/internal/service"
	"github.com/noah-isme/informs-api/pkg/response"
)

type timeslotService interface {
	List(ctx context.Context) ([]models.TimeSlot, error)
	Get(ctx context.Context, id int64) (*models.TimeSlot, error)
	Create(ctx context.Context, req service.TimeSlotRequest) (*models.TimeSlot, error)
	Update(ctx context.Context, id int64, req service.TimeSlotRequest) (*models.TimeSlot, error)
	Delete(ctx context.Context, id int64) error
}

// TimeSlotHandler exposes timeslot endpoints.
type TimeSlotHandler struct {
	service timeslotService
}

// NewTimeSlotHandler constructs handler.
func NewTimeSlotHandler(svc timeslotService) *TimeSlotHandler {
	return &TimeSlotHandler{service: svc}
}

// List godoc
// @Summary List timeslots
// @Tags TimeSlots
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedules/timeslots [get]
func (h *TimeSlotHandler) List(c *gin.Context) {
	slots, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots)
}

// Get godoc
// @Summary Get timeslot
// @Tags TimeSlots
// @Produce json
// @Param id path int true "TimeSlot ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/timeslots/{id} [get]
func (h *TimeSlotHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	slot, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot)
}

// Create godoc
// @Summary Create timeslot
// @Tags TimeSlots
// @Accept json
// @Produce json
// @Param payload body service.TimeSlotRequest true "TimeSlot payload"
// @Success 201 {object} response.Envelope
// @Router /schedules/timeslots [post]
func (h *TimeSlotHandler) Create(c *gin.Context) {
	var req service.TimeSlotRequest
	if !bindJSON(c, &req) {
		return
	}
	slot, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// Update godoc
// @Summary Update timeslot
// @Tags TimeSlots
// @Accept json
// @Produce json
// @Param id path int true "TimeSlot ID"
// @Param payload body service.TimeSlotRequest true "TimeSlot payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/timeslots/{id} [put]
func (h *TimeSlotHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.TimeSlotRequest
	if !bindJSON(c, &req) {
		return
	}
	slot, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot)
}

// Delete godoc
// @Summary Delete timeslot
// @Tags TimeSlots
// @Param id path int true "TimeSlot ID"
// @Success 204
// @Router /schedules/timeslots/{id} [delete]
func (h *TimeSlotHandler) Delete(c *gin.Context) {
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
