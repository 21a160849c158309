package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/informs-api/internal/models"
	"github.com/noah-isme/informs-api/internal/service"
	"github.com/noah-isme/informs-api/pkg/response"
)

type versionService interface {
	List(ctx context.Context) ([]models.ScheduleVersion, error)
	Get(ctx context.Context, id int64) (*models.ScheduleVersion, error)
	Create(ctx context.Context, req service.CreateVersionRequest) (*models.ScheduleVersion, error)
	Update(ctx context.Context, id int64, req service.UpdateVersionRequest) (*models.ScheduleVersion, error)
	Delete(ctx context.Context, id int64) error
	Duplicate(ctx context.Context, sourceID int64, req service.DuplicateVersionRequest) (*models.ScheduleVersion, error)
}

// VersionHandler exposes schedule version endpoints.
type VersionHandler struct {
	service versionService
}

// NewVersionHandler constructs handler.
func NewVersionHandler(svc versionService) *VersionHandler {
	return &VersionHandler{service: svc}
}

// List godoc
// @Summary List schedule versions
// @Tags Versions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedules/versions [get]
func (h *VersionHandler) List(c *gin.Context) {
	versions, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, versions)
}

// Get godoc
// @Summary Get schedule version
// @Tags Versions
// @Produce json
// @Param id path int true "Version ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/versions/{id} [get]
func (h *VersionHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	version, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, version)
}

// Create godoc
// @Summary Create schedule version
// @Tags Versions
// @Accept json
// @Produce json
// @Param payload body service.CreateVersionRequest true "Version payload"
// @Success 201 {object} response.Envelope
// @Router /schedules/versions [post]
func (h *VersionHandler) Create(c *gin.Context) {
	var req service.CreateVersionRequest
	if !bindJSON(c, &req) {
		return
	}
	version, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, version)
}

// Update godoc
// @Summary Rename or activate schedule version
// @Tags Versions
// @Accept json
// @Produce json
// @Param id path int true "Version ID"
// @Param payload body service.UpdateVersionRequest true "Version payload"
// @Success 200 {object} response.Envelope
// @Router /schedules/versions/{id} [put]
func (h *VersionHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateVersionRequest
	if !bindJSON(c, &req) {
		return
	}
	version, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, version)
}

// Delete godoc
// @Summary Delete schedule version and its schedules
// @Tags Versions
// @Param id path int true "Version ID"
// @Success 204
// @Router /schedules/versions/{id} [delete]
func (h *VersionHandler) Delete(c *gin.Context) {
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

// Duplicate godoc
// @Summary Duplicate schedule version
// @Tags Versions
// @Accept json
// @Produce json
// @Param id path int true "Source version ID"
// @Param payload body service.DuplicateVersionRequest true "Copy name"
// @Success 201 {object} response.Envelope
// @Router /schedules/versions/{id}/duplicate [post]
func (h *VersionHandler) Duplicate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.DuplicateVersionRequest
	if !bindJSON(c, &req) {
		return
	}
	version, err := h.service.Duplicate(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, version)
}
