package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/informs-api/internal/dto"
	"github.com/noah-isme/informs-api/internal/middleware"
	"github.com/noah-isme/informs-api/internal/service"
	"github.com/noah-isme/informs-api/pkg/response"
)

type reportService interface {
	Conflicts(ctx context.Context, versionID *int64) (*dto.ConflictReport, bool, error)
	Analytics(ctx context.Context, versionID *int64) (*dto.Analytics, bool, error)
}

type exportService interface {
	Export(ctx context.Context, req service.ExportRequest) (*service.ExportFile, error)
}

// ReportHandler exposes conflict, analytics and export endpoints.
type ReportHandler struct {
	reports reportService
	exports exportService
}

// NewReportHandler constructs handler.
func NewReportHandler(reports reportService, exports exportService) *ReportHandler {
	return &ReportHandler{reports: reports, exports: exports}
}

// Conflicts godoc
// @Summary Student conflict report
// @Description Students holding two or more exams in the same timeslot
// @Tags Reports
// @Produce json
// @Param version_id query int false "Schedule version"
// @Success 200 {object} response.Envelope
// @Router /schedules/conflicts [get]
func (h *ReportHandler) Conflicts(c *gin.Context) {
	versionID, ok := versionQuery(c)
	if !ok {
		return
	}
	report, hit, err := h.reports.Conflicts(c.Request.Context(), versionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	middleware.SetVersion(c, report.VersionID)
	response.JSON(c, http.StatusOK, report, middleware.ExtractMeta(c))
}

// Analytics godoc
// @Summary Schedule analytics
// @Tags Reports
// @Produce json
// @Param version_id query int false "Schedule version"
// @Success 200 {object} response.Envelope
// @Router /schedules/analytics [get]
func (h *ReportHandler) Analytics(c *gin.Context) {
	versionID, ok := versionQuery(c)
	if !ok {
		return
	}
	summary, hit, err := h.reports.Analytics(c.Request.Context(), versionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	middleware.SetVersion(c, summary.VersionID)
	response.JSON(c, http.StatusOK, summary, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Export schedule or conflicts
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param version_id query int false "Schedule version"
// @Param view query string false "schedule or conflicts" default(schedule)
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /schedules/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	versionID, ok := versionQuery(c)
	if !ok {
		return
	}
	file, err := h.exports.Export(c.Request.Context(), service.ExportRequest{
		VersionID: versionID,
		View:      c.DefaultQuery("view", service.ExportViewSchedule),
		Format:    c.DefaultQuery("format", service.ExportFormatCSV),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
