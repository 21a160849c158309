package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/informs-api/internal/dto"
	"github.com/noah-isme/informs-api/pkg/export"
	appErrors "github.com/noah-isme/informs-api/pkg/errors"
)

// Export views and formats.
const (
	ExportViewSchedule  = "schedule"
	ExportViewConflicts = "conflicts"
	ExportFormatCSV     = "csv"
	ExportFormatPDF     = "pdf"
)

type detailedScheduleProvider interface {
	Detailed(ctx context.Context, versionID *int64) ([]dto.DetailedSchedule, error)
}

type conflictProvider interface {
	Conflicts(ctx context.Context, versionID *int64) (*dto.ConflictReport, bool, error)
}

type renderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportRequest selects what to export.
type ExportRequest struct {
	VersionID *int64
	View      string
	Format    string
}

// ExportFile is a rendered export ready to be sent.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders schedule and conflict views as downloadable files.
type ExportService struct {
	schedules detailedScheduleProvider
	reports   conflictProvider
	resolver  versionResolver
	renderers map[string]renderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(schedules detailedScheduleProvider, reports conflictProvider, resolver versionResolver, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		schedules: schedules,
		reports:   reports,
		resolver:  resolver,
		renderers: map[string]renderer{
			ExportFormatCSV: export.NewCSVExporter(),
			ExportFormatPDF: export.NewPDFExporter(),
		},
		logger: logger,
		now:    time.Now,
	}
}

// Export renders the requested view of the resolved version.
func (s *ExportService) Export(ctx context.Context, req ExportRequest) (*ExportFile, error) {
	view := strings.ToLower(strings.TrimSpace(req.View))
	if view == "" {
		view = ExportViewSchedule
	}
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format == "" {
		format = ExportFormatCSV
	}
	r, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", req.Format))
	}

	versionID, err := s.resolver.Resolve(ctx, req.VersionID)
	if err != nil {
		return nil, err
	}

	var dataset export.Dataset
	switch view {
	case ExportViewSchedule:
		dataset, err = s.scheduleDataset(ctx, versionID)
	case ExportViewConflicts:
		dataset, err = s.conflictDataset(ctx, versionID)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export view %q", req.View))
	}
	if err != nil {
		return nil, err
	}

	payload, err := r.Render(dataset)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}
	filename := fmt.Sprintf("%s_v%d_%s.%s", view, versionID, s.now().UTC().Format("20060102_150405"), r.Extension())
	s.logger.Info("export rendered", zap.String("view", view), zap.String("format", format), zap.Int64("version_id", versionID), zap.Int("bytes", len(payload)))
	return &ExportFile{Filename: filename, ContentType: r.ContentType(), Payload: payload}, nil
}

func (s *ExportService) scheduleDataset(ctx context.Context, versionID int64) (export.Dataset, error) {
	rows, err := s.schedules.Detailed(ctx, &versionID)
	if err != nil {
		return export.Dataset{}, err
	}
	dataset := export.Dataset{
		Title:   fmt.Sprintf("Exam Schedule (version %d)", versionID),
		Headers: []string{"Schedule", "Exam", "Students", "Room", "Capacity", "Building", "Date", "Start", "End"},
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, row := range rows {
		record := []string{strconv.FormatInt(row.ID, 10), "", "", "", "", "", "", "", ""}
		if row.Exam != nil {
			record[1] = row.Exam.CourseName
			record[2] = strconv.Itoa(row.Exam.StudentCount)
		}
		if row.Room != nil {
			record[3] = row.Room.Name
			record[4] = strconv.Itoa(row.Room.Capacity)
			record[5] = row.Room.Building
		}
		if row.Timeslot != nil {
			record[6] = row.Timeslot.Date
			record[7] = row.Timeslot.StartTime
			record[8] = row.Timeslot.EndTime
		}
		dataset.Rows = append(dataset.Rows, record)
	}
	return dataset, nil
}

func (s *ExportService) conflictDataset(ctx context.Context, versionID int64) (export.Dataset, error) {
	report, _, err := s.reports.Conflicts(ctx, &versionID)
	if err != nil {
		return export.Dataset{}, err
	}
	dataset := export.Dataset{
		Title:   fmt.Sprintf("Exam Conflicts (version %d)", versionID),
		Headers: []string{"Student", "Email", "Date", "Start", "End", "Exams"},
		Rows:    make([][]string, 0, len(report.Conflicts)),
	}
	for _, c := range report.Conflicts {
		record := make([]string, 6)
		if c.Student != nil {
			record[0] = c.Student.Name
			record[1] = c.Student.Email
		}
		if c.Timeslot != nil {
			record[2] = c.Timeslot.Date
			record[3] = c.Timeslot.StartTime
			record[4] = c.Timeslot.EndTime
		}
		names := make([]string, 0, len(c.Exams))
		for _, exam := range c.Exams {
			names = append(names, exam.CourseName)
		}
		record[5] = strings.Join(names, "; ")
		dataset.Rows = append(dataset.Rows, record)
	}
	return dataset, nil
}
