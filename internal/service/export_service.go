package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ASHRREAL/guelph-schedule-generator/internal/dto"
	"github.com/ASHRREAL/guelph-schedule-generator/internal/models"
	appErrors "github.com/ASHRREAL/guelph-schedule-generator/pkg/errors"
	"github.com/ASHRREAL/guelph-schedule-generator/pkg/export"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type exportMetrics interface {
	ObserveExport(format string)
}

// ExportResult carries the rendered file and the headers needed to serve it.
type ExportResult struct {
	Payload     []byte
	ContentType string
	Filename    string
}

// ExportService renders a chosen schedule combination as a downloadable file.
type ExportService struct {
	csv       csvRenderer
	pdf       pdfRenderer
	validator *validator.Validate
	logger    *zap.Logger
	metrics   exportMetrics
}

// NewExportService constructs an ExportService.
func NewExportService(csv csvRenderer, pdf pdfRenderer, validate *validator.Validate, logger *zap.Logger, metrics exportMetrics) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		csv:       csv,
		pdf:       pdf,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
	}
}

// Export renders the request's section list in the requested format.
func (s *ExportService) Export(req dto.ExportScheduleRequest) (*ExportResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}

	dataset := buildScheduleDataset(req.Sections)
	title := req.Title
	if title == "" {
		title = "Class Schedule"
	}

	var (
		payload     []byte
		contentType string
		err         error
	)
	switch req.Format {
	case "csv":
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case "pdf":
		payload, err = s.pdf.Render(dataset, title)
		contentType = "application/pdf"
	default:
		err = fmt.Errorf("unsupported format %s", req.Format)
	}
	if err != nil {
		s.logger.Error("render schedule export", zap.String("format", req.Format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render schedule export")
	}
	if s.metrics != nil {
		s.metrics.ObserveExport(req.Format)
	}

	return &ExportResult{
		Payload:     payload,
		ContentType: contentType,
		Filename:    exportFilename(title, req.Format),
	}, nil
}

func buildScheduleDataset(sections []dto.PlannedSection) export.Dataset {
	headers := []string{"Course", "Section", "Type", "Days", "Start", "End"}
	rows := make([]map[string]string, 0, len(sections))
	appendRows := func(section dto.PlannedSection, kind string, meetings []dto.PlannedMeeting) {
		for _, meeting := range meetings {
			rows = append(rows, map[string]string{
				"Course":  section.CourseCode,
				"Section": section.SectionID,
				"Type":    kind,
				"Days":    formatDays(meeting.Days),
				"Start":   formatClock(meeting.Start),
				"End":     formatClock(meeting.End),
			})
		}
	}
	for _, section := range sections {
		appendRows(section, "Lecture", section.Lectures)
		appendRows(section, "Seminar", section.Seminars)
		appendRows(section, "Lab", section.Labs)
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func formatDays(days []models.Weekday) string {
	parts := make([]string, len(days))
	for i, day := range days {
		parts[i] = string(day)
	}
	return strings.Join(parts, " ")
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func exportFilename(title, format string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, slug)
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "schedule"
	}
	return fmt.Sprintf("%s-%s.%s", slug, time.Now().Format("20060102"), format)
}
