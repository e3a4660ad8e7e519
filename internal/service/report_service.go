package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	appErrors "github.com/brightclass/class-rewards-api/pkg/errors"
	"github.com/brightclass/class-rewards-api/pkg/export"
)

// ReportFormat selects the export encoding.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// Report is a rendered class standings export.
type Report struct {
	FileName    string
	ContentType string
	Payload     []byte
}

// ReportService exports a class's point standings as CSV or PDF.
type ReportService struct {
	students leaderboardStudentRepository
	classes  studentClassRepository
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewReportService constructs a ReportService instance.
func NewReportService(students leaderboardStudentRepository, classes studentClassRepository, csv *export.CSVExporter, pdf *export.PDFExporter, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{students: students, classes: classes, csv: csv, pdf: pdf, logger: logger}
}

// ClassReport renders the owned class's standings in the given format.
// An empty format defaults to CSV.
func (s *ReportService) ClassReport(ctx context.Context, teacherID, classID string, format ReportFormat) (*Report, error) {
	if format == "" {
		format = ReportFormatCSV
	}
	if format != ReportFormatCSV && format != ReportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	class, err := s.classes.FindOwned(ctx, classID, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found or access denied")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch class")
	}

	students, err := s.students.Leaderboard(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load standings")
	}

	table := export.Table{
		Columns: []string{"Rank", "Student", "Points"},
		Rows:    make([]map[string]string, 0, len(students)),
	}
	for i, student := range students {
		table.Rows = append(table.Rows, map[string]string{
			"Rank":    strconv.Itoa(i + 1),
			"Student": student.Name,
			"Points":  strconv.Itoa(student.Points),
		})
	}

	switch format {
	case ReportFormatPDF:
		payload, err := s.pdf.Render(table, fmt.Sprintf("Point standings - %s", class.Name))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return &Report{
			FileName:    fmt.Sprintf("class-%s-standings.pdf", classID),
			ContentType: "application/pdf",
			Payload:     payload,
		}, nil
	default:
		payload, err := s.csv.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return &Report{
			FileName:    fmt.Sprintf("class-%s-standings.csv", classID),
			ContentType: "text/csv",
			Payload:     payload,
		}, nil
	}
}
