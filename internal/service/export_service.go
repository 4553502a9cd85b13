package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/phdstats-api/internal/dto"
	"github.com/noah-isme/phdstats-api/internal/models"
	appErrors "github.com/noah-isme/phdstats-api/pkg/errors"
	"github.com/noah-isme/phdstats-api/pkg/export"
)

// Export kinds and formats.
const (
	ExportKindPrograms  = "programs"
	ExportKindStudents  = "students"
	ExportKindSnapshots = "snapshots"

	ExportFormatCSV     = "csv"
	ExportFormatPDF     = "pdf"
	ExportFormatParquet = "parquet"
)

type programQueries interface {
	Index(ctx context.Context) ([]models.ProgramSummary, error)
	Students(ctx context.Context, req StudentListRequest) (*StudentList, error)
	Snapshots(ctx context.Context, req SnapshotListRequest) ([]models.SnapshotPoint, error)
}

type csvRenderer interface {
	Render(table export.Table) ([]byte, error)
}

type pdfRenderer interface {
	Render(table export.Table, title string) ([]byte, error)
}

// ExportRequest selects what to export and how to encode it.
type ExportRequest struct {
	Kind    string `validate:"required,oneof=programs students snapshots"`
	Program string `validate:"required_if=Kind students,required_if=Kind snapshots,max=200"`
	Format  string `validate:"omitempty,oneof=csv pdf parquet"`
}

// ExportResult is a rendered file ready to be served or written to disk.
type ExportResult struct {
	Filename    string
	ContentType string
	Format      string
	Rows        int
	Body        []byte
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	MaxRows int
}

// ExportServiceParams groups constructor dependencies.
type ExportServiceParams struct {
	Programs  programQueries
	CSV       csvRenderer
	PDF       pdfRenderer
	Validator *validator.Validate
	Logger    *zap.Logger
	Config    ExportConfig
}

// ExportService renders program tables as CSV, PDF or Parquet files.
type ExportService struct {
	programs  programQueries
	csv       csvRenderer
	pdf       pdfRenderer
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(params ExportServiceParams) *ExportService {
	cfg := params.Config
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = 10000
	}
	csv := params.CSV
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	pdf := params.PDF
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	v := params.Validator
	if v == nil {
		v = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		programs:  params.Programs,
		csv:       csv,
		pdf:       pdf,
		validator: v,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Export renders the requested table. CSV and PDF cells carry display
// strings; Parquet rows keep typed values.
func (s *ExportService) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	if s.programs == nil {
		return nil, appErrors.ErrInternal
	}
	req.Kind = strings.ToLower(strings.TrimSpace(req.Kind))
	req.Format = strings.ToLower(strings.TrimSpace(req.Format))
	if req.Format == "" {
		req.Format = ExportFormatCSV
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}

	var (
		payload exportPayload
		err     error
	)
	switch req.Kind {
	case ExportKindPrograms:
		payload, err = s.programsPayload(ctx)
	case ExportKindStudents:
		payload, err = s.studentsPayload(ctx, req.Program)
	case ExportKindSnapshots:
		payload, err = s.snapshotsPayload(ctx, req.Program)
	}
	if err != nil {
		return nil, err
	}
	if payload.rows > s.cfg.MaxRows {
		return nil, appErrors.Clone(appErrors.ErrTooLarge, fmt.Sprintf("export has %d rows, limit is %d", payload.rows, s.cfg.MaxRows))
	}

	result := &ExportResult{
		Filename: s.buildFilename(req),
		Format:   req.Format,
		Rows:     payload.rows,
	}
	switch req.Format {
	case ExportFormatPDF:
		result.ContentType = export.ContentTypePDF
		result.Body, err = s.pdf.Render(payload.table, payload.title)
	case ExportFormatParquet:
		result.ContentType = export.ContentTypeParquet
		result.Body, err = payload.parquet()
	default:
		result.ContentType = export.ContentTypeCSV
		result.Body, err = s.csv.Render(payload.table)
	}
	if err != nil {
		s.logger.Error("export render failed", zap.String("kind", req.Kind), zap.String("format", req.Format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.logger.Info("export rendered",
		zap.String("kind", req.Kind),
		zap.String("format", req.Format),
		zap.Int("rows", result.Rows),
		zap.Int("bytes", len(result.Body)),
	)
	return result, nil
}

type exportPayload struct {
	title   string
	rows    int
	table   export.Table
	parquet func() ([]byte, error)
}

func (s *ExportService) programsPayload(ctx context.Context) (exportPayload, error) {
	summaries, err := s.programs.Index(ctx)
	if err != nil {
		return exportPayload{}, err
	}
	return exportPayload{
		title: "Program Overview",
		rows:  len(summaries),
		table: dto.ProgramIndexTable(summaries),
		parquet: func() ([]byte, error) {
			return export.RenderParquet(newProgramParquetRows(summaries))
		},
	}, nil
}

func (s *ExportService) studentsPayload(ctx context.Context, program string) (exportPayload, error) {
	list, err := s.programs.Students(ctx, StudentListRequest{Program: program, Sort: "name"})
	if err != nil {
		return exportPayload{}, err
	}
	return exportPayload{
		title: fmt.Sprintf("%s Students", list.Program),
		rows:  len(list.Records),
		table: dto.StudentTable(list.Records, list.Mixed),
		parquet: func() ([]byte, error) {
			return export.RenderParquet(newStudentParquetRows(list.Records))
		},
	}, nil
}

func (s *ExportService) snapshotsPayload(ctx context.Context, program string) (exportPayload, error) {
	points, err := s.programs.Snapshots(ctx, SnapshotListRequest{Program: program})
	if err != nil {
		return exportPayload{}, err
	}
	return exportPayload{
		title: fmt.Sprintf("%s Snapshots", program),
		rows:  len(points),
		table: dto.SnapshotTable(points),
		parquet: func() ([]byte, error) {
			return export.RenderParquet(newSnapshotParquetRows(points))
		},
	}, nil
}

func (s *ExportService) buildFilename(req ExportRequest) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	if req.Program == "" {
		return fmt.Sprintf("%s_%s.%s", req.Kind, timestamp, req.Format)
	}
	return fmt.Sprintf("%s_%s_%s.%s", req.Kind, sanitizeFilename(req.Program), timestamp, req.Format)
}

func sanitizeFilename(raw string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "\"", "")
	result := strings.ToLower(replacer.Replace(strings.TrimSpace(raw)))
	if result == "" {
		return "na"
	}
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
