package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/phdstats-api/internal/models"
	"github.com/noah-isme/phdstats-api/internal/stats"
	appErrors "github.com/noah-isme/phdstats-api/pkg/errors"
)

type datasetReader interface {
	Current() (*models.Dataset, bool)
}

// ProgramSearchRequest filters program names by substring.
type ProgramSearchRequest struct {
	Query string `validate:"max=200"`
}

// StudentListRequest selects the student rows of one program. An empty
// program lists every student.
type StudentListRequest struct {
	Program string `validate:"max=200"`
	Sort    string `validate:"omitempty,oneof=name start_date end_date active placement enrollment_date completion_date duration_years"`
	Order   string `validate:"omitempty,oneof=asc desc"`
}

// SnapshotListRequest selects the archive snapshots of one program.
type SnapshotListRequest struct {
	Program string `validate:"max=200"`
	Sort    string `validate:"omitempty,oneof=date count"`
	Order   string `validate:"omitempty,oneof=asc desc"`
}

// StatisticsRequest selects the metric ranked across programs.
type StatisticsRequest struct {
	Metric string `validate:"omitempty,oneof=placement duration"`
}

// StudentList is a program's students resolved against the served dataset.
type StudentList struct {
	Program string
	// Mixed is set when the rows span more than one university.
	Mixed   bool
	Records []models.StudentRecord
}

// ProgramService answers program queries against the served dataset. Every
// call recomputes from the current snapshot.
type ProgramService struct {
	store     datasetReader
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// ProgramServiceParams groups constructor dependencies.
type ProgramServiceParams struct {
	Store     datasetReader
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
}

// NewProgramService constructs a ProgramService.
func NewProgramService(params ProgramServiceParams) *ProgramService {
	v := params.Validator
	if v == nil {
		v = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{
		store:     params.Store,
		metrics:   params.Metrics,
		validator: v,
		logger:    logger,
		now:       time.Now,
	}
}

// Search lists program names containing the query, ignoring case.
func (s *ProgramService) Search(ctx context.Context, req ProgramSearchRequest) ([]string, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	dataset, err := s.dataset()
	if err != nil {
		return nil, err
	}
	return stats.SearchPrograms(dataset.Records, req.Query), nil
}

// Index summarises every program, ordered by name.
func (s *ProgramService) Index(ctx context.Context) ([]models.ProgramSummary, error) {
	dataset, err := s.dataset()
	if err != nil {
		return nil, err
	}
	start := s.now()
	summaries := stats.AggregatePrograms(dataset.Records)
	s.metrics.ObserveAggregation("index", s.now().Sub(start))
	return summaries, nil
}

// Summary aggregates one program. An empty program summarises the whole
// dataset.
func (s *ProgramService) Summary(ctx context.Context, program string) (models.ProgramSummary, error) {
	if err := s.validate(ProgramSearchRequest{Query: program}); err != nil {
		return models.ProgramSummary{}, err
	}
	list, err := s.students(program)
	if err != nil {
		return models.ProgramSummary{}, err
	}
	start := s.now()
	summary := stats.AggregateProgram(list.Records)
	s.metrics.ObserveAggregation("summary", s.now().Sub(start))
	return summary, nil
}

// Students returns the sorted student records of a program.
func (s *ProgramService) Students(ctx context.Context, req StudentListRequest) (*StudentList, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	list, err := s.students(req.Program)
	if err != nil {
		return nil, err
	}
	list.Records = stats.SortStudents(list.Records, req.Sort, sortOrder(req.Order))
	return list, nil
}

// Snapshots returns the deduplicated archive snapshots of a program.
func (s *ProgramService) Snapshots(ctx context.Context, req SnapshotListRequest) ([]models.SnapshotPoint, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	list, err := s.students(req.Program)
	if err != nil {
		return nil, err
	}
	column := req.Sort
	if column == "" {
		column = stats.SnapshotSortDate
	}
	points := stats.DedupeSnapshots(list.Records)
	return stats.SortSnapshots(points, column, sortOrder(req.Order)), nil
}

// Statistics ranks programs by the selected metric, placement by default.
func (s *ProgramService) Statistics(ctx context.Context, req StatisticsRequest) (models.StatisticsMetric, []models.StatisticsPoint, error) {
	if err := s.validate(req); err != nil {
		return "", nil, err
	}
	metric := models.StatisticsMetric(req.Metric)
	if metric == "" {
		metric = models.MetricPlacement
	}
	summaries, err := s.Index(ctx)
	if err != nil {
		return "", nil, err
	}
	return metric, stats.RankPrograms(summaries, metric), nil
}

func (s *ProgramService) students(program string) (*StudentList, error) {
	dataset, err := s.dataset()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(program) == "" {
		return &StudentList{
			Program: stats.AllPrograms,
			Mixed:   true,
			Records: dataset.Records,
		}, nil
	}
	records := stats.FilterProgram(dataset.Records, program)
	if len(records) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
	}
	return &StudentList{Program: records[0].University, Records: records}, nil
}

func (s *ProgramService) dataset() (*models.Dataset, error) {
	if s.store == nil {
		return nil, appErrors.ErrDatasetUnavailable
	}
	dataset, ok := s.store.Current()
	if !ok {
		return nil, appErrors.ErrDatasetUnavailable
	}
	return dataset, nil
}

func (s *ProgramService) validate(req interface{}) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters")
	}
	return nil
}

func sortOrder(order string) models.SortOrder {
	if models.SortOrder(order) == models.SortDescending {
		return models.SortDescending
	}
	return models.SortAscending
}
