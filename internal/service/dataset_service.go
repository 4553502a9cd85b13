package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/phdstats-api/internal/models"
	"github.com/noah-isme/phdstats-api/internal/repository"
	"github.com/noah-isme/phdstats-api/internal/stats"
	appErrors "github.com/noah-isme/phdstats-api/pkg/errors"
	"github.com/noah-isme/phdstats-api/pkg/jobs"
)

// JobTypeDatasetLoad identifies background dataset loads.
const JobTypeDatasetLoad = "dataset.load"

type datasetStore interface {
	Publish(dataset *models.Dataset)
	Current() (*models.Dataset, bool)
}

// DatasetServiceConfig tunes background loading.
type DatasetServiceConfig struct {
	LoadRetries int
	RetryDelay  time.Duration
	Workers     int
}

// DatasetServiceParams groups constructor dependencies.
type DatasetServiceParams struct {
	Source  repository.DatasetSource
	Store   datasetStore
	Metrics *MetricsService
	Logger  *zap.Logger
	Config  DatasetServiceConfig
}

// DatasetService loads scraped datasets, derives student records once and
// publishes them to the store.
type DatasetService struct {
	source  repository.DatasetSource
	store   datasetStore
	metrics *MetricsService
	logger  *zap.Logger
	queue   *jobs.Queue
	now     func() time.Time

	mu        sync.Mutex
	loading   sync.Mutex
	lastError string
}

// NewDatasetService constructs a DatasetService with sane defaults.
func NewDatasetService(params DatasetServiceParams) *DatasetService {
	cfg := params.Config
	if cfg.LoadRetries < 0 {
		cfg.LoadRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &DatasetService{
		source:  params.Source,
		store:   params.Store,
		metrics: params.Metrics,
		logger:  logger,
		now:     time.Now,
	}
	svc.queue = jobs.NewQueue("dataset-loader", svc.handleJob, jobs.QueueConfig{
		Workers:     cfg.Workers,
		BufferSize:  1,
		MaxRetries:  cfg.LoadRetries,
		RetryDelay:  cfg.RetryDelay,
		Logger:      logger,
		OnExhausted: svc.handleExhausted,
	})
	return svc
}

// Start runs the background loader until ctx is cancelled or Stop is called.
func (s *DatasetService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop waits for in-flight loads to finish.
func (s *DatasetService) Stop() {
	s.queue.Stop()
}

// ScheduleReload queues a background load and returns its job ID. At most one
// reload waits in the queue at a time.
func (s *DatasetService) ScheduleReload(reason string) (string, error) {
	id, err := s.queue.TryEnqueue(jobs.Job{Type: JobTypeDatasetLoad, Payload: reason})
	if err != nil {
		if errors.Is(err, jobs.ErrQueueFull) {
			return "", appErrors.ErrReloadPending
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to schedule dataset reload")
	}
	s.logger.Info("dataset reload scheduled", zap.String("job_id", id), zap.String("reason", reason))
	return id, nil
}

// Load fetches the latest dataset version and publishes it. When that version
// is already served the current dataset is returned unchanged.
func (s *DatasetService) Load(ctx context.Context) (*models.Dataset, error) {
	if s.source == nil || s.store == nil {
		return nil, appErrors.ErrInternal
	}
	s.loading.Lock()
	defer s.loading.Unlock()

	start := s.now()
	dataset, err := s.load(ctx)
	elapsed := s.now().Sub(start)
	if err != nil {
		s.metrics.ObserveDatasetLoad(s.source.Name(), nil, elapsed)
		s.setLastError(err)
		s.logger.Warn("dataset load failed", zap.String("source", s.source.Name()), zap.Error(err))
		if errors.Is(err, repository.ErrDatasetNotFound) {
			return nil, appErrors.Wrap(err, appErrors.ErrDatasetUnavailable.Code, appErrors.ErrDatasetUnavailable.Status, "no dataset published by source")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDatasetUnavailable.Code, appErrors.ErrDatasetUnavailable.Status, "failed to load dataset")
	}
	s.metrics.ObserveDatasetLoad(s.source.Name(), dataset, elapsed)
	s.setLastError(nil)
	return dataset, nil
}

func (s *DatasetService) load(ctx context.Context) (*models.Dataset, error) {
	version, err := s.source.LatestVersion(ctx)
	if err != nil {
		return nil, err
	}
	if current, ok := s.store.Current(); ok && current.Version == version && current.Source == s.source.Name() {
		s.logger.Debug("dataset unchanged", zap.Int("version", version))
		return current, nil
	}

	raws, err := s.source.Load(ctx, version)
	if err != nil {
		return nil, err
	}
	now := s.now()
	dataset := &models.Dataset{
		Version:  version,
		Source:   s.source.Name(),
		LoadedAt: now.UTC(),
		Records:  stats.BuildRecords(raws, now),
	}
	s.store.Publish(dataset)
	s.logger.Info("dataset published",
		zap.String("source", dataset.Source),
		zap.Int("version", dataset.Version),
		zap.Int("records", len(dataset.Records)),
	)
	return dataset, nil
}

// Status reports the dataset currently served and the last load outcome.
func (s *DatasetService) Status() models.DatasetStatus {
	s.mu.Lock()
	status := models.DatasetStatus{LastError: s.lastError}
	s.mu.Unlock()

	if s.source != nil {
		status.Source = s.source.Name()
	}
	if s.store == nil {
		return status
	}
	dataset, ok := s.store.Current()
	if !ok {
		return status
	}
	loadedAt := dataset.LoadedAt
	status.Loaded = true
	status.Version = dataset.Version
	status.Source = dataset.Source
	status.LoadedAt = &loadedAt
	status.RecordCount = len(dataset.Records)
	status.Programs = len(stats.GroupByProgram(dataset.Records))
	return status
}

// Ready reports whether a dataset is being served.
func (s *DatasetService) Ready() bool {
	if s == nil || s.store == nil {
		return false
	}
	_, ok := s.store.Current()
	return ok
}

func (s *DatasetService) handleJob(ctx context.Context, job jobs.Job) error {
	s.logger.Debug("dataset load job started", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt))
	_, err := s.Load(ctx)
	return err
}

func (s *DatasetService) handleExhausted(job jobs.Job, err error) {
	s.setLastError(err)
	s.logger.Error("dataset load abandoned", zap.String("job_id", job.ID), zap.Int("attempts", job.Attempt), zap.Error(err))
}

func (s *DatasetService) setLastError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		s.lastError = ""
		return
	}
	s.lastError = err.Error()
}
