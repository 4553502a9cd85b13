package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/phdstats-api/internal/models"
	"github.com/noah-isme/phdstats-api/internal/repository"
	"github.com/noah-isme/phdstats-api/internal/store"
	appErrors "github.com/noah-isme/phdstats-api/pkg/errors"
)

type fakeSource struct {
	mu         sync.Mutex
	version    int
	versionErr error
	students   []models.RawStudent
	loadErr    error
	loads      int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) LatestVersion(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.version, f.versionErr
}

func (f *fakeSource) Load(_ context.Context, version int) ([]models.RawStudent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.students, nil
}

func (f *fakeSource) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}

func rawFixture() []models.RawStudent {
	placed := true
	return []models.RawStudent{
		{
			Name:       "Ada Lovelace",
			University: "Rutgers",
			Placement:  &placed,
			Snapshots: []string{
				"https://web.archive.org/web/20190101000000/https://philosophy.rutgers.edu/people",
				"https://web.archive.org/web/20200101000000/https://philosophy.rutgers.edu/people",
			},
		},
		{
			Name:       "Cy Young",
			University: "NYU",
			Snapshots:  []string{"https://web.archive.org/web/20180101000000/https://as.nyu.edu/philosophy"},
		},
	}
}

func newDatasetServiceForTest(source *fakeSource) (*DatasetService, *store.DatasetStore) {
	datasets := store.NewDatasetStore()
	svc := NewDatasetService(DatasetServiceParams{
		Source:  source,
		Store:   datasets,
		Metrics: NewMetricsService(),
		Logger:  zap.NewNop(),
		Config:  DatasetServiceConfig{LoadRetries: 1, RetryDelay: time.Millisecond},
	})
	svc.now = func() time.Time { return date(2024, time.May, 1) }
	return svc, datasets
}

func TestDatasetServiceLoadPublishes(t *testing.T) {
	source := &fakeSource{version: 4, students: rawFixture()}
	svc, datasets := newDatasetServiceForTest(source)

	dataset, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, dataset.Version)
	assert.Equal(t, "fake", dataset.Source)
	assert.Len(t, dataset.Records, 2)

	current, ok := datasets.Current()
	require.True(t, ok)
	assert.Same(t, dataset, current)

	status := svc.Status()
	assert.True(t, status.Loaded)
	assert.Equal(t, 4, status.Version)
	assert.Equal(t, 2, status.RecordCount)
	assert.Equal(t, 2, status.Programs)
	require.NotNil(t, status.LoadedAt)
	assert.Empty(t, status.LastError)
	assert.True(t, svc.Ready())
}

func TestDatasetServiceLoadSkipsUnchangedVersion(t *testing.T) {
	source := &fakeSource{version: 4, students: rawFixture()}
	svc, _ := newDatasetServiceForTest(source)

	first, err := svc.Load(context.Background())
	require.NoError(t, err)
	second, err := svc.Load(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, source.loadCount())
}

func TestDatasetServiceLoadFailureKeepsServedDataset(t *testing.T) {
	source := &fakeSource{version: 4, students: rawFixture()}
	svc, datasets := newDatasetServiceForTest(source)
	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	source.mu.Lock()
	source.version = 5
	source.loadErr = errors.New("connection refused")
	source.mu.Unlock()

	_, err = svc.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDatasetUnavailable.Code, appErrors.FromError(err).Code)

	current, ok := datasets.Current()
	require.True(t, ok)
	assert.Equal(t, 4, current.Version)
	assert.Contains(t, svc.Status().LastError, "connection refused")
	assert.Equal(t, uint64(1), svc.metrics.Snapshot().DatasetLoadFailures)
}

func TestDatasetServiceLoadMissingDataset(t *testing.T) {
	source := &fakeSource{versionErr: repository.ErrDatasetNotFound}
	svc, _ := newDatasetServiceForTest(source)

	_, err := svc.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrDatasetNotFound)
	assert.False(t, svc.Ready())
	assert.False(t, svc.Status().Loaded)
}

func TestDatasetServiceScheduleReload(t *testing.T) {
	source := &fakeSource{version: 7, students: rawFixture()}
	svc, datasets := newDatasetServiceForTest(source)
	svc.Start(context.Background())
	defer svc.Stop()

	id, err := svc.ScheduleReload("test")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	require.Eventually(t, func() bool {
		_, ok := datasets.Current()
		return ok
	}, 2*time.Second, 5*time.Millisecond)
}

func TestDatasetServiceReloadExhaustionRecordsError(t *testing.T) {
	source := &fakeSource{version: 1, loadErr: errors.New("timeout")}
	svc, _ := newDatasetServiceForTest(source)
	svc.Start(context.Background())
	defer svc.Stop()

	_, err := svc.ScheduleReload("test")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return source.loadCount() == 2
	}, 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		return svc.Status().LastError != ""
	}, 2*time.Second, 5*time.Millisecond)
}

func TestDatasetServiceScheduleBeforeStart(t *testing.T) {
	svc, _ := newDatasetServiceForTest(&fakeSource{})

	_, err := svc.ScheduleReload("test")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
