package repository

import (
	"context"
	"errors"

	"github.com/noah-isme/phdstats-api/internal/models"
)

// ErrDatasetNotFound is returned when a source holds no dataset, or not the
// requested version.
var ErrDatasetNotFound = errors.New("dataset not found")

// DatasetSource reads versioned scraped datasets.
type DatasetSource interface {
	Name() string
	LatestVersion(ctx context.Context) (int, error)
	Load(ctx context.Context, version int) ([]models.RawStudent, error)
}

// DatasetPublisher writes a dataset version and marks it as the latest.
type DatasetPublisher interface {
	Publish(ctx context.Context, version int, students []models.RawStudent) error
}
