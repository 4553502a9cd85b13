package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/phdstats-api/internal/models"
)

// StudentRecordsSchema creates the table read by PostgresSource.
const StudentRecordsSchema = `CREATE TABLE IF NOT EXISTS student_records (
    id BIGSERIAL PRIMARY KEY,
    dataset_version INTEGER NOT NULL,
    name TEXT,
    university TEXT NOT NULL,
    department TEXT,
    url TEXT,
    placement_url TEXT,
    start_date TEXT,
    end_date TEXT,
    active BOOLEAN NOT NULL DEFAULT FALSE,
    placement BOOLEAN,
    snapshots TEXT[] NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_student_records_version ON student_records (dataset_version);`

const selectStudentRecords = `SELECT name, university, department, url, placement_url, start_date, end_date, active, placement, snapshots
FROM student_records WHERE dataset_version = $1 ORDER BY id`

const insertStudentRecord = `INSERT INTO student_records (dataset_version, name, university, department, url, placement_url, start_date, end_date, active, placement, snapshots)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

type studentRecordRow struct {
	Name         sql.NullString `db:"name"`
	University   string         `db:"university"`
	Department   sql.NullString `db:"department"`
	URL          sql.NullString `db:"url"`
	PlacementURL sql.NullString `db:"placement_url"`
	StartDate    sql.NullString `db:"start_date"`
	EndDate      sql.NullString `db:"end_date"`
	Active       bool           `db:"active"`
	Placement    sql.NullBool   `db:"placement"`
	Snapshots    pq.StringArray `db:"snapshots"`
}

func (r studentRecordRow) toRaw() models.RawStudent {
	raw := models.RawStudent{
		Name:         r.Name.String,
		University:   r.University,
		Department:   r.Department.String,
		URL:          r.URL.String,
		PlacementURL: r.PlacementURL.String,
		StartDate:    models.RawDate(r.StartDate.String),
		EndDate:      models.RawDate(r.EndDate.String),
		Active:       r.Active,
		Snapshots:    []string(r.Snapshots),
	}
	if r.Placement.Valid {
		placed := r.Placement.Bool
		raw.Placement = &placed
	}
	return raw
}

// PostgresSource reads datasets from the student_records table. Every row is
// tagged with the dataset version it belongs to.
type PostgresSource struct {
	db *sqlx.DB
}

// NewPostgresSource constructs a PostgresSource.
func NewPostgresSource(db *sqlx.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

// Name identifies the source in logs and status payloads.
func (s *PostgresSource) Name() string { return "postgres" }

// EnsureSchema creates the student_records table when missing.
func (s *PostgresSource) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, StudentRecordsSchema); err != nil {
		return fmt.Errorf("ensure student_records schema: %w", err)
	}
	return nil
}

// LatestVersion returns the highest dataset_version present.
func (s *PostgresSource) LatestVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.GetContext(ctx, &version, "SELECT COALESCE(MAX(dataset_version), 0) FROM student_records"); err != nil {
		return 0, fmt.Errorf("latest dataset version: %w", err)
	}
	if version == 0 {
		return 0, fmt.Errorf("student_records is empty: %w", ErrDatasetNotFound)
	}
	return version, nil
}

// Load returns the rows of one dataset version in insertion order.
func (s *PostgresSource) Load(ctx context.Context, version int) ([]models.RawStudent, error) {
	var rows []studentRecordRow
	if err := s.db.SelectContext(ctx, &rows, selectStudentRecords, version); err != nil {
		return nil, fmt.Errorf("load dataset v%d: %w", version, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset v%d: %w", version, ErrDatasetNotFound)
	}
	students := make([]models.RawStudent, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.toRaw())
	}
	return students, nil
}

// Publish replaces the rows of version inside a single transaction.
func (s *PostgresSource) Publish(ctx context.Context, version int, students []models.RawStudent) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin publish v%d: %w", version, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM student_records WHERE dataset_version = $1", version); err != nil {
		return fmt.Errorf("clear dataset v%d: %w", version, err)
	}
	for _, student := range students {
		if _, err = tx.ExecContext(ctx, insertStudentRecord,
			version,
			nullString(student.Name),
			student.University,
			nullString(student.Department),
			nullString(student.URL),
			nullString(student.PlacementURL),
			nullString(string(student.StartDate)),
			nullString(string(student.EndDate)),
			student.Active,
			nullBool(student.Placement),
			pq.StringArray(nonNil(student.Snapshots)),
		); err != nil {
			return fmt.Errorf("insert %s at %s: %w", student.Name, student.University, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit dataset v%d: %w", version, err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
