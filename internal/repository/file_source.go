package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strconv"

	"github.com/noah-isme/phdstats-api/internal/models"
	"github.com/noah-isme/phdstats-api/pkg/storage"
)

const versionsFile = "versions.json"

var dataFilePattern = regexp.MustCompile(`^student_data_v(\d+)\.json$`)

type versionManifest struct {
	LatestVersion json.Number `json:"latest_version"`
}

// FileSource reads student_data_v<N>.json files published next to a
// versions.json manifest.
type FileSource struct {
	files *storage.LocalStorage
}

// NewFileSource constructs a FileSource rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{files: storage.NewLocalStorage(dir)}
}

// Name identifies the source in logs and status payloads.
func (s *FileSource) Name() string { return "file" }

// LatestVersion reads the manifest, falling back to the highest numbered data
// file when the manifest is absent.
func (s *FileSource) LatestVersion(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.files.Exists(versionsFile) {
		return s.manifestVersion()
	}

	names, err := s.files.Glob("student_data_v*.json")
	if err != nil {
		return 0, err
	}
	latest := 0
	for _, name := range names {
		match := dataFilePattern.FindStringSubmatch(name)
		if match == nil {
			continue
		}
		if v, err := strconv.Atoi(match[1]); err == nil && v > latest {
			latest = v
		}
	}
	if latest == 0 {
		return 0, fmt.Errorf("no data files in %s: %w", s.files.Path(""), ErrDatasetNotFound)
	}
	return latest, nil
}

func (s *FileSource) manifestVersion() (int, error) {
	file, err := s.files.Open(versionsFile)
	if err != nil {
		return 0, err
	}
	defer file.Close() //nolint:errcheck

	var manifest versionManifest
	if err := json.NewDecoder(file).Decode(&manifest); err != nil {
		return 0, fmt.Errorf("decode %s: %w", versionsFile, err)
	}
	version, err := manifest.LatestVersion.Int64()
	if err != nil || version <= 0 {
		return 0, fmt.Errorf("invalid latest_version %q in %s", manifest.LatestVersion, versionsFile)
	}
	return int(version), nil
}

// Load decodes one dataset version.
func (s *FileSource) Load(ctx context.Context, version int) ([]models.RawStudent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := dataFileName(version)
	file, err := s.files.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", name, ErrDatasetNotFound)
		}
		return nil, err
	}
	defer file.Close() //nolint:errcheck

	var students []models.RawStudent
	if err := json.NewDecoder(file).Decode(&students); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return students, nil
}

// Publish writes the data file first and the manifest second, so readers
// following the manifest never see a version without data.
func (s *FileSource) Publish(ctx context.Context, version int, students []models.RawStudent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(students)
	if err != nil {
		return fmt.Errorf("encode dataset v%d: %w", version, err)
	}
	if _, err := s.files.Save(dataFileName(version), payload); err != nil {
		return err
	}
	manifest, err := json.Marshal(map[string]int{"latest_version": version})
	if err != nil {
		return fmt.Errorf("encode %s: %w", versionsFile, err)
	}
	_, err = s.files.Save(versionsFile, manifest)
	return err
}

func dataFileName(version int) string {
	return fmt.Sprintf("student_data_v%d.json", version)
}
