package models

import "time"

// RawStudent is one entry of the scraped dataset as published by the scraper.
type RawStudent struct {
	Name         string   `json:"Name"`
	University   string   `json:"University"`
	Department   string   `json:"Department,omitempty"`
	URL          string   `json:"URL"`
	PlacementURL string   `json:"PlacementURL"`
	StartDate    RawDate  `json:"Start_Date"`
	EndDate      RawDate  `json:"End_Date"`
	Active       bool     `json:"Active"`
	Placement    *bool    `json:"Placement"`
	Snapshots    []string `json:"Snapshots"`
}

// SnapshotRef is one archived page a student was observed on.
type SnapshotRef struct {
	URL           string    `json:"url"`
	Date          time.Time `json:"date"`
	FormattedDate string    `json:"formatted_date"`
}

// StudentRecord is one student's history at one program together with the
// derived enrollment, completion and duration estimates.
type StudentRecord struct {
	Name         string        `json:"name"`
	University   string        `json:"university"`
	Department   string        `json:"department,omitempty"`
	ProgramURL   string        `json:"program_url"`
	PlacementURL string        `json:"placement_url"`
	StartDate    time.Time     `json:"start_date"`
	EndDate      time.Time     `json:"end_date"`
	Active       bool          `json:"active"`
	Placement    *bool         `json:"placement"`
	Snapshots    []SnapshotRef `json:"snapshots"`

	// SnapshotDates holds every observation day of the student's program, sorted.
	SnapshotDates []time.Time `json:"-"`

	EnrollmentDate DateEstimate     `json:"enrollment_date"`
	CompletionDate DateEstimate     `json:"completion_date"`
	DurationYears  DurationEstimate `json:"duration_years"`
}

// HasStartDate reports whether the raw start date was parseable.
func (r StudentRecord) HasStartDate() bool {
	return !r.StartDate.IsZero()
}

// HasEndDate reports whether the raw end date was parseable.
func (r StudentRecord) HasEndDate() bool {
	return !r.EndDate.IsZero()
}

// Placed reports whether the record carries a known, positive placement flag.
func (r StudentRecord) Placed() bool {
	return r.Placement != nil && *r.Placement
}

// Dataset is an immutable, fully derived collection of student records.
type Dataset struct {
	Version  int             `json:"version"`
	Source   string          `json:"source"`
	LoadedAt time.Time       `json:"loaded_at"`
	Records  []StudentRecord `json:"-"`
}

// DatasetStatus describes the dataset currently served.
type DatasetStatus struct {
	Loaded      bool       `json:"loaded"`
	Version     int        `json:"version"`
	Source      string     `json:"source"`
	LoadedAt    *time.Time `json:"loaded_at,omitempty"`
	RecordCount int        `json:"record_count"`
	Programs    int        `json:"programs"`
	LastError   string     `json:"last_error,omitempty"`
}
