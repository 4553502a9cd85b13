package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DisplayDateLayout renders calendar dates the way the dashboard shows them.
const DisplayDateLayout = "01/02/2006"

// Bound qualifies how much is known about an estimated date.
type Bound string

const (
	// BoundExact marks an estimate bracketed by two observations.
	BoundExact Bound = "exact"
	// BoundBefore marks an event known only to happen at or before the date.
	BoundBefore Bound = "before"
	// BoundAfter marks an event known only to happen at or after the date.
	BoundAfter Bound = "after"
)

// DateEstimate is an inferred date, possibly open on one side.
type DateEstimate struct {
	Date  time.Time
	Bound Bound
}

// ExactDate builds a concrete estimate.
func ExactDate(t time.Time) DateEstimate {
	return DateEstimate{Date: t, Bound: BoundExact}
}

// Before builds an estimate known only to be at or before t.
func Before(t time.Time) DateEstimate {
	return DateEstimate{Date: t, Bound: BoundBefore}
}

// After builds an estimate known only to be at or after t.
func After(t time.Time) DateEstimate {
	return DateEstimate{Date: t, Bound: BoundAfter}
}

// Concrete reports whether the estimate is bracketed on both sides.
func (e DateEstimate) Concrete() bool {
	return e.Bound == BoundExact && !e.Date.IsZero()
}

// Known reports whether the estimate carries an anchor date at all.
func (e DateEstimate) Known() bool {
	return !e.Date.IsZero()
}

func (e DateEstimate) String() string {
	if e.Date.IsZero() {
		return "N/A"
	}
	formatted := e.Date.Format(DisplayDateLayout)
	switch e.Bound {
	case BoundBefore:
		return "< " + formatted
	case BoundAfter:
		return "> " + formatted
	default:
		return formatted
	}
}

type dateEstimateJSON struct {
	Date    *time.Time `json:"date"`
	Bound   Bound      `json:"bound"`
	Display string     `json:"display"`
}

// MarshalJSON emits the date, its bound and the display string.
func (e DateEstimate) MarshalJSON() ([]byte, error) {
	payload := dateEstimateJSON{Bound: e.Bound, Display: e.String()}
	if !e.Date.IsZero() {
		d := e.Date
		payload.Date = &d
	}
	return json.Marshal(payload)
}

// UnmarshalJSON restores an estimate produced by MarshalJSON.
func (e *DateEstimate) UnmarshalJSON(data []byte) error {
	var payload dateEstimateJSON
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	e.Bound = payload.Bound
	e.Date = time.Time{}
	if payload.Date != nil {
		e.Date = *payload.Date
	}
	return nil
}

// DurationEstimate is a time-to-degree in years. A lower bound means the true
// value is larger than Years.
type DurationEstimate struct {
	Years      float64 `json:"years"`
	LowerBound bool    `json:"lower_bound"`
}

// Concrete reports whether the duration is exact.
func (d DurationEstimate) Concrete() bool {
	return !d.LowerBound
}

func (d DurationEstimate) String() string {
	if d.LowerBound {
		return fmt.Sprintf("> %.2f", d.Years)
	}
	return fmt.Sprintf("%.2f", d.Years)
}
