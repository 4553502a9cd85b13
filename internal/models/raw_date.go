package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// RawDate keeps a dataset date exactly as scraped. The scraper has emitted ISO
// strings, US-style strings and epoch milliseconds over time, so decoding is
// deferred to Time.
type RawDate string

var unknownDateTokens = map[string]struct{}{
	"":        {},
	"n/a":     {},
	"na":      {},
	"nat":     {},
	"nan":     {},
	"null":    {},
	"none":    {},
	"unknown": {},
}

// UnmarshalJSON accepts JSON strings, numbers and null.
func (d *RawDate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = RawDate(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*d = RawDate(n.String())
	return nil
}

// Known reports whether the raw value is not one of the "unknown" sentinels.
func (d RawDate) Known() bool {
	_, unknown := unknownDateTokens[strings.ToLower(strings.TrimSpace(string(d)))]
	return !unknown
}

// Time parses the raw value. The boolean is false for sentinels and
// unparseable values; callers treat both the same way.
func (d RawDate) Time() (time.Time, bool) {
	if !d.Known() {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(strings.TrimSpace(string(d)), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
