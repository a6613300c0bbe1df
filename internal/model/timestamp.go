package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// timestampLayouts are the trade timestamp forms found in state files: RFC 3339, and
// zone-less ISO 8601 (optionally with fractional seconds), which is read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses a trade timestamp in any of the accepted layouts.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// UnmarshalJSON accepts zone-less "ts" values as well as RFC 3339.
func (t *Trade) UnmarshalJSON(b []byte) error {
	type plain Trade
	var aux struct {
		plain
		Timestamp *string `json:"ts"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*t = Trade(aux.plain)
	if aux.Timestamp != nil && *aux.Timestamp != "" {
		ts, err := ParseTimestamp(*aux.Timestamp)
		if err != nil {
			return err
		}
		t.Timestamp = ts
	}
	return nil
}
