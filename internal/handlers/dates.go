package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// dateLayouts are the formats accepted for task due dates, most specific first.
var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// optionalDate records whether a date field was present in the payload, so a
// JSON null can clear the stored value while an absent field leaves it alone.
type optionalDate struct {
	Set   bool
	Value *time.Time
}

func (d *optionalDate) UnmarshalJSON(data []byte) error {
	d.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		d.Value = nil
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		d.Value = nil
		return nil
	}

	parsed, err := parseDate(raw)
	if err != nil {
		return err
	}
	d.Value = &parsed
	return nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}

// nullableString distinguishes an absent field from an explicit null or "".
// Both null and "" mark the field as set with an empty value.
type nullableString struct {
	Set   bool
	Value string
}

func (s *nullableString) UnmarshalJSON(data []byte) error {
	s.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		s.Value = ""
		return nil
	}
	return json.Unmarshal(data, &s.Value)
}
