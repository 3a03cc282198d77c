package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrMalformedDocument is returned when a dataset document fails the structural check.
var ErrMalformedDocument = errors.New("malformed dataset document")

// EncodeDataset serialises a dataset into the indented JSON document used for export.
func EncodeDataset(ds Dataset) ([]byte, error) {
	if ds.Days == nil {
		ds.Days = []DayRecord{}
	}
	if ds.Categories == nil {
		ds.Categories = []Category{}
	}
	for i := range ds.Days {
		if ds.Days[i].Counts == nil {
			ds.Days[i].Counts = []CategoryCount{}
		}
	}
	if ds.Version == 0 {
		ds.Version = CurrentVersion
	}

	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode dataset: %w", err)
	}
	return data, nil
}

// DecodeDataset parses a JSON document and runs ValidateDataset on it.
// Nothing is returned for a document that fails either step.
func DecodeDataset(raw []byte) (Dataset, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Dataset{}, fmt.Errorf("%w: empty document", ErrMalformedDocument)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return Dataset{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	for _, key := range []string{"jours", "typologies", "version"} {
		value, ok := fields[key]
		if !ok || isNull(value) {
			return Dataset{}, fmt.Errorf("%w: missing %q", ErrMalformedDocument, key)
		}
	}

	var ds Dataset
	if err := json.Unmarshal(trimmed, &ds); err != nil {
		return Dataset{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if err := ValidateDataset(ds); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

// ValidateDataset checks version, date keys, identifiers and count references.
func ValidateDataset(ds Dataset) error {
	if ds.Version <= 0 {
		return fmt.Errorf("%w: version must be positive", ErrMalformedDocument)
	}

	ids := make(map[string]struct{}, len(ds.Categories))
	for _, c := range ds.Categories {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return fmt.Errorf("%w: category without id", ErrMalformedDocument)
		}
		if _, dup := ids[id]; dup {
			return fmt.Errorf("%w: duplicate category id %q", ErrMalformedDocument, id)
		}
		ids[id] = struct{}{}
	}

	dates := make(map[string]struct{}, len(ds.Days))
	for _, d := range ds.Days {
		if _, err := ParseDate(d.Date); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		if _, dup := dates[d.Date]; dup {
			return fmt.Errorf("%w: duplicate day %s", ErrMalformedDocument, d.Date)
		}
		dates[d.Date] = struct{}{}

		seen := make(map[string]struct{}, len(d.Counts))
		for _, c := range d.Counts {
			if _, ok := ids[c.CategoryID]; !ok {
				return fmt.Errorf("%w: day %s references unknown category %q", ErrMalformedDocument, d.Date, c.CategoryID)
			}
			if _, dup := seen[c.CategoryID]; dup {
				return fmt.Errorf("%w: day %s counts category %q twice", ErrMalformedDocument, d.Date, c.CategoryID)
			}
			if c.Count < 0 {
				return fmt.Errorf("%w: day %s has a negative count", ErrMalformedDocument, d.Date)
			}
			seen[c.CategoryID] = struct{}{}
		}
	}
	return nil
}

// SortDays orders day records ascending by date, in place.
func SortDays(days []DayRecord) {
	slices.SortFunc(days, func(a, b DayRecord) int {
		return strings.Compare(a.Date, b.Date)
	})
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
