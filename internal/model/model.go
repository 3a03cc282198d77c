package model

import (
	"fmt"
	"strings"
	"time"
)

// CurrentVersion is the schema version written into every exported document.
const CurrentVersion = 1

// DateLayout is the calendar-date format used as the day record key.
const DateLayout = "2006-01-02"

// Category is a visitor classification ("typologie").
type Category struct {
	ID     string `json:"id"`
	Name   string `json:"nom"`
	Color  string `json:"couleur"`
	Active bool   `json:"actif"`
	Order  int    `json:"ordre"`
	Family string `json:"famille,omitempty"`
}

// CategoryCount is the number of visitors of one category on one day.
type CategoryCount struct {
	CategoryID string `json:"typologie_id"`
	Count      int    `json:"count"`
}

// DayRecord is the attendance entry for one calendar date ("jour").
type DayRecord struct {
	Date          string          `json:"date"`
	TotalVisits   int             `json:"total_visites"`
	OverrideTotal bool            `json:"override_total"`
	Counts        []CategoryCount `json:"typologies"`
	Note          string          `json:"note"`
	Estimated     bool            `json:"estimee"`
	LastUpdated   time.Time       `json:"derniere_maj"`
}

// Dataset is the unit of export, import and reset.
type Dataset struct {
	Days       []DayRecord `json:"jours"`
	Categories []Category  `json:"typologies"`
	Version    int         `json:"version"`
}

// ParseDate parses a YYYY-MM-DD key into a UTC midnight time.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return t, nil
}

// FormatDate renders the calendar date of t as a YYYY-MM-DD key, ignoring its clock and zone.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateOf truncates t to its calendar date, expressed as UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SumCounts adds every count of the record regardless of category state.
func SumCounts(counts []CategoryCount) int {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	return total
}

// EffectiveTotal is the manual total when override is set, otherwise the sum
// of counts belonging to active categories.
func EffectiveTotal(day DayRecord, categories []Category) int {
	if day.OverrideTotal {
		return day.TotalVisits
	}

	active := make(map[string]bool, len(categories))
	for _, c := range categories {
		active[c.ID] = c.Active
	}

	total := 0
	for _, c := range day.Counts {
		if active[c.CategoryID] {
			total += c.Count
		}
	}
	return total
}

// CountFor returns the count stored for a category, zero when absent.
func (d DayRecord) CountFor(categoryID string) int {
	for _, c := range d.Counts {
		if c.CategoryID == categoryID {
			return c.Count
		}
	}
	return 0
}

// FindDay returns the record stored for date.
func (ds Dataset) FindDay(date string) (DayRecord, bool) {
	for _, d := range ds.Days {
		if d.Date == date {
			return d, true
		}
	}
	return DayRecord{}, false
}

// FindCategory returns the category with the given id.
func (ds Dataset) FindCategory(id string) (Category, bool) {
	for _, c := range ds.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// ActiveCategories returns the active categories in display order.
func ActiveCategories(categories []Category) []Category {
	active := make([]Category, 0, len(categories))
	for _, c := range SortCategories(categories) {
		if c.Active {
			active = append(active, c)
		}
	}
	return active
}
