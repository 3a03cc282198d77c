package service

import (
	"strings"

	"github.com/frequentation/internal/db"
	"github.com/frequentation/internal/model"
)

func categoryFromRow(row db.Category) model.Category {
	category := model.Category{
		ID:     row.ID,
		Name:   row.Name,
		Color:  row.Color,
		Active: row.Active,
		Order:  row.Order,
	}
	if row.Family != nil {
		category.Family = *row.Family
	}
	return category
}

func categoryToRow(category model.Category) db.Category {
	row := db.Category{
		ID:     category.ID,
		Name:   strings.TrimSpace(category.Name),
		Color:  strings.TrimSpace(category.Color),
		Active: category.Active,
		Order:  category.Order,
	}
	row.Family = familyPointer(category.Family)
	return row
}

func familyPointer(family string) *string {
	trimmed := strings.TrimSpace(family)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func dayFromRows(row db.Day, counts []db.DayCount) model.DayRecord {
	day := model.DayRecord{
		Date:          row.Date,
		TotalVisits:   row.TotalVisits,
		OverrideTotal: row.OverrideTotal,
		Note:          row.Note,
		Estimated:     row.Estimated,
		LastUpdated:   row.LastUpdated.UTC(),
		Counts:        make([]model.CategoryCount, 0, len(counts)),
	}
	for _, c := range counts {
		day.Counts = append(day.Counts, model.CategoryCount{CategoryID: c.CategoryID, Count: c.Count})
	}
	return day
}

func dayToRows(day model.DayRecord) (db.Day, []db.DayCount) {
	row := db.Day{
		Date:          day.Date,
		TotalVisits:   day.TotalVisits,
		OverrideTotal: day.OverrideTotal,
		Note:          day.Note,
		Estimated:     day.Estimated,
		LastUpdated:   day.LastUpdated,
	}
	counts := make([]db.DayCount, 0, len(day.Counts))
	for _, c := range day.Counts {
		counts = append(counts, db.DayCount{Date: day.Date, CategoryID: c.CategoryID, Count: c.Count})
	}
	return row, counts
}
