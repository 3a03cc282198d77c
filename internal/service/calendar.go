package service

import (
	"strings"
	"time"

	"github.com/frequentation/internal/locale"
	"github.com/frequentation/internal/model"
)

// CalendarFilter 控制日历中哪些日期被突出显示
type CalendarFilter string

const (
	CalendarFilterAll         CalendarFilter = "all"
	CalendarFilterWithData    CalendarFilter = "with-data"
	CalendarFilterWithoutData CalendarFilter = "without-data"
)

// ParseCalendarFilter 未知值回退为 all
func ParseCalendarFilter(raw string) CalendarFilter {
	switch CalendarFilter(strings.ToLower(strings.TrimSpace(raw))) {
	case CalendarFilterWithData:
		return CalendarFilterWithData
	case CalendarFilterWithoutData:
		return CalendarFilterWithoutData
	default:
		return CalendarFilterAll
	}
}

// CalendarCell 日历中的单个日期，NoteHTML 由请求层渲染填充
type CalendarCell struct {
	Date      string `json:"date"`
	Day       int    `json:"day"`
	InMonth   bool   `json:"in_month"`
	Future    bool   `json:"future"`
	Today     bool   `json:"today"`
	HasData   bool   `json:"has_data"`
	Visible   bool   `json:"visible"`
	Total     int    `json:"total"`
	Estimated bool   `json:"estimee"`
	Note      string `json:"note,omitempty"`
	NoteHTML  string `json:"note_html,omitempty"`
}

// MonthGrid 以周一开始的整周覆盖一个自然月
type MonthGrid struct {
	Month        string           `json:"month"`
	Label        string           `json:"label"`
	Filter       CalendarFilter   `json:"filter"`
	Weeks        [][]CalendarCell `json:"weeks"`
	DaysWithData int              `json:"days_with_data"`
	MonthTotal   int              `json:"month_total"`
}

// ParseMonth 解析 YYYY-MM
func ParseMonth(raw string) (time.Time, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// CalendarMonth 构建月历网格，日期合计使用 model.EffectiveTotal
func CalendarMonth(data model.Dataset, month time.Time, filter CalendarFilter, today time.Time, language string) MonthGrid {
	today = model.DateOf(today)
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -((int(first.Weekday()) + 6) % 7))
	end := last.AddDate(0, 0, (7-int(last.Weekday()))%7)

	byDate := make(map[string]model.DayRecord, len(data.Days))
	for _, d := range data.Days {
		byDate[d.Date] = d
	}

	grid := MonthGrid{
		Month:  first.Format("2006-01"),
		Label:  locale.MonthYear(language, first),
		Filter: filter,
	}

	var week []CalendarCell
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := model.FormatDate(d)
		record, hasData := byDate[key]

		cell := CalendarCell{
			Date:    key,
			Day:     d.Day(),
			InMonth: d.Month() == first.Month(),
			Future:  d.After(today),
			Today:   d.Equal(today),
			HasData: hasData,
		}
		switch filter {
		case CalendarFilterWithData:
			cell.Visible = hasData
		case CalendarFilterWithoutData:
			cell.Visible = !hasData
		default:
			cell.Visible = true
		}
		if hasData {
			cell.Total = model.EffectiveTotal(record, data.Categories)
			cell.Estimated = record.Estimated
			cell.Note = record.Note
			if cell.InMonth {
				grid.DaysWithData++
				grid.MonthTotal += cell.Total
			}
		}

		week = append(week, cell)
		if len(week) == 7 {
			grid.Weeks = append(grid.Weeks, week)
			week = nil
		}
	}

	return grid
}
