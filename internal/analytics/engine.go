// Package analytics turns day records into KPIs, chart series and insights
// for a period window. Everything here is a pure function of its inputs.
package analytics

import (
	"math"
	"slices"
	"time"

	"github.com/frequentation/internal/locale"
	"github.com/frequentation/internal/model"
)

// TrendWindow is the number of points in the trailing moving average.
const TrendWindow = 7

// Query selects what to aggregate.
type Query struct {
	Period    PeriodKind
	Reference time.Time
	Today     time.Time
	// Selected restricts the categories; empty means every active category.
	Selected []string
	Trend    bool
	Language string
}

// DayTotal is a date with its filtered total.
type DayTotal struct {
	Date  string `json:"date"`
	Total int    `json:"total"`
}

// CategoryShare is one entry of the top categories ranking.
type CategoryShare struct {
	ID         string `json:"id"`
	Name       string `json:"nom"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// KPI gathers the headline figures of a window.
type KPI struct {
	TotalForPeriod      int             `json:"totalPeriode"`
	AveragePerDay       int             `json:"moyenneParJour"`
	MaxDay              *DayTotal       `json:"jourMax"`
	MinDay              *DayTotal       `json:"jourMin"`
	TopCategories       []CategoryShare `json:"top3Typologies"`
	EvolutionVsPrevious *int            `json:"evolutionPrecedente"`
	DaysWithData        int             `json:"joursAvecDonnees"`
	DaysWithoutData     int             `json:"joursSansDonnees"`
}

// Point is one elapsed day of the chart series.
type Point struct {
	Date          string         `json:"date"`
	Label         string         `json:"label"`
	Total         int            `json:"total"`
	ByCategory    map[string]int `json:"typologies"`
	MovingAverage *int           `json:"moyenne7j,omitempty"`
}

// Report is the full output of Compute.
type Report struct {
	Period    PeriodKind       `json:"period"`
	Reference string           `json:"reference"`
	Label     string           `json:"label"`
	Start     string           `json:"start"`
	End       string           `json:"end"`
	PrevStart string           `json:"prevStart"`
	PrevEnd   string           `json:"prevEnd"`
	KPI       KPI              `json:"kpi"`
	Series    []Point          `json:"series"`
	Insights  []Insight        `json:"insights"`
	Columns   []model.Category `json:"columns"`
	Anomalies []string         `json:"anomalies"`
}

// Compute aggregates days over the window described by q.
// Days need not be sorted. A window lying entirely in the future yields a
// zeroed report.
func Compute(days []model.DayRecord, categories []model.Category, q Query) (Report, error) {
	bounds, err := PeriodBounds(q.Period, q.Reference, q.Today)
	if err != nil {
		return Report{}, err
	}

	sorted := slices.Clone(days)
	model.SortDays(sorted)

	included := includedSet(categories, q.Selected)
	names := categoryNames(categories, q.Language)

	report := Report{
		Period:    q.Period,
		Reference: model.FormatDate(model.DateOf(q.Reference)),
		Label:     bounds.Label(q.Language),
		Start:     model.FormatDate(bounds.Start),
		End:       model.FormatDate(bounds.End),
		PrevStart: model.FormatDate(bounds.PrevStart),
		PrevEnd:   model.FormatDate(bounds.PrevEnd),
		Columns:   columns(categories, included),
	}

	current := inRange(sorted, bounds.Start, bounds.End, bounds.Elapsed)
	previous := inRange(sorted, bounds.PrevStart, bounds.PrevEnd, bounds.Elapsed)

	report.KPI = computeKPI(current, previous, included, names, len(bounds.ElapsedDays()))
	report.Series = buildSeries(sorted, bounds, q.Period, included, names, q.Language)
	if q.Trend {
		applyMovingAverage(report.Series)
	}

	anomalies := detectAnomalies(report.Series)
	report.Anomalies = make([]string, 0, len(anomalies))
	for _, p := range anomalies {
		report.Anomalies = append(report.Anomalies, p.Date)
	}
	report.Insights = buildInsights(report.KPI, len(anomalies), q.Language)

	return report, nil
}

func computeKPI(current, previous []model.DayRecord, included map[string]bool, names func(string) string, elapsed int) KPI {
	kpi := KPI{TopCategories: []CategoryShare{}}

	totals := make(map[string]int)
	var firstSeen []string

	for _, day := range current {
		dayTotal := 0
		for _, c := range day.Counts {
			if !included[c.CategoryID] {
				continue
			}
			dayTotal += c.Count
			if _, ok := totals[c.CategoryID]; !ok {
				firstSeen = append(firstSeen, c.CategoryID)
			}
			totals[c.CategoryID] += c.Count
		}
		kpi.TotalForPeriod += dayTotal

		if kpi.MaxDay == nil || dayTotal > kpi.MaxDay.Total {
			kpi.MaxDay = &DayTotal{Date: day.Date, Total: dayTotal}
		}
		if kpi.MinDay == nil || dayTotal < kpi.MinDay.Total {
			kpi.MinDay = &DayTotal{Date: day.Date, Total: dayTotal}
		}
	}

	kpi.DaysWithData = len(current)
	kpi.DaysWithoutData = max(elapsed-kpi.DaysWithData, 0)
	if kpi.DaysWithData > 0 {
		kpi.AveragePerDay = roundHalfUp(float64(kpi.TotalForPeriod) / float64(kpi.DaysWithData))
	}

	ranked := make([]string, 0, len(firstSeen))
	for _, id := range firstSeen {
		if totals[id] > 0 {
			ranked = append(ranked, id)
		}
	}
	slices.SortStableFunc(ranked, func(a, b string) int {
		return totals[b] - totals[a]
	})
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}
	for _, id := range ranked {
		kpi.TopCategories = append(kpi.TopCategories, CategoryShare{
			ID:         id,
			Name:       names(id),
			Count:      totals[id],
			Percentage: percentage(totals[id], kpi.TotalForPeriod),
		})
	}

	prevTotal := 0
	for _, day := range previous {
		for _, c := range day.Counts {
			if included[c.CategoryID] {
				prevTotal += c.Count
			}
		}
	}
	if prevTotal > 0 {
		evolution := roundHalfUp(float64(kpi.TotalForPeriod-prevTotal) / float64(prevTotal) * 100)
		kpi.EvolutionVsPrevious = &evolution
	}

	return kpi
}

func buildSeries(days []model.DayRecord, bounds Bounds, kind PeriodKind, included map[string]bool, names func(string) string, language string) []Point {
	byDate := make(map[string]model.DayRecord, len(days))
	for _, d := range days {
		byDate[d.Date] = d
	}

	elapsed := bounds.ElapsedDays()
	series := make([]Point, 0, len(elapsed))
	for _, date := range elapsed {
		key := model.FormatDate(date)
		point := Point{
			Date:       key,
			Label:      pointLabel(kind, date, language),
			ByCategory: map[string]int{},
		}
		if day, ok := byDate[key]; ok {
			for _, c := range day.Counts {
				if !included[c.CategoryID] {
					continue
				}
				point.ByCategory[names(c.CategoryID)] += c.Count
				point.Total += c.Count
			}
		}
		series = append(series, point)
	}
	return series
}

// applyMovingAverage fills a trailing average over up to TrendWindow points.
// Series shorter than the window are left untouched.
func applyMovingAverage(series []Point) {
	if len(series) < TrendWindow {
		return
	}
	for i := range series {
		from := max(0, i-(TrendWindow-1))
		sum := 0
		for _, p := range series[from : i+1] {
			sum += p.Total
		}
		avg := roundHalfUp(float64(sum) / float64(i+1-from))
		series[i].MovingAverage = &avg
	}
}

func pointLabel(kind PeriodKind, date time.Time, language string) string {
	if kind == PeriodYear {
		return locale.ShortMonthName(language, date.Month())
	}
	return date.Format("02/01")
}

func inRange(days []model.DayRecord, start, end time.Time, elapsed bool) []model.DayRecord {
	if !elapsed {
		return nil
	}
	from, to := model.FormatDate(start), model.FormatDate(end)
	var out []model.DayRecord
	for _, d := range days {
		if d.Date >= from && d.Date <= to {
			out = append(out, d)
		}
	}
	return out
}

func includedSet(categories []model.Category, selected []string) map[string]bool {
	set := make(map[string]bool)
	for _, id := range selected {
		if id != "" {
			set[id] = true
		}
	}
	if len(set) > 0 {
		return set
	}
	for _, c := range categories {
		if c.Active {
			set[c.ID] = true
		}
	}
	return set
}

func columns(categories []model.Category, included map[string]bool) []model.Category {
	cols := []model.Category{}
	for _, c := range model.SortCategories(categories) {
		if included[c.ID] {
			cols = append(cols, c)
		}
	}
	return cols
}

func categoryNames(categories []model.Category, language string) func(string) string {
	byID := make(map[string]string, len(categories))
	for _, c := range categories {
		byID[c.ID] = c.Name
	}
	unknown := locale.Pick(language, "Unknown", "Inconnu")
	return func(id string) string {
		if name, ok := byID[id]; ok {
			return name
		}
		return unknown
	}
}

func percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return roundHalfUp(float64(part) / float64(total) * 100)
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
