package analytics

import (
	"testing"

	"github.com/frequentation/internal/model"
)

func testCategories() []model.Category {
	return []model.Category{
		{ID: "b", Name: "B", Active: true, Order: 2},
		{ID: "a", Name: "A", Active: true, Order: 1},
		{ID: "c", Name: "C", Active: false, Order: 3},
	}
}

func testDays() []model.DayRecord {
	return []model.DayRecord{
		{Date: "2024-03-07", Counts: []model.CategoryCount{{CategoryID: "b", Count: 5}}},
		{Date: "2024-03-04", Counts: []model.CategoryCount{{CategoryID: "a", Count: 3}, {CategoryID: "b", Count: 2}}},
		{Date: "2024-03-05", Counts: []model.CategoryCount{{CategoryID: "a", Count: 1}, {CategoryID: "c", Count: 10}}},
		{Date: "2024-02-28", Counts: []model.CategoryCount{{CategoryID: "a", Count: 4}}},
		{Date: "2024-03-15", Counts: []model.CategoryCount{{CategoryID: "a", Count: 100}}},
	}
}

func weekQuery(t *testing.T) Query {
	return Query{
		Period:    PeriodWeek,
		Reference: date(t, "2024-03-06"),
		Today:     date(t, "2024-03-20"),
		Language:  "fr",
	}
}

func TestComputeKPI(t *testing.T) {
	report, err := Compute(testDays(), testCategories(), weekQuery(t))
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	kpi := report.KPI
	if kpi.TotalForPeriod != 11 {
		t.Fatalf("expected total 11 (inactive category excluded), got %d", kpi.TotalForPeriod)
	}
	if kpi.AveragePerDay != 4 {
		t.Fatalf("expected rounded average 4, got %d", kpi.AveragePerDay)
	}
	if kpi.DaysWithData != 3 || kpi.DaysWithoutData != 4 {
		t.Fatalf("unexpected day coverage: with=%d without=%d", kpi.DaysWithData, kpi.DaysWithoutData)
	}
	if kpi.MaxDay == nil || kpi.MaxDay.Date != "2024-03-04" || kpi.MaxDay.Total != 5 {
		t.Fatalf("expected earliest max day 2024-03-04/5, got %+v", kpi.MaxDay)
	}
	if kpi.MinDay == nil || kpi.MinDay.Date != "2024-03-05" || kpi.MinDay.Total != 1 {
		t.Fatalf("unexpected min day %+v", kpi.MinDay)
	}
	if kpi.EvolutionVsPrevious == nil || *kpi.EvolutionVsPrevious != 175 {
		t.Fatalf("expected evolution 175%%, got %v", kpi.EvolutionVsPrevious)
	}

	if len(kpi.TopCategories) != 2 {
		t.Fatalf("expected 2 ranked categories, got %+v", kpi.TopCategories)
	}
	top := kpi.TopCategories[0]
	if top.ID != "b" || top.Count != 7 || top.Percentage != 64 {
		t.Fatalf("unexpected top category %+v", top)
	}
	if second := kpi.TopCategories[1]; second.ID != "a" || second.Percentage != 36 {
		t.Fatalf("unexpected second category %+v", second)
	}
}

func TestComputeSeries(t *testing.T) {
	report, err := Compute(testDays(), testCategories(), weekQuery(t))
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	if len(report.Series) != 7 {
		t.Fatalf("expected one point per day of the week, got %d", len(report.Series))
	}
	first := report.Series[0]
	if first.Date != "2024-03-04" || first.Label != "04/03" || first.Total != 5 {
		t.Fatalf("unexpected first point %+v", first)
	}
	if first.ByCategory["A"] != 3 || first.ByCategory["B"] != 2 {
		t.Fatalf("unexpected breakdown %+v", first.ByCategory)
	}
	if _, ok := report.Series[1].ByCategory["C"]; ok {
		t.Fatal("inactive category must not appear in the default breakdown")
	}
	if report.Series[2].Total != 0 {
		t.Fatalf("day without record should be zero, got %+v", report.Series[2])
	}
	if report.Series[0].MovingAverage != nil {
		t.Fatal("moving average must be absent when trend is off")
	}

	if len(report.Columns) != 2 || report.Columns[0].ID != "a" || report.Columns[1].ID != "b" {
		t.Fatalf("expected columns ordered by display order, got %+v", report.Columns)
	}
}

func TestComputeSelectedCategories(t *testing.T) {
	q := weekQuery(t)
	q.Selected = []string{"c"}

	report, err := Compute(testDays(), testCategories(), q)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	if report.KPI.TotalForPeriod != 10 {
		t.Fatalf("expected selection total 10, got %d", report.KPI.TotalForPeriod)
	}
	if report.KPI.EvolutionVsPrevious != nil {
		t.Fatalf("expected nil evolution for zero previous total, got %d", *report.KPI.EvolutionVsPrevious)
	}
	if top := report.KPI.TopCategories[0]; top.Name != "C" || top.Percentage != 100 {
		t.Fatalf("unexpected top %+v", top)
	}
}

func TestComputeInsights(t *testing.T) {
	report, err := Compute(testDays(), testCategories(), weekQuery(t))
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	want := []Insight{
		{Type: InsightInfo, Message: `La typologie la plus fréquente est "B" avec 7 entrées (64%).`},
		{Type: InsightInfo, Message: "Le pic de fréquentation est le 04 mars avec 5 visiteurs."},
		{Type: InsightWarning, Message: "4 jour(s) sans données sur cette période."},
	}
	if len(report.Insights) != len(want) {
		t.Fatalf("expected %d insights, got %+v", len(want), report.Insights)
	}
	for i := range want {
		if report.Insights[i] != want[i] {
			t.Fatalf("insight %d = %+v, want %+v", i, report.Insights[i], want[i])
		}
	}
}

func TestComputeEmptyDataset(t *testing.T) {
	report, err := Compute(nil, nil, weekQuery(t))
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	kpi := report.KPI
	if kpi.TotalForPeriod != 0 || kpi.AveragePerDay != 0 || kpi.MaxDay != nil || kpi.MinDay != nil {
		t.Fatalf("expected zeroed KPIs, got %+v", kpi)
	}
	if kpi.EvolutionVsPrevious != nil {
		t.Fatal("expected nil evolution")
	}
	if kpi.DaysWithoutData != 7 {
		t.Fatalf("expected 7 days without data, got %d", kpi.DaysWithoutData)
	}
	if len(report.Insights) != 1 || report.Insights[0].Type != InsightWarning {
		t.Fatalf("expected a single data-gap warning, got %+v", report.Insights)
	}
}

func TestComputeFutureWindowIsEmpty(t *testing.T) {
	q := Query{Period: PeriodMonth, Reference: date(t, "2024-04-10"), Today: date(t, "2024-03-20")}

	report, err := Compute(testDays(), testCategories(), q)
	if err != nil {
		t.Fatalf("future window must not fail: %v", err)
	}
	if len(report.Series) != 0 || report.KPI.TotalForPeriod != 0 || report.KPI.DaysWithoutData != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
	if report.KPI.EvolutionVsPrevious != nil {
		t.Fatal("future window has no evolution")
	}
	if len(report.Insights) != 0 {
		t.Fatalf("expected no insights, got %+v", report.Insights)
	}
}

func TestComputeDetectsAnomaly(t *testing.T) {
	totals := []int{5, 5, 5, 5, 5, 5, 50}
	var days []model.DayRecord
	start := date(t, "2024-03-04")
	for i, total := range totals {
		days = append(days, model.DayRecord{
			Date:   model.FormatDate(start.AddDate(0, 0, i)),
			Counts: []model.CategoryCount{{CategoryID: "a", Count: total}},
		})
	}

	report, err := Compute(days, testCategories(), weekQuery(t))
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	if len(report.Anomalies) != 1 || report.Anomalies[0] != "2024-03-10" {
		t.Fatalf("expected the last day flagged, got %v", report.Anomalies)
	}
	last := report.Insights[len(report.Insights)-1]
	if last.Type != InsightAnomaly || last.Message != "1 jour(s) avec une fréquentation anormalement élevée détecté(s)." {
		t.Fatalf("unexpected anomaly insight %+v", last)
	}
}

func TestDetectAnomaliesNeedsEnoughPoints(t *testing.T) {
	short := []Point{{Total: 1}, {Total: 1}, {Total: 1}, {Total: 1}, {Total: 90}}
	if got := detectAnomalies(short); got != nil {
		t.Fatalf("fewer than 6 points must be skipped, got %+v", got)
	}

	sparse := []Point{{Total: 0}, {Total: 0}, {Total: 0}, {Total: 0}, {Total: 1}, {Total: 90}}
	if got := detectAnomalies(sparse); got != nil {
		t.Fatalf("fewer than 3 non-zero points must be skipped, got %+v", got)
	}
}

func TestMovingAverage(t *testing.T) {
	q := weekQuery(t)
	q.Trend = true

	report, err := Compute(testDays(), testCategories(), q)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}

	want := []int{5, 3, 2, 3, 2, 2, 2}
	for i, p := range report.Series {
		if p.MovingAverage == nil || *p.MovingAverage != want[i] {
			t.Fatalf("point %d moving average = %v, want %d", i, p.MovingAverage, want[i])
		}
	}

	q.Period = PeriodDay
	report, err = Compute(testDays(), testCategories(), q)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	if len(report.Series) != 1 || report.Series[0].MovingAverage != nil {
		t.Fatalf("short series must be returned unchanged, got %+v", report.Series)
	}
}

func TestYearPointLabels(t *testing.T) {
	q := Query{Period: PeriodYear, Reference: date(t, "2024-01-15"), Today: date(t, "2024-01-02"), Language: "fr"}
	report, err := Compute(nil, testCategories(), q)
	if err != nil {
		t.Fatalf("Compute returned error: %v", err)
	}
	if len(report.Series) != 2 || report.Series[0].Label != "janv." {
		t.Fatalf("unexpected year series %+v", report.Series)
	}
}

func TestRoundHalfUp(t *testing.T) {
	cases := map[float64]int{2.5: 3, 2.49: 2, -12.5: -12, -0.6: -1, 0: 0}
	for in, want := range cases {
		if got := roundHalfUp(in); got != want {
			t.Fatalf("roundHalfUp(%v) = %d, want %d", in, got, want)
		}
	}
}
