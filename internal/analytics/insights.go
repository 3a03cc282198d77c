package analytics

import (
	"fmt"
	"math"

	"github.com/frequentation/internal/locale"
	"github.com/frequentation/internal/model"
)

// InsightType classifies a generated message.
type InsightType string

const (
	InsightInfo    InsightType = "info"
	InsightWarning InsightType = "warning"
	InsightAnomaly InsightType = "anomaly"
)

// Insight is a short natural-language observation about a window.
type Insight struct {
	Type    InsightType `json:"type"`
	Message string      `json:"message"`
}

const (
	minAnomalyPoints  = 6
	minNonZeroPoints  = 3
	anomalyDeviations = 2
)

// buildInsights emits, in order: top category, peak day, data gaps, anomalies.
func buildInsights(kpi KPI, anomalies int, language string) []Insight {
	insights := []Insight{}

	if len(kpi.TopCategories) > 0 {
		top := kpi.TopCategories[0]
		insights = append(insights, Insight{
			Type: InsightInfo,
			Message: locale.Pick(language,
				fmt.Sprintf("The most frequent category is %q with %d entries (%d%%).", top.Name, top.Count, top.Percentage),
				fmt.Sprintf("La typologie la plus fréquente est \"%s\" avec %d entrées (%d%%).", top.Name, top.Count, top.Percentage),
			),
		})
	}

	if kpi.MaxDay != nil {
		day := kpi.MaxDay.Date
		if t, err := model.ParseDate(day); err == nil {
			day = locale.DayMonth(language, t)
		}
		insights = append(insights, Insight{
			Type: InsightInfo,
			Message: locale.Pick(language,
				fmt.Sprintf("Peak attendance was on %s with %d visitors.", day, kpi.MaxDay.Total),
				fmt.Sprintf("Le pic de fréquentation est le %s avec %d visiteurs.", day, kpi.MaxDay.Total),
			),
		})
	}

	if kpi.DaysWithoutData > 0 {
		insights = append(insights, Insight{
			Type: InsightWarning,
			Message: locale.Pick(language,
				fmt.Sprintf("%d day(s) without data in this period.", kpi.DaysWithoutData),
				fmt.Sprintf("%d jour(s) sans données sur cette période.", kpi.DaysWithoutData),
			),
		})
	}

	if anomalies > 0 {
		insights = append(insights, Insight{
			Type: InsightAnomaly,
			Message: locale.Pick(language,
				fmt.Sprintf("%d day(s) with unusually high attendance detected.", anomalies),
				fmt.Sprintf("%d jour(s) avec une fréquentation anormalement élevée détecté(s).", anomalies),
			),
		})
	}

	return insights
}

// detectAnomalies flags points above mean + 2σ, where mean and the population
// standard deviation are taken over the non-zero totals of the series.
func detectAnomalies(series []Point) []Point {
	if len(series) < minAnomalyPoints {
		return nil
	}

	var totals []float64
	for _, p := range series {
		if p.Total > 0 {
			totals = append(totals, float64(p.Total))
		}
	}
	if len(totals) < minNonZeroPoints {
		return nil
	}

	mean, std := meanStd(totals)
	threshold := mean + anomalyDeviations*std

	var flagged []Point
	for _, p := range series {
		if float64(p.Total) > threshold {
			flagged = append(flagged, p)
		}
	}
	return flagged
}

func meanStd(values []float64) (float64, float64) {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(variance / float64(len(values)))
}
