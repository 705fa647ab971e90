package trends

import (
	"github.com/gutcheck-app/gutcheck/backend/internal/models"
)

const (
	daysPerWeek = 7

	// trendThreshold is how far the second-half mean must move from the
	// first-half mean before a week counts as improving or declining.
	trendThreshold = 5.0

	infrequentMinEmptyDays   = 3
	constipationMinDays      = 2
	diarrheaMinDays          = 2
	highFrequencyMeanEvents  = 3.0
	lowFrequencyMeanEvents   = 1.0
	lowHydrationThreshold    = 0.5
	goodHydrationThreshold   = 0.8
	idealConsistencyLow      = 3.0
	idealConsistencyHigh     = 4.0
	constipationScoreCeiling = 2.0
	diarrheaScoreFloor       = 6.0
)

// Insight texts.
const (
	FrequencyLow    = "Low frequency - consider increasing fiber and fluid intake"
	FrequencyHigh   = "High frequency - monitor for possible digestive issues"
	FrequencyNormal = "Normal frequency"

	ConsistencyIrregular = "Irregular consistency - consider dietary adjustments"
	ConsistencyGood      = "Good consistency"

	HydrationLow      = "Low hydration - increase water intake"
	HydrationGood     = "Good hydration levels"
	HydrationAdequate = "Adequate hydration"
)

var (
	constipationRecommendations = []string{
		"Increase fiber intake with fruits, vegetables, and whole grains",
		"Drink more water throughout the day",
		"Consider gentle exercise like walking",
	}
	diarrheaRecommendations = []string{
		"Stay hydrated with clear fluids",
		"Eat bland foods like bananas, rice, and toast",
		"Avoid dairy and fatty foods temporarily",
	}
	infrequentRecommendations = []string{
		"Establish a regular bathroom routine",
		"Increase physical activity",
		"Consider natural laxatives like prunes or fiber supplements",
	}
	lowHydrationRecommendation  = "Increase water intake to at least 8 glasses per day"
	highFrequencyRecommendation = "Monitor food triggers that may cause high frequency"
	fallbackRecommendations     = []string{
		"Maintain current diet and hydration habits",
		"Continue regular monitoring",
	}
)

// ComposeWeeks partitions a dense daily sequence into consecutive 7-day
// weeks starting at its first day. The last week holds the remainder.
func ComposeWeeks(days []models.DailySummary) []models.WeeklyTrend {
	weeks := make([]models.WeeklyTrend, 0, (len(days)+daysPerWeek-1)/daysPerWeek)
	for start := 0; start < len(days); start += daysPerWeek {
		end := min(start+daysPerWeek, len(days))
		weeks = append(weeks, ComposeWeek(days[start:end]))
	}
	return weeks
}

// ComposeWeek computes the score, direction, alerts and insights for one week.
func ComposeWeek(days []models.DailySummary) models.WeeklyTrend {
	dailyData := make([]models.DailySummary, len(days))
	copy(dailyData, days)

	overall := meanHealthScore(dailyData, neutralHealthScore)
	alerts := DetectAlerts(dailyData)

	week := models.WeeklyTrend{
		DailyData:          dailyData,
		OverallHealthScore: overall,
		TrendDirection:     Direction(dailyData, overall),
		Alerts:             alerts,
		Insights:           BuildInsights(dailyData, alerts),
	}
	if len(dailyData) > 0 {
		week.WeekStart = dailyData[0].Date
	}
	return week
}

// Direction compares the mean health score of the second half of the week
// with the first half. The first half gets floor(n/2) days; an empty half
// falls back to fallback.
func Direction(days []models.DailySummary, fallback float64) models.TrendDirection {
	mid := len(days) / 2
	first := meanHealthScore(days[:mid], fallback)
	second := meanHealthScore(days[mid:], fallback)

	switch {
	case second > first+trendThreshold:
		return models.TrendImproving
	case second < first-trendThreshold:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

// DetectAlerts scans a week for each pattern independently.
func DetectAlerts(days []models.DailySummary) []models.Alert {
	var emptyDays, constipatedDays, looseDays, events int
	for _, d := range days {
		if d.EventCount == 0 {
			emptyDays++
		}
		if hasScore(d) && d.AvgBristolScore <= constipationScoreCeiling {
			constipatedDays++
		}
		if d.AvgBristolScore >= diarrheaScoreFloor {
			looseDays++
		}
		events += d.EventCount
	}

	alerts := []models.Alert{}
	if emptyDays >= infrequentMinEmptyDays {
		alerts = append(alerts, models.AlertInfrequent)
	}
	if constipatedDays >= constipationMinDays {
		alerts = append(alerts, models.AlertConstipation)
	}
	if looseDays >= diarrheaMinDays {
		alerts = append(alerts, models.AlertDiarrhea)
	}
	if len(days) > 0 && float64(events)/float64(len(days)) > highFrequencyMeanEvents {
		alerts = append(alerts, models.AlertHighFrequency)
	}
	return alerts
}

// BuildInsights produces the frequency, consistency and hydration texts and
// the ordered recommendation list. Consistency and hydration means skip
// days without data; a week with no such days gets the neutral text.
func BuildInsights(days []models.DailySummary, alerts []models.Alert) models.WeeklyInsights {
	var events int
	var scoreSum, hydrationSum float64
	var scored, hydrated int
	for _, d := range days {
		events += d.EventCount
		if hasScore(d) {
			scoreSum += d.AvgBristolScore
			scored++
		}
		if hasHydration(d) {
			hydrationSum += d.AvgHydrationIndex
			hydrated++
		}
	}

	avgEvents := 0.0
	if len(days) > 0 {
		avgEvents = float64(events) / float64(len(days))
	}

	insights := models.WeeklyInsights{
		Frequency:   FrequencyNormal,
		Consistency: ConsistencyGood,
		Hydration:   HydrationAdequate,
	}

	switch {
	case avgEvents < lowFrequencyMeanEvents:
		insights.Frequency = FrequencyLow
	case avgEvents > highFrequencyMeanEvents:
		insights.Frequency = FrequencyHigh
	}

	if scored > 0 {
		avgScore := scoreSum / float64(scored)
		if avgScore < idealConsistencyLow || avgScore > idealConsistencyHigh {
			insights.Consistency = ConsistencyIrregular
		}
	}

	lowHydration := false
	if hydrated > 0 {
		avgHydration := hydrationSum / float64(hydrated)
		switch {
		case avgHydration < lowHydrationThreshold:
			insights.Hydration = HydrationLow
			lowHydration = true
		case avgHydration > goodHydrationThreshold:
			insights.Hydration = HydrationGood
		}
	}

	insights.Recommendations = recommend(alerts, lowHydration, avgEvents > highFrequencyMeanEvents)
	return insights
}

func recommend(alerts []models.Alert, lowHydration, highFrequency bool) []string {
	fired := make(map[models.Alert]bool, len(alerts))
	for _, a := range alerts {
		fired[a] = true
	}

	recs := []string{}
	if fired[models.AlertConstipation] {
		recs = append(recs, constipationRecommendations...)
	}
	if fired[models.AlertDiarrhea] {
		recs = append(recs, diarrheaRecommendations...)
	}
	if fired[models.AlertInfrequent] {
		recs = append(recs, infrequentRecommendations...)
	}
	if lowHydration {
		recs = append(recs, lowHydrationRecommendation)
	}
	if highFrequency {
		recs = append(recs, highFrequencyRecommendation)
	}
	if len(recs) == 0 {
		recs = append(recs, fallbackRecommendations...)
	}
	return recs
}

func meanHealthScore(days []models.DailySummary, fallback float64) float64 {
	if len(days) == 0 {
		return fallback
	}
	total := 0
	for _, d := range days {
		total += d.HealthScore
	}
	return float64(total) / float64(len(days))
}
