package trends

import "github.com/gutcheck-app/gutcheck/backend/internal/models"

// Overall rolls up the dense daily sequence. CurrentTrend is the direction
// of the most recent week, stable when there are no weeks.
func Overall(days []models.DailySummary, weeks []models.WeeklyTrend) models.OverallStats {
	stats := models.OverallStats{
		TotalDays:      len(days),
		AvgHealthScore: meanHealthScore(days, 0),
		CurrentTrend:   models.TrendStable,
	}
	for _, d := range days {
		stats.TotalEvents += d.EventCount
	}
	if len(weeks) > 0 {
		stats.CurrentTrend = weeks[len(weeks)-1].TrendDirection
	}
	return stats
}

// Build runs the full pipeline for one window: aggregate, fill gaps,
// compose weeks, roll up.
func Build(observations []models.Observation, w Window) models.TrendsResponse {
	daily := FillGaps(Aggregate(observations), w)
	weeks := ComposeWeeks(daily)
	return models.TrendsResponse{
		DailySummaries: daily,
		WeeklyTrends:   weeks,
		OverallStats:   Overall(daily, weeks),
	}
}
