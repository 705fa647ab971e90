package trends

import "github.com/gutcheck-app/gutcheck/backend/internal/models"

// FillGaps returns exactly one summary per date of w, oldest first. Dates
// missing from sparse get a NeutralDay; summaries outside w are dropped.
func FillGaps(sparse []models.DailySummary, w Window) []models.DailySummary {
	byDate := make(map[string]models.DailySummary, len(sparse))
	for _, s := range sparse {
		byDate[s.Date] = s
	}

	dates := w.Dates()
	dense := make([]models.DailySummary, 0, len(dates))
	for _, date := range dates {
		if s, ok := byDate[date]; ok {
			dense = append(dense, s)
			continue
		}
		dense = append(dense, NeutralDay(date))
	}
	return dense
}
