package models

// TrendDirection classifies how health scores moved within a week
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendStable    TrendDirection = "stable"
	TrendDeclining TrendDirection = "declining"
)

// Alert names a pattern detected across a week of daily summaries
type Alert string

const (
	AlertInfrequent    Alert = "infrequent_bowel_movements"
	AlertConstipation  Alert = "constipation_pattern"
	AlertDiarrhea      Alert = "diarrhea_pattern"
	AlertHighFrequency Alert = "high_frequency"
)

// DailySummary reduces one calendar day of observations
type DailySummary struct {
	Date              string         `json:"date"` // YYYY-MM-DD, UTC
	AvgBristolScore   float64        `json:"avgBristolScore"`
	AvgHydrationIndex float64        `json:"avgHydrationIndex"`
	MostCommonVolume  VolumeEstimate `json:"mostCommonVolume"`
	Flags             []string       `json:"flags"`
	EventCount        int            `json:"eventCount"`
	HealthScore       int            `json:"healthScore"`
}

// WeeklyInsights holds the text assessment of a week
type WeeklyInsights struct {
	Frequency       string   `json:"frequency"`
	Consistency     string   `json:"consistency"`
	Hydration       string   `json:"hydration"`
	Recommendations []string `json:"recommendations"`
}

// WeeklyTrend is one 7-day partition of the window (the last may be shorter)
type WeeklyTrend struct {
	WeekStart          string         `json:"weekStart"`
	DailyData          []DailySummary `json:"dailyData"`
	OverallHealthScore float64        `json:"overallHealthScore"`
	TrendDirection     TrendDirection `json:"trendDirection"`
	Alerts             []Alert        `json:"alerts"`
	Insights           WeeklyInsights `json:"insights"`
}

// OverallStats rolls up the whole window
type OverallStats struct {
	TotalDays      int            `json:"totalDays"`
	TotalEvents    int            `json:"totalEvents"`
	AvgHealthScore float64        `json:"avgHealthScore"`
	CurrentTrend   TrendDirection `json:"currentTrend"`
}

// TrendsResponse is returned by GET /api/v1/trends
type TrendsResponse struct {
	DailySummaries []DailySummary `json:"dailySummaries"`
	WeeklyTrends   []WeeklyTrend  `json:"weeklyTrends"`
	OverallStats   OverallStats   `json:"overallStats"`
}
