// Package report renders a trends analysis for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gutcheck-app/gutcheck/backend/internal/models"
)

var (
	colorMuted = lipgloss.Color("#8b949e")
	colorGood  = lipgloss.Color("#3fb950")
	colorWarn  = lipgloss.Color("#d29922")
	colorBad   = lipgloss.Color("#f85149")
	colorTitle = lipgloss.Color("#58a6ff")

	titleStyle = lipgloss.NewStyle().
			Foreground(colorTitle).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Bold(true).
			MarginTop(1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	alertStyle = lipgloss.NewStyle().
			Foreground(colorBad)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

// Render writes a human-readable summary of resp to w
func Render(w io.Writer, resp *models.TrendsResponse, deviceID string) error {
	var b strings.Builder

	device := deviceID
	if device == "" {
		device = models.AllDevices
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("Gut health trends: %d days, device %s", len(resp.DailySummaries), device)))
	b.WriteString("\n")

	stats := resp.OverallStats
	b.WriteString(boxStyle.Render(fmt.Sprintf(
		"Days %d   Events %d   Avg score %s   Trend %s",
		stats.TotalDays, stats.TotalEvents,
		scoreStyle(stats.AvgHealthScore).Render(fmt.Sprintf("%.1f", stats.AvgHealthScore)),
		directionStyle(stats.CurrentTrend).Render(string(stats.CurrentTrend)),
	)))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Daily"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%-10s  %6s  %7s  %9s  %-6s  %5s", "date", "events", "bristol", "hydration", "volume", "score")))
	b.WriteString("\n")
	for _, d := range resp.DailySummaries {
		line := fmt.Sprintf("%-10s  %6d  %7.1f  %9.2f  %-6s  %5d",
			d.Date, d.EventCount, d.AvgBristolScore, d.AvgHydrationIndex, d.MostCommonVolume, d.HealthScore)
		if d.EventCount == 0 {
			line = mutedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	for _, week := range resp.WeeklyTrends {
		b.WriteString(sectionStyle.Render(fmt.Sprintf("Week of %s", week.WeekStart)))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("score %s  trend %s\n",
			scoreStyle(week.OverallHealthScore).Render(fmt.Sprintf("%.1f", week.OverallHealthScore)),
			directionStyle(week.TrendDirection).Render(string(week.TrendDirection)),
		))
		for _, alert := range week.Alerts {
			b.WriteString(alertStyle.Render("! " + string(alert)))
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%s | %s | %s\n", week.Insights.Frequency, week.Insights.Consistency, week.Insights.Hydration))
		for _, rec := range week.Insights.Recommendations {
			b.WriteString(mutedStyle.Render("- " + rec))
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func scoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 70:
		return lipgloss.NewStyle().Foreground(colorGood)
	case score >= 40:
		return lipgloss.NewStyle().Foreground(colorWarn)
	default:
		return lipgloss.NewStyle().Foreground(colorBad)
	}
}

func directionStyle(d models.TrendDirection) lipgloss.Style {
	switch d {
	case models.TrendImproving:
		return lipgloss.NewStyle().Foreground(colorGood)
	case models.TrendDeclining:
		return lipgloss.NewStyle().Foreground(colorBad)
	default:
		return lipgloss.NewStyle().Foreground(colorMuted)
	}
}
