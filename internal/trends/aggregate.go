package trends

import (
	"github.com/gutcheck-app/gutcheck/backend/internal/models"
)

const (
	baseHealthScore    = 50
	neutralHealthScore = 50
	flagPenalty        = 5
)

// AggregateDay reduces the observations falling on date (YYYY-MM-DD, UTC)
// into one summary. Observations on other dates are ignored.
func AggregateDay(date string, observations []models.Observation) models.DailySummary {
	var day []models.Observation
	for _, o := range observations {
		if dateKey(o.Timestamp) == date {
			day = append(day, o)
		}
	}
	return reduceDay(date, day)
}

// Aggregate groups observations by UTC date and reduces each group. The
// result is sparse: only dates with at least one observation appear, in
// first-seen order.
func Aggregate(observations []models.Observation) []models.DailySummary {
	groups := make(map[string][]models.Observation)
	var order []string
	for _, o := range observations {
		key := dateKey(o.Timestamp)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], o)
	}

	summaries := make([]models.DailySummary, 0, len(order))
	for _, key := range order {
		summaries = append(summaries, reduceDay(key, groups[key]))
	}
	return summaries
}

func reduceDay(date string, day []models.Observation) models.DailySummary {
	var (
		scoreSum, hydrationSum     float64
		scoreCount, hydrationCount int
		flags                      = []string{}
		seenFlags                  = make(map[string]struct{})
		volumes                    = newVolumeTally()
	)

	for _, o := range day {
		if o.BristolScore != nil {
			scoreSum += float64(*o.BristolScore)
			scoreCount++
		}
		if o.HydrationIndex != nil {
			hydrationSum += *o.HydrationIndex
			hydrationCount++
		}
		if o.VolumeEstimate != nil {
			volumes.add(*o.VolumeEstimate)
		}
		for _, f := range o.Flags {
			if _, ok := seenFlags[f]; ok {
				continue
			}
			seenFlags[f] = struct{}{}
			flags = append(flags, f)
		}
	}

	summary := models.DailySummary{
		Date:              date,
		AvgBristolScore:   mean(scoreSum, scoreCount),
		AvgHydrationIndex: mean(hydrationSum, hydrationCount),
		MostCommonVolume:  volumes.mostCommon(),
		Flags:             flags,
		EventCount:        len(day),
	}
	summary.HealthScore = HealthScore(summary.AvgBristolScore, summary.AvgHydrationIndex, len(flags))
	return summary
}

// HealthScore is the 0-100 composite for one day: base 50, a consistency
// bonus for the Bristol average, a hydration bonus, minus 5 per distinct
// flag. An average of 0 means "no data" and earns no bonus, the same as
// the extreme scores 1 and 7.
func HealthScore(avgBristolScore, avgHydrationIndex float64, distinctFlags int) int {
	score := baseHealthScore

	switch {
	case avgBristolScore >= 3 && avgBristolScore <= 4:
		score += 30
	case avgBristolScore >= 2 && avgBristolScore <= 6:
		score += 15
	}

	switch {
	case avgHydrationIndex >= 0.6 && avgHydrationIndex <= 0.8:
		score += 20
	case avgHydrationIndex >= 0.4 && avgHydrationIndex <= 0.9:
		score += 10
	}

	score -= flagPenalty * distinctFlags
	return clamp(score, 0, 100)
}

// NeutralDay is the placeholder for a date with no observations.
func NeutralDay(date string) models.DailySummary {
	return models.DailySummary{
		Date:             date,
		MostCommonVolume: models.VolumeMedium,
		Flags:            []string{},
		EventCount:       0,
		HealthScore:      neutralHealthScore,
	}
}

// hasScore reports whether the day carried at least one Bristol score.
// A zero average doubles as the "no data" sentinel.
func hasScore(d models.DailySummary) bool {
	return d.AvgBristolScore > 0
}

// hasHydration is the hydration counterpart of hasScore.
func hasHydration(d models.DailySummary) bool {
	return d.AvgHydrationIndex > 0
}

// volumeTally counts volume categories, remembering first-seen order so
// ties resolve to the earliest category.
type volumeTally struct {
	counts map[models.VolumeEstimate]int
	order  []models.VolumeEstimate
}

func newVolumeTally() *volumeTally {
	return &volumeTally{counts: make(map[models.VolumeEstimate]int)}
}

func (t *volumeTally) add(v models.VolumeEstimate) {
	if _, ok := t.counts[v]; !ok {
		t.order = append(t.order, v)
	}
	t.counts[v]++
}

func (t *volumeTally) mostCommon() models.VolumeEstimate {
	best := models.VolumeMedium
	bestCount := 0
	for _, v := range t.order {
		if t.counts[v] > bestCount {
			best = v
			bestCount = t.counts[v]
		}
	}
	return best
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
