// Package rank computes quality scores for stories and orders result
// sets by them.
//
// Score = (points^0.8 * 2) + (comments^0.6 * 1.5) + recency boost,
// where the boost is a multi-tier function of the story's age:
//
//	<= 2h:     60
//	2h-6h:     40
//	6h-24h:    40 * e^(-(h-6)/12) + 10
//	24h-72h:   linear decay from 10 to 0
//	> 72h:     0
//
// There is a step at the 6-hour boundary (40 on the trending side,
// ~50 just past it). That step is intentional and load-bearing for
// ordering; do not smooth it.
package rank

import (
	"math"
	"sort"
	"time"

	"hn-scout/hn"
)

// Breakdown shows how each component contributed to the total.
// All values are rounded to one decimal.
type Breakdown struct {
	Points   float64 `json:"points"`
	Comments float64 `json:"comments"`
	Recency  float64 `json:"recency"`
}

// Score is a quality score computed for one story at one instant.
type Score struct {
	Total     float64   `json:"score"`
	Breakdown Breakdown `json:"breakdown"`
}

// Compute scores raw engagement metrics. Points and comments are
// clamped to a floor of 1 before the exponent; a negative age (clock
// skew) is treated as 0.
func Compute(points, comments int, hoursAgo float64) Score {
	if hoursAgo < 0 {
		hoursAgo = 0
	}

	pointsScore := math.Pow(float64(max(points, 1)), 0.8) * 2
	commentsScore := math.Pow(float64(max(comments, 1)), 0.6) * 1.5
	recencyScore := recencyBoost(hoursAgo)

	total := pointsScore + commentsScore + recencyScore

	return Score{
		Total: round1(total),
		Breakdown: Breakdown{
			Points:   round1(pointsScore),
			Comments: round1(commentsScore),
			Recency:  round1(recencyScore),
		},
	}
}

// For computes the quality score of a story at the given instant.
func For(s hn.Story, now time.Time) Score {
	return Compute(s.Points, s.NumComments, s.HoursSince(now))
}

// Sort orders stories by descending total score as of now. Equal totals
// keep their existing relative order; no secondary key is applied.
func Sort(stories []hn.Story, now time.Time) []hn.Story {
	totals := make([]float64, len(stories))
	for i, s := range stories {
		totals[i] = For(s, now).Total
	}

	idx := make([]int, len(stories))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return totals[idx[a]] > totals[idx[b]]
	})

	out := make([]hn.Story, len(stories))
	for i, j := range idx {
		out[i] = stories[j]
	}
	return out
}

// recencyBoost is monotonically non-increasing within each tier but
// deliberately discontinuous at the 6-hour boundary.
func recencyBoost(hoursAgo float64) float64 {
	switch {
	case hoursAgo <= 2:
		return 60
	case hoursAgo <= 6:
		return 40
	case hoursAgo <= 24:
		return 40*math.Exp(-(hoursAgo-6)/12) + 10
	case hoursAgo <= 72:
		return math.Max(0, 10*(1-(hoursAgo-24)/48))
	default:
		return 0
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
