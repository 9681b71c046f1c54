package night

import (
	"fmt"
	"math"
)

// Component weights, summing to 1.0.
const (
	weightDuration    = 0.40
	weightRegularity  = 0.20
	weightHeartRate   = 0.15
	weightHRV         = 0.15
	weightRespiratory = 0.10
)

// neutralScore stands in for a vital component when no night carries that
// vital at all; a sleep-only export still scores.
const neutralScore = 75.0

// ScoreBreakdown is the composite sleep score with its five sub-scores,
// each in [0,100], and a deterministic explanation in fixed order.
type ScoreBreakdown struct {
	Score       float64 `json:"score"`
	Duration    float64 `json:"duration_score"`
	Regularity  float64 `json:"regularity_score"`
	HeartRate   float64 `json:"heart_rate_score"`
	HRV         float64 `json:"hrv_score"`
	Respiratory float64 `json:"respiratory_score"`
	Explanation string  `json:"explanation"`
}

// Score computes the weighted composite over the given window of nights.
// Each component is rounded to one decimal before weighting, so the final
// score is exactly the weighted sum of the published sub-scores.
func Score(nights []Night) (ScoreBreakdown, error) {
	if len(nights) == 0 {
		return ScoreBreakdown{}, ErrNoData
	}

	b := ScoreBreakdown{
		Duration:    round1(durationScore(nights)),
		Regularity:  round1(regularityScore(nights)),
		HeartRate:   round1(heartRateScore(nights)),
		HRV:         round1(hrvScore(nights)),
		Respiratory: round1(respiratoryScore(nights)),
	}

	b.Score = round1(weightDuration*b.Duration +
		weightRegularity*b.Regularity +
		weightHeartRate*b.HeartRate +
		weightHRV*b.HRV +
		weightRespiratory*b.Respiratory)

	b.Explanation = fmt.Sprintf(
		"duration %.1f (40%%) | regularity %.1f (20%%) | heart rate %.1f (15%%) | hrv %.1f (15%%) | respiratory %.1f (10%%)",
		b.Duration, b.Regularity, b.HeartRate, b.HRV, b.Respiratory)

	return b, nil
}

// durationScore rewards 7-9 hours per night and decays at 10 points per
// hour away from 8, floored at 30.
func durationScore(nights []Night) float64 {
	var sum float64
	for _, n := range nights {
		h := n.TotalSleepHours
		if h >= 7 && h <= 9 {
			sum += 100
			continue
		}
		sum += math.Max(30, 100-math.Min(math.Abs(h-8)*10, 70))
	}
	return sum / float64(len(nights))
}

// regularityScore bands the population standard deviation of nightly hours.
func regularityScore(nights []Night) float64 {
	hours := make([]float64, len(nights))
	for i, n := range nights {
		hours[i] = n.TotalSleepHours
	}

	switch sd := popStdDev(hours); {
	case sd < 0.5:
		return 100
	case sd < 1.5:
		return 85
	default:
		return 70
	}
}

func heartRateScore(nights []Night) float64 {
	m := fieldMean(nights, func(n Night) *float64 { return n.AvgHeartRate })
	if m == nil {
		return neutralScore
	}
	hr := *m
	if hr >= 50 && hr <= 70 {
		return 100
	}
	return math.Max(60, 100-math.Min(math.Abs(hr-60)*2, 40))
}

func hrvScore(nights []Night) float64 {
	m := fieldMean(nights, func(n Night) *float64 { return n.AvgHRV })
	if m == nil {
		return neutralScore
	}
	switch hrv := *m; {
	case hrv >= 60:
		return 100
	case hrv >= 40:
		return 85
	default:
		return 70
	}
}

func respiratoryScore(nights []Night) float64 {
	m := fieldMean(nights, func(n Night) *float64 { return n.AvgRespiratoryRate })
	if m == nil {
		return neutralScore
	}
	r := *m
	if r >= 12 && r <= 18 {
		return 100
	}
	return math.Max(60, 100-math.Min(math.Abs(r-15)*3, 40))
}

func popStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(len(values)))
}
