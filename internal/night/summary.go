package night

import (
	"errors"
	"math"
)

// ErrNoData is returned by every read operation when the window is empty,
// so callers never mistake absence for an empty-but-successful payload.
var ErrNoData = errors.New("night: no data")

// Summary is the cross-night statistical reduction of the rolling window.
// Vital means skip nights that lack the field; a field all nights lack is
// nil, never zero.
type Summary struct {
	Nights             int      `json:"nights"`
	AvgSleepHours      float64  `json:"avg_sleep_hours"`
	FirstNight         string   `json:"first_night"`
	LastNight          string   `json:"last_night"`
	AvgHeartRate       *float64 `json:"avg_heart_rate"`
	AvgHRV             *float64 `json:"avg_hrv"`
	AvgRespiratoryRate *float64 `json:"avg_respiratory_rate"`
	AvgREMPercentage   *float64 `json:"avg_rem_percentage"`
}

// Summarize reduces nights (ascending by date) into a Summary.
func Summarize(nights []Night) (Summary, error) {
	if len(nights) == 0 {
		return Summary{}, ErrNoData
	}

	var totalHours float64
	for _, n := range nights {
		totalHours += n.TotalSleepHours
	}

	return Summary{
		Nights:             len(nights),
		AvgSleepHours:      round2(totalHours / float64(len(nights))),
		FirstNight:         nights[0].Date,
		LastNight:          nights[len(nights)-1].Date,
		AvgHeartRate:       nilSkippingMean(nights, func(n Night) *float64 { return n.AvgHeartRate }),
		AvgHRV:             nilSkippingMean(nights, func(n Night) *float64 { return n.AvgHRV }),
		AvgRespiratoryRate: nilSkippingMean(nights, func(n Night) *float64 { return n.AvgRespiratoryRate }),
		AvgREMPercentage:   nilSkippingMean(nights, func(n Night) *float64 { return n.REMPercentage }),
	}, nil
}

func nilSkippingMean(nights []Night, field func(Night) *float64) *float64 {
	m := fieldMean(nights, field)
	if m == nil {
		return nil
	}
	r := round1(*m)
	return &r
}

// fieldMean is the unrounded mean over nights where field is non-nil, or
// nil when every night lacks it.
func fieldMean(nights []Night, field func(Night) *float64) *float64 {
	var sums vitalSums
	for _, n := range nights {
		if v := field(n); v != nil {
			sums.add(*v)
		}
	}
	return sums.mean()
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
