// Package night turns classified export records into per-night aggregates
// and derives cross-night statistics and a composite sleep score from them.
package night

import (
	"sort"
	"time"

	"github.com/nocturnehq/nocturne/internal/healthkit"
)

// DateLayout keys a night by the local calendar date of its owning sleep
// segment's start, in the offset the record itself carried.
const DateLayout = "2006-01-02"

// Segment is a contiguous sleep interval with a coarse stage label.
type Segment struct {
	Start time.Time
	End   time.Time
	Stage healthkit.Stage
}

func (s Segment) hours() float64 {
	return s.End.Sub(s.Start).Hours()
}

func (s Segment) contains(t time.Time) bool {
	return !t.Before(s.Start) && !t.After(s.End)
}

// Point is an instantaneous vital-sign sample.
type Point struct {
	Time  time.Time
	Value float64
	Kind  healthkit.Kind
}

// Night is the aggregate for one calendar date. Vital averages and the REM
// percentage are nil when no data backs them, never zero.
type Night struct {
	Date               string   `json:"date"`
	TotalSleepHours    float64  `json:"total_sleep_hours"`
	REMSleepHours      float64  `json:"rem_sleep_hours"`
	NonREMSleepHours   float64  `json:"non_rem_sleep_hours"`
	REMPercentage      *float64 `json:"rem_percentage"`
	AvgHeartRate       *float64 `json:"avg_heart_rate"`
	AvgHRV             *float64 `json:"avg_hrv"`
	AvgRespiratoryRate *float64 `json:"avg_respiratory_rate"`
}

type vitalSums struct {
	sum   float64
	count int
}

func (v *vitalSums) add(value float64) {
	v.sum += value
	v.count++
}

func (v vitalSums) mean() *float64 {
	if v.count == 0 {
		return nil
	}
	m := v.sum / float64(v.count)
	return &m
}

type bucket struct {
	date       string
	totalHours float64
	remHours   float64
	hr         vitalSums
	hrv        vitalSums
	resp       vitalSums
}

// BuildNights groups sleep segments into calendar-date buckets and assigns
// vital points to the bucket of the first segment containing them. Segments
// whose stage is in-bed or awake never contribute hours nor host points. A
// segment crossing midnight is not split; its full duration belongs to the
// night of its own start date.
func BuildNights(segments []Segment, points []Point) []Night {
	sleeping := make([]Segment, 0, len(segments))
	for _, seg := range segments {
		if seg.Stage.IsSleep() {
			sleeping = append(sleeping, seg)
		}
	}

	buckets := make(map[string]*bucket)
	bucketFor := func(date string) *bucket {
		b, ok := buckets[date]
		if !ok {
			b = &bucket{date: date}
			buckets[date] = b
		}
		return b
	}

	for _, seg := range sleeping {
		b := bucketFor(seg.Start.Format(DateLayout))
		b.totalHours += seg.hours()
		if seg.Stage.IsREM() {
			b.remHours += seg.hours()
		}
	}

	for _, pt := range points {
		seg, ok := assign(sleeping, pt.Time)
		if !ok {
			continue // outside every sleep interval, dropped
		}
		b := bucketFor(seg.Start.Format(DateLayout))
		switch pt.Kind {
		case healthkit.KindHeartRate:
			b.hr.add(pt.Value)
		case healthkit.KindHRV:
			b.hrv.add(pt.Value)
		case healthkit.KindRespiratoryRate:
			b.resp.add(pt.Value)
		}
	}

	nights := make([]Night, 0, len(buckets))
	for _, b := range buckets {
		nights = append(nights, b.reduce())
	}
	sort.Slice(nights, func(i, j int) bool { return nights[i].Date < nights[j].Date })
	return nights
}

// assign finds the owning segment for a point: first containing segment in
// emission order. Overlapping segments make this order-dependent; the
// linear scan is isolated here so a tighter interval lookup can replace it
// without touching aggregation.
func assign(segments []Segment, t time.Time) (Segment, bool) {
	for _, seg := range segments {
		if seg.contains(t) {
			return seg, true
		}
	}
	return Segment{}, false
}

func (b *bucket) reduce() Night {
	n := Night{
		Date:               b.date,
		TotalSleepHours:    b.totalHours,
		REMSleepHours:      b.remHours,
		NonREMSleepHours:   b.totalHours - b.remHours,
		AvgHeartRate:       b.hr.mean(),
		AvgHRV:             b.hrv.mean(),
		AvgRespiratoryRate: b.resp.mean(),
	}
	if b.totalHours > 0 {
		pct := b.remHours / b.totalHours * 100
		n.REMPercentage = &pct
	}
	return n
}
