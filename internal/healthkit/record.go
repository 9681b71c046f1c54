// Package healthkit models the timed records found in an Apple Health
// export and classifies them into the kinds the aggregation engine
// understands.
package healthkit

import (
	"strings"
	"time"
)

type Kind string

const (
	KindSleep           Kind = "sleep"
	KindHeartRate       Kind = "heart_rate"
	KindHRV             Kind = "heart_rate_variability"
	KindRespiratoryRate Kind = "respiratory_rate"
	KindUnknown         Kind = "unknown"
)

// RawRecord is a single timed event as read from the export. Value is the
// raw attribute string; its meaning depends on Kind. End is only meaningful
// for interval kinds.
type RawRecord struct {
	Kind  Kind
	Start time.Time
	End   time.Time
	Value string
}

// TimeLayout is the fixed timestamp format used by Apple Health exports,
// e.g. "2025-01-02 03:14:00 -0500". The UTC offset is explicit and is
// preserved in the parsed time's location.
const TimeLayout = "2006-01-02 15:04:05 -0700"

func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}

// Classify maps a raw type identifier (e.g.
// "HKQuantityTypeIdentifierHeartRate") to a record kind by substring match.
func Classify(typ string) Kind {
	switch {
	case strings.Contains(typ, "SleepAnalysis"):
		return KindSleep
	case strings.Contains(typ, "HeartRateVariability"):
		return KindHRV
	case strings.Contains(typ, "HeartRate") && !strings.Contains(typ, "Variability"):
		return KindHeartRate
	case strings.Contains(typ, "RespiratoryRate"):
		return KindRespiratoryRate
	default:
		return KindUnknown
	}
}
