package healthkit

import "strings"

type Stage string

const (
	StageAsleep     Stage = "ASLEEP"
	StageAsleepREM  Stage = "ASLEEP_REM"
	StageAsleepDeep Stage = "ASLEEP_DEEP"
	StageAsleepCore Stage = "ASLEEP_CORE"
	StageInBed      Stage = "INBED"
	StageAware      Stage = "AWARE"
)

// ParseStage maps the raw sleep category value to a coarse stage. Exports
// in the wild carry either the historical numeric codes 0-5 or textual
// labels like "HKCategoryValueSleepAnalysisAsleepREM"; both are accepted.
// Textual matching is case-insensitive, first match wins.
func ParseStage(raw string) Stage {
	switch raw {
	case "0":
		return StageInBed
	case "1":
		return StageAsleep
	case "2":
		return StageAware
	case "3":
		return StageAsleepCore
	case "4":
		return StageAsleepDeep
	case "5":
		return StageAsleepREM
	}

	upper := strings.ToUpper(raw)
	switch {
	case strings.Contains(upper, "REM"):
		return StageAsleepREM
	case strings.Contains(upper, "DEEP"):
		return StageAsleepDeep
	case strings.Contains(upper, "CORE"):
		return StageAsleepCore
	case strings.Contains(upper, "ASLEEP"):
		return StageAsleep
	default:
		return StageAsleep
	}
}

// IsSleep reports whether the stage denotes actual sleep. In-bed and awake
// intervals never contribute hours or host vital-point assignment.
func (s Stage) IsSleep() bool {
	return s != StageInBed && s != StageAware
}

func (s Stage) IsREM() bool {
	return s == StageAsleepREM
}
