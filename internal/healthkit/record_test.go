package healthkit

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		typ  string
		want Kind
	}{
		{
			name: "sleep analysis",
			typ:  "HKCategoryTypeIdentifierSleepAnalysis",
			want: KindSleep,
		},
		{
			name: "heart rate",
			typ:  "HKQuantityTypeIdentifierHeartRate",
			want: KindHeartRate,
		},
		{
			name: "heart rate variability",
			typ:  "HKQuantityTypeIdentifierHeartRateVariabilitySDNN",
			want: KindHRV,
		},
		{
			name: "respiratory rate",
			typ:  "HKQuantityTypeIdentifierRespiratoryRate",
			want: KindRespiratoryRate,
		},
		{
			name: "resting heart rate still counts as heart rate",
			typ:  "HKQuantityTypeIdentifierRestingHeartRate",
			want: KindHeartRate,
		},
		{
			name: "unrelated type",
			typ:  "HKQuantityTypeIdentifierStepCount",
			want: KindUnknown,
		},
		{
			name: "empty",
			typ:  "",
			want: KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Classify(tt.typ); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.typ, got, tt.want)
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	t.Parallel()

	got, err := ParseTime("2024-11-01 23:00:00 -0500")
	if err != nil {
		t.Fatalf("ParseTime() error = %v", err)
	}

	if got.Year() != 2024 || got.Month() != time.November || got.Day() != 1 {
		t.Errorf("ParseTime() local date = %s, want 2024-11-01", got.Format("2006-01-02"))
	}
	if _, offset := got.Zone(); offset != -5*3600 {
		t.Errorf("ParseTime() offset = %d, want %d", offset, -5*3600)
	}

	if _, err := ParseTime("2024/11/01 23:00:00"); err == nil {
		t.Error("ParseTime() accepted a malformed timestamp")
	}
}

func TestParseStage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want Stage
	}{
		{"0", StageInBed},
		{"1", StageAsleep},
		{"2", StageAware},
		{"3", StageAsleepCore},
		{"4", StageAsleepDeep},
		{"5", StageAsleepREM},
		{"HKCategoryValueSleepAnalysisAsleepREM", StageAsleepREM},
		{"HKCategoryValueSleepAnalysisAsleepDeep", StageAsleepDeep},
		{"HKCategoryValueSleepAnalysisAsleepCore", StageAsleepCore},
		{"HKCategoryValueSleepAnalysisAsleepUnspecified", StageAsleep},
		{"something else entirely", StageAsleep},
		{"", StageAsleep},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			if got := ParseStage(tt.raw); got != tt.want {
				t.Errorf("ParseStage(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestStageIsSleep(t *testing.T) {
	t.Parallel()

	sleeping := []Stage{StageAsleep, StageAsleepREM, StageAsleepDeep, StageAsleepCore}
	for _, s := range sleeping {
		if !s.IsSleep() {
			t.Errorf("%q.IsSleep() = false, want true", s)
		}
	}
	for _, s := range []Stage{StageInBed, StageAware} {
		if s.IsSleep() {
			t.Errorf("%q.IsSleep() = true, want false", s)
		}
	}
	if !StageAsleepREM.IsREM() || StageAsleepDeep.IsREM() {
		t.Error("IsREM() misclassified a stage")
	}
}
