package export

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nocturnehq/nocturne/internal/healthkit"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<HealthData locale="en_US">
 <ExportDate value="2024-11-03 10:00:00 -0500"/>
 <Record type="HKCategoryTypeIdentifierSleepAnalysis" value="HKCategoryValueSleepAnalysisAsleepREM" startDate="2024-11-01 23:00:00 -0500" endDate="2024-11-02 07:00:00 -0500">
  <MetadataEntry key="HKTimeZone" value="America/New_York"/>
 </Record>
 <Record type="HKQuantityTypeIdentifierHeartRate" unit="count/min" value="60" startDate="2024-11-02 03:00:00 -0500" endDate="2024-11-02 03:00:00 -0500"/>
 <Record type="HKQuantityTypeIdentifierHeartRateVariabilitySDNN" unit="ms" value="55.4" startDate="2024-11-02 03:10:00 -0500" endDate="2024-11-02 03:10:00 -0500"/>
 <Record type="HKQuantityTypeIdentifierRespiratoryRate" unit="count/min" value="14.5" startDate="2024-11-02 03:20:00 -0500" endDate="2024-11-02 03:20:00 -0500"/>
 <Record type="HKQuantityTypeIdentifierStepCount" value="90" startDate="2024-11-02 09:00:00 -0500" endDate="2024-11-02 09:10:00 -0500"/>
 <Record type="HKQuantityTypeIdentifierHeartRate" value="not-a-number" startDate="2024-11-02 03:30:00 -0500"/>
 <Record type="HKQuantityTypeIdentifierHeartRate" value="61" startDate="garbage"/>
 <Record type="HKCategoryTypeIdentifierSleepAnalysis" value="1" startDate="2024-11-02 23:30:00 -0500" endDate="2024-11-02 22:00:00 -0500"/>
</HealthData>`

func collect(t *testing.T, src string) (Stats, []healthkit.RawRecord, error) {
	t.Helper()

	var records []healthkit.RawRecord
	stats, err := Extract(t.Context(), strings.NewReader(src), func(r healthkit.RawRecord) error {
		records = append(records, r)
		return nil
	})
	return stats, records, err
}

func TestExtractRawXML(t *testing.T) {
	t.Parallel()

	stats, records, err := collect(t, sampleXML)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	wantStats := Stats{
		Sleep:               1,
		HeartRate:           1,
		HRV:                 1,
		RespiratoryRate:     1,
		DroppedUnknownType:  1,
		DroppedBadTimestamp: 2, // garbage start + end before start
		DroppedBadValue:     1,
	}
	if diff := cmp.Diff(wantStats, stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}

	if got := stats.Emitted(); got != len(records) {
		t.Errorf("Emitted() = %d, want %d", got, len(records))
	}
	if got := stats.Dropped(); got != 4 {
		t.Errorf("Dropped() = %d, want 4", got)
	}

	sleep := records[0]
	if sleep.Kind != healthkit.KindSleep {
		t.Fatalf("first record kind = %q, want sleep", sleep.Kind)
	}
	if got := sleep.End.Sub(sleep.Start).Hours(); got != 8.0 {
		t.Errorf("sleep duration = %v hours, want 8", got)
	}
}

func TestExtractEmissionOrder(t *testing.T) {
	t.Parallel()

	_, records, err := collect(t, sampleXML)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := []healthkit.Kind{
		healthkit.KindSleep,
		healthkit.KindHeartRate,
		healthkit.KindHRV,
		healthkit.KindRespiratoryRate,
	}
	for i, kind := range want {
		if records[i].Kind != kind {
			t.Errorf("records[%d].Kind = %q, want %q", i, records[i].Kind, kind)
		}
	}
}

func TestExtractMalformedStream(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "plain text", input: "this is not markup at all"},
		{name: "empty stream", input: ""},
		{name: "prolog without document element", input: `<?xml version="1.0"?>`},
		{name: "truncated element", input: "<HealthData><Record"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := collect(t, tt.input)
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Extract() error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestExtractEmptyDocument(t *testing.T) {
	t.Parallel()

	stats, records, err := collect(t, `<?xml version="1.0"?><HealthData></HealthData>`)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if stats.Emitted() != 0 || len(records) != 0 {
		t.Errorf("expected empty extraction, got %d records", len(records))
	}
}

func TestExtractEmitErrorAborts(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sink full")
	_, err := Extract(t.Context(), strings.NewReader(sampleXML), func(healthkit.RawRecord) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("Extract() error = %v, want sentinel", err)
	}
}

func buildZip(t *testing.T, entries map[string]string) *bytes.Reader {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestExtractZipArchive(t *testing.T) {
	t.Parallel()

	src := buildZip(t, map[string]string{
		"apple_health_export/export_cda.xml": "<ClinicalDocument/>",
		"apple_health_export/export.xml":     sampleXML,
	})

	var emitted int
	stats, err := Extract(t.Context(), src, func(healthkit.RawRecord) error {
		emitted++
		return nil
	})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if stats.Emitted() != 4 || emitted != 4 {
		t.Errorf("Emitted() = %d (callback %d), want 4", stats.Emitted(), emitted)
	}
}

func TestExtractZipWithoutExportEntry(t *testing.T) {
	t.Parallel()

	src := buildZip(t, map[string]string{"readme.txt": "nothing here"})

	_, err := Extract(t.Context(), src, func(healthkit.RawRecord) error { return nil })
	if !errors.Is(err, ErrNoExport) {
		t.Errorf("Extract() error = %v, want ErrNoExport", err)
	}
}

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestPayloadCloseReleasesEntry(t *testing.T) {
	t.Parallel()

	rc := &closeTracker{Reader: strings.NewReader("")}
	p := &payload{r: rc, entry: rc}
	p.close()

	if !rc.closed {
		t.Error("close() did not close the archive entry reader")
	}
}
