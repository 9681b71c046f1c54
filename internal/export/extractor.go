// Package export walks an Apple Health export (raw XML or zipped archive)
// in a single streaming pass and emits one classified record per
// qualifying element. Memory stays bounded regardless of input size: the
// decoder never builds a document tree and each Record element is consumed
// as soon as its attributes have been read.
package export

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/nocturnehq/nocturne/internal/healthkit"
)

const recordElement = "Record"

// Stats aggregates per-record outcomes for one extraction. Malformed
// individual records never abort the pass; they are counted by drop reason
// instead so ingest responses and tests can observe them.
type Stats struct {
	Sleep           int `json:"sleep"`
	HeartRate       int `json:"heart_rate"`
	HRV             int `json:"heart_rate_variability"`
	RespiratoryRate int `json:"respiratory_rate"`

	DroppedUnknownType  int `json:"dropped_unknown_type"`
	DroppedBadTimestamp int `json:"dropped_bad_timestamp"`
	DroppedBadValue     int `json:"dropped_bad_value"`
}

func (s Stats) Emitted() int {
	return s.Sleep + s.HeartRate + s.HRV + s.RespiratoryRate
}

func (s Stats) Dropped() int {
	return s.DroppedUnknownType + s.DroppedBadTimestamp + s.DroppedBadValue
}

// EmitFunc receives each classified record in document order. A non-nil
// error aborts the extraction and is returned to the caller unchanged.
type EmitFunc func(healthkit.RawRecord) error

// Extract resolves the source (raw XML or archive), streams the document
// once and emits classified records. Returns ErrNoExport for an archive
// without an export entry and ErrMalformed when the payload is not
// well-formed XML.
func Extract(ctx context.Context, r io.Reader, emit EmitFunc) (Stats, error) {
	var stats Stats

	p, err := openPayload(r)
	if err != nil {
		return stats, err
	}
	defer p.close()

	// A stream that yields no element at all is not an XML document:
	// the decoder tokenizes arbitrary text as CharData and reports a
	// clean EOF, which must not pass as an empty-but-valid export.
	sawElement := false

	d := xml.NewDecoder(p.r)
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			if !sawElement {
				return stats, fmt.Errorf("%w: no document element", ErrMalformed)
			}
			return stats, nil
		}
		if err != nil {
			return stats, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawElement = true
		if se.Name.Local != recordElement {
			continue
		}

		rec, outcome := classifyElement(se)
		// discard the element's children (MetadataEntry etc.) so the
		// decoder holds nothing between records
		if err := d.Skip(); err != nil {
			return stats, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		switch outcome {
		case outcomeEmit:
			stats.count(rec.Kind)
			if err := emit(rec); err != nil {
				return stats, err
			}
		case outcomeUnknownType:
			stats.DroppedUnknownType++
		case outcomeBadTimestamp:
			stats.DroppedBadTimestamp++
		case outcomeBadValue:
			stats.DroppedBadValue++
		}
	}
}

func (s *Stats) count(kind healthkit.Kind) {
	switch kind {
	case healthkit.KindSleep:
		s.Sleep++
	case healthkit.KindHeartRate:
		s.HeartRate++
	case healthkit.KindHRV:
		s.HRV++
	case healthkit.KindRespiratoryRate:
		s.RespiratoryRate++
	}
}

type outcome int

const (
	outcomeEmit outcome = iota
	outcomeUnknownType
	outcomeBadTimestamp
	outcomeBadValue
)

const (
	attrType      = "type"
	attrStartDate = "startDate"
	attrEndDate   = "endDate"
	attrValue     = "value"
)

// classifyElement applies the record classifier to one source element.
// A record with a bad timestamp or non-numeric value is reported as a
// drop, never as an error.
func classifyElement(se xml.StartElement) (healthkit.RawRecord, outcome) {
	var typ, startRaw, endRaw, value string
	for _, a := range se.Attr {
		switch a.Name.Local {
		case attrType:
			typ = a.Value
		case attrStartDate:
			startRaw = a.Value
		case attrEndDate:
			endRaw = a.Value
		case attrValue:
			value = a.Value
		}
	}

	kind := healthkit.Classify(typ)
	if kind == healthkit.KindUnknown {
		return healthkit.RawRecord{}, outcomeUnknownType
	}

	start, err := healthkit.ParseTime(startRaw)
	if err != nil {
		return healthkit.RawRecord{}, outcomeBadTimestamp
	}

	rec := healthkit.RawRecord{Kind: kind, Start: start, Value: value}

	if kind == healthkit.KindSleep {
		end, err := healthkit.ParseTime(endRaw)
		if err != nil {
			return healthkit.RawRecord{}, outcomeBadTimestamp
		}
		if end.Before(start) {
			return healthkit.RawRecord{}, outcomeBadTimestamp
		}
		rec.End = end
		return rec, outcomeEmit
	}

	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return healthkit.RawRecord{}, outcomeBadValue
	}
	return rec, outcomeEmit
}
