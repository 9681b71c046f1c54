// Package insight is the ingestion-and-aggregation engine: one streaming
// pass over an uploaded export rebuilds the rolling window of nights that
// the summary, nights and score reads are served from.
package insight

import (
	"context"
	"io"
	"strconv"

	"github.com/nocturnehq/nocturne/internal/export"
	"github.com/nocturnehq/nocturne/internal/healthkit"
	"github.com/nocturnehq/nocturne/internal/night"
	"github.com/nocturnehq/nocturne/internal/storage"
)

// ErrNoData is the uniform failure for reads against an empty window.
var ErrNoData = night.ErrNoData

type Service struct {
	window  *night.Window
	samples storage.SampleStore
}

type Option func(*Service)

// WithSampleStore also persists classified samples during ingest. The
// engine runs identically without one; persistence is an add-on, not a
// dependency.
func WithSampleStore(store storage.SampleStore) Option {
	return func(s *Service) { s.samples = store }
}

func New(window *night.Window, opts ...Option) *Service {
	s := &Service{window: window}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestResult reports what one upload produced.
type IngestResult struct {
	NightCount int          `json:"night_count"`
	Records    int          `json:"records"`
	Stats      export.Stats `json:"stats"`
}

// Ingest streams the export once, folds records into night aggregates and
// atomically replaces the rolling window. On any failure the previous
// window is preserved untouched; the replace happens only after the whole
// pass has succeeded.
func (s *Service) Ingest(ctx context.Context, r io.Reader) (IngestResult, error) {
	var (
		segments  []night.Segment
		points    []night.Point
		persister *storage.Persister
	)
	if s.samples != nil {
		persister = storage.NewPersister(s.samples)
	}

	stats, err := export.Extract(ctx, r, func(rec healthkit.RawRecord) error {
		if rec.Kind == healthkit.KindSleep {
			seg := night.Segment{
				Start: rec.Start,
				End:   rec.End,
				Stage: healthkit.ParseStage(rec.Value),
			}
			segments = append(segments, seg)
			if persister == nil {
				return nil
			}
			return persister.AddSleep(ctx, storage.SleepEpoch{
				StartTS: seg.Start.UnixMilli(),
				EndTS:   seg.End.UnixMilli(),
				Stage:   string(seg.Stage),
			})
		}

		// the extractor only emits vitals with numeric values
		value, err := strconv.ParseFloat(rec.Value, 64)
		if err != nil {
			return nil
		}
		points = append(points, night.Point{Time: rec.Start, Value: value, Kind: rec.Kind})

		if persister != nil && rec.Kind == healthkit.KindHeartRate {
			return persister.AddHeartRate(ctx, storage.HeartRateSample{
				TS:    rec.Start.UnixMilli(),
				Value: value,
			})
		}
		return nil
	})
	if err != nil {
		return IngestResult{}, err
	}

	if persister != nil {
		if err := persister.Flush(ctx); err != nil {
			return IngestResult{}, err
		}
	}

	nights := night.BuildNights(segments, points)
	s.window.Replace(nights)

	return IngestResult{
		NightCount: len(nights),
		Records:    stats.Emitted(),
		Stats:      stats,
	}, nil
}

// Summary reduces the rolling window into one cross-night summary.
func (s *Service) Summary() (night.Summary, error) {
	return night.Summarize(s.window.Recent(night.MaxNights))
}

// Nights returns the rolling window, ascending by date, capped at
// MaxNights. ErrNoData when empty.
func (s *Service) Nights() ([]night.Night, error) {
	nights := s.window.Recent(night.MaxNights)
	if len(nights) == 0 {
		return nil, ErrNoData
	}
	return nights, nil
}

// Score computes the composite sleep score over the rolling window.
func (s *Service) Score() (night.ScoreBreakdown, error) {
	return night.Score(s.window.Recent(night.MaxNights))
}
