package night

import (
	"sort"
	"sync/atomic"
)

// MaxNights bounds the rolling window exposed to summary and score reads.
const MaxNights = 30

// Window is the process-wide rolling window of night aggregates. Each
// ingest replaces the whole snapshot atomically; concurrent readers see
// either the old window or the new one, never a mix. Snapshots are
// immutable after Replace.
type Window struct {
	snapshot atomic.Pointer[[]Night]
}

func NewWindow() *Window {
	w := &Window{}
	empty := []Night{}
	w.snapshot.Store(&empty)
	return w
}

// Replace installs nights as the new window, sorted ascending by date.
// The previous snapshot is discarded wholesale; ingests never merge.
func (w *Window) Replace(nights []Night) {
	sorted := make([]Night, len(nights))
	copy(sorted, nights)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })
	w.snapshot.Store(&sorted)
}

// Recent returns up to limit of the most recent nights, ascending by date.
func (w *Window) Recent(limit int) []Night {
	nights := *w.snapshot.Load()
	if limit > 0 && len(nights) > limit {
		nights = nights[len(nights)-limit:]
	}
	return nights
}

func (w *Window) Len() int {
	return len(*w.snapshot.Load())
}
