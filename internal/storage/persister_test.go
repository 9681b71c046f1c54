package storage

import (
	"context"
	"errors"
	"testing"
)

type fakeStore struct {
	hrBatches    []int
	sleepBatches []int
	failHR       error
}

func (f *fakeStore) InsertHeartRates(_ context.Context, samples []HeartRateSample) error {
	if f.failHR != nil {
		return f.failHR
	}
	f.hrBatches = append(f.hrBatches, len(samples))
	return nil
}

func (f *fakeStore) InsertSleepEpochs(_ context.Context, epochs []SleepEpoch) error {
	f.sleepBatches = append(f.sleepBatches, len(epochs))
	return nil
}

func (f *fakeStore) Close() error { return nil }

func TestPersisterFlushesFullBatches(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	p := NewPersister(store)
	ctx := t.Context()

	for i := range HeartRateBatchSize*2 + 5 {
		if err := p.AddHeartRate(ctx, HeartRateSample{TS: int64(i), Value: 60}); err != nil {
			t.Fatalf("AddHeartRate() error = %v", err)
		}
	}
	for i := range SleepBatchSize + 3 {
		if err := p.AddSleep(ctx, SleepEpoch{StartTS: int64(i), EndTS: int64(i + 1), Stage: "ASLEEP"}); err != nil {
			t.Fatalf("AddSleep() error = %v", err)
		}
	}

	if len(store.hrBatches) != 2 {
		t.Fatalf("hr batches before Flush = %d, want 2", len(store.hrBatches))
	}
	for _, size := range store.hrBatches {
		if size != HeartRateBatchSize {
			t.Errorf("hr batch size = %d, want %d", size, HeartRateBatchSize)
		}
	}
	if len(store.sleepBatches) != 1 || store.sleepBatches[0] != SleepBatchSize {
		t.Fatalf("sleep batches before Flush = %v, want one of %d", store.sleepBatches, SleepBatchSize)
	}

	if err := p.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if got := store.hrBatches[len(store.hrBatches)-1]; got != 5 {
		t.Errorf("final hr batch = %d, want remainder 5", got)
	}
	if got := store.sleepBatches[len(store.sleepBatches)-1]; got != 3 {
		t.Errorf("final sleep batch = %d, want remainder 3", got)
	}

	hr, sleep := p.Persisted()
	if hr != HeartRateBatchSize*2+5 || sleep != SleepBatchSize+3 {
		t.Errorf("Persisted() = (%d, %d), want (%d, %d)", hr, sleep, HeartRateBatchSize*2+5, SleepBatchSize+3)
	}
}

func TestPersisterFlushEmptyIsNoop(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	p := NewPersister(store)

	if err := p.Flush(t.Context()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if len(store.hrBatches) != 0 || len(store.sleepBatches) != 0 {
		t.Errorf("empty Flush() wrote batches: %v %v", store.hrBatches, store.sleepBatches)
	}
}

func TestPersisterPropagatesStoreError(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("disk full")
	store := &fakeStore{failHR: sentinel}
	p := NewPersister(store)
	ctx := t.Context()

	var err error
	for i := range HeartRateBatchSize {
		if err = p.AddHeartRate(ctx, HeartRateSample{TS: int64(i)}); err != nil {
			break
		}
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("AddHeartRate() error = %v, want sentinel at batch boundary", err)
	}
}
