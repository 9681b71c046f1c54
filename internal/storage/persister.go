package storage

import "context"

// Batch sizes for the append-only persistence path. Heart-rate samples
// arrive far denser than sleep intervals, hence the asymmetry.
const (
	HeartRateBatchSize = 2000
	SleepBatchSize     = 1000
)

// Persister buffers classified samples and flushes each buffer via one
// bulk insert when it fills, plus a final Flush for the remainder.
// Not safe for concurrent use; one ingest owns one Persister.
type Persister struct {
	store SampleStore

	hr    []HeartRateSample
	sleep []SleepEpoch

	hrPersisted    int
	sleepPersisted int
}

func NewPersister(store SampleStore) *Persister {
	return &Persister{
		store: store,
		hr:    make([]HeartRateSample, 0, HeartRateBatchSize),
		sleep: make([]SleepEpoch, 0, SleepBatchSize),
	}
}

func (p *Persister) AddHeartRate(ctx context.Context, sample HeartRateSample) error {
	p.hr = append(p.hr, sample)
	if len(p.hr) < HeartRateBatchSize {
		return nil
	}
	return p.flushHeartRates(ctx)
}

func (p *Persister) AddSleep(ctx context.Context, epoch SleepEpoch) error {
	p.sleep = append(p.sleep, epoch)
	if len(p.sleep) < SleepBatchSize {
		return nil
	}
	return p.flushSleep(ctx)
}

// Flush writes any buffered remainder.
func (p *Persister) Flush(ctx context.Context) error {
	if err := p.flushHeartRates(ctx); err != nil {
		return err
	}
	return p.flushSleep(ctx)
}

// Persisted reports how many rows of each kind have been written so far.
func (p *Persister) Persisted() (heartRates, sleepEpochs int) {
	return p.hrPersisted, p.sleepPersisted
}

func (p *Persister) flushHeartRates(ctx context.Context) error {
	if len(p.hr) == 0 {
		return nil
	}
	if err := p.store.InsertHeartRates(ctx, p.hr); err != nil {
		return err
	}
	p.hrPersisted += len(p.hr)
	p.hr = p.hr[:0]
	return nil
}

func (p *Persister) flushSleep(ctx context.Context) error {
	if len(p.sleep) == 0 {
		return nil
	}
	if err := p.store.InsertSleepEpochs(ctx, p.sleep); err != nil {
		return err
	}
	p.sleepPersisted += len(p.sleep)
	p.sleep = p.sleep[:0]
	return nil
}
