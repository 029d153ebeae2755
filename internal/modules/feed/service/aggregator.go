package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/reshetovitsme/transfer-pulse/internal/modules/adapter"
	"github.com/reshetovitsme/transfer-pulse/internal/modules/feed/domain"
	itemDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/item/domain"
	sourceDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/source/domain"
	"github.com/reshetovitsme/transfer-pulse/internal/shared/errors"
	"golang.org/x/sync/errgroup"
)

// Refresh cycle outcomes reported to the Recorder
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultSkipped = "skipped"
)

// SourceLister returns the sources enabled for the next cycle
type SourceLister interface {
	Active() []sourceDomain.Source
}

// Recorder receives cycle metrics
type Recorder interface {
	ObserveRefresh(result string, elapsed time.Duration)
	SetDisplayed(n int)
	SetSourceItems(sourceID string, n int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRefresh(string, time.Duration) {}
func (nopRecorder) SetDisplayed(int)                     {}
func (nopRecorder) SetSourceItems(string, int)           {}

// Options tunes the aggregator
type Options struct {
	Interval time.Duration
	Timeout  time.Duration
	Recorder Recorder
}

// Aggregator owns the displayed item list and runs refresh cycles
type Aggregator struct {
	sources  SourceLister
	fetcher  adapter.Adapter
	recorder Recorder
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time

	state    domain.State
	mu       sync.RWMutex
	inFlight atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	life   sync.Mutex
}

// New creates an aggregator over the given sources and adapter
func New(sources SourceLister, fetcher adapter.Adapter, opts Options) *Aggregator {
	if opts.Interval <= 0 {
		opts.Interval = 240 * time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Aggregator{
		sources:  sources,
		fetcher:  fetcher,
		recorder: opts.Recorder,
		interval: opts.Interval,
		timeout:  opts.Timeout,
		now:      time.Now,
		state:    domain.Initial(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Snapshot returns the current state. Items are replaced wholesale, never
// mutated, so the returned slice is safe to read.
func (a *Aggregator) Snapshot() domain.State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// InFlight reports whether a cycle is running
func (a *Aggregator) InFlight() bool {
	return a.inFlight.Load()
}

// Start runs an initial refresh and then one every interval until Stop
func (a *Aggregator) Start(ctx context.Context) {
	if !a.track() {
		return
	}
	go a.refreshLoop(ctx)
}

// Stop ends the scheduler, aborts an in-flight cycle and waits for it.
// No cycle starts after Stop.
func (a *Aggregator) Stop() {
	a.life.Lock()
	a.cancel()
	a.life.Unlock()
	a.wg.Wait()
}

// Refresh runs one cycle synchronously. It returns ErrRefreshInProgress
// without side effects when another cycle is running. The cycle is aborted
// by either ctx or Stop.
func (a *Aggregator) Refresh(ctx context.Context) error {
	if !a.track() {
		return a.ctx.Err()
	}
	defer a.wg.Done()

	if !a.acquire() {
		return errors.ErrRefreshInProgress
	}
	defer a.inFlight.Store(false)

	cycleCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(a.ctx, cancel)
	defer stop()

	return a.runCycle(cycleCtx)
}

// Trigger starts a cycle in the background and returns immediately
func (a *Aggregator) Trigger() error {
	if !a.track() {
		return a.ctx.Err()
	}
	if !a.acquire() {
		a.wg.Done()
		return errors.ErrRefreshInProgress
	}

	go func() {
		defer a.wg.Done()
		defer a.inFlight.Store(false)
		_ = a.runCycle(a.ctx)
	}()
	return nil
}

// track registers work with Stop. It fails once Stop has been called.
func (a *Aggregator) track() bool {
	a.life.Lock()
	defer a.life.Unlock()
	if a.ctx.Err() != nil {
		return false
	}
	a.wg.Add(1)
	return true
}

func (a *Aggregator) acquire() bool {
	if a.inFlight.CompareAndSwap(false, true) {
		return true
	}
	slog.Debug("Refresh skipped, cycle already in flight")
	a.recorder.ObserveRefresh(ResultSkipped, 0)
	return false
}

func (a *Aggregator) refreshLoop(ctx context.Context) {
	defer a.wg.Done()

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	// Initial refresh
	a.tick(ctx)

	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.tick(ctx)
		}
	}
}

func (a *Aggregator) tick(ctx context.Context) {
	if err := a.Refresh(ctx); err != nil && !errors.Is(err, errors.ErrRefreshInProgress) {
		slog.Debug("Scheduled refresh failed", "error", err)
	}
}

// runCycle expects the in-flight flag to be held by the caller
func (a *Aggregator) runCycle(ctx context.Context) error {
	start := a.now()

	a.mu.Lock()
	a.state = domain.Begin(a.state)
	cycleID := a.state.CycleID
	a.mu.Unlock()

	sources := a.sources.Active()
	results, err := a.collect(ctx, sources)

	result := domain.CycleResult{CycleID: cycleID, Err: err, At: a.now()}
	if err == nil {
		result.Items = domain.Pipeline(results)
	}

	a.mu.Lock()
	a.state = domain.Apply(a.state, result)
	displayed := len(a.state.Items)
	a.mu.Unlock()

	elapsed := a.now().Sub(start)
	if err != nil {
		slog.Error("Refresh cycle failed", "cycle_id", cycleID, "sources", len(sources), "error", err)
		a.recorder.ObserveRefresh(ResultFailure, elapsed)
		return err
	}

	for i, src := range sources {
		a.recorder.SetSourceItems(src.ID, len(results[i]))
	}
	a.recorder.SetDisplayed(displayed)
	a.recorder.ObserveRefresh(ResultSuccess, elapsed)
	slog.Info("Feed refreshed", "cycle_id", cycleID, "sources", len(sources), "items", displayed, "elapsed", elapsed)
	return nil
}

// collect fetches every source concurrently. Results keep source order;
// any failure fails the whole cycle.
func (a *Aggregator) collect(ctx context.Context, sources []sourceDomain.Source) ([][]itemDomain.Item, error) {
	results := make([][]itemDomain.Item, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(gctx, a.timeout)
			defer cancel()

			items, err := a.fetcher.Fetch(fetchCtx, src)
			if err != nil {
				return err
			}
			results[i] = items
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
