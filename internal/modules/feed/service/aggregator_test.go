package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/reshetovitsme/transfer-pulse/internal/modules/feed/domain"
	itemDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/item/domain"
	sourceDomain "github.com/reshetovitsme/transfer-pulse/internal/modules/source/domain"
	"github.com/reshetovitsme/transfer-pulse/internal/modules/source/registry"
	sourceService "github.com/reshetovitsme/transfer-pulse/internal/modules/source/service"
	"github.com/reshetovitsme/transfer-pulse/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

type stubFetcher struct {
	mu      sync.Mutex
	items   map[string][]itemDomain.Item
	errs    map[string]error
	block   chan struct{}
	started chan struct{}
	calls   []string
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		items: map[string][]itemDomain.Item{},
		errs:  map[string]error{},
	}
}

func (f *stubFetcher) set(id string, items []itemDomain.Item, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[id] = items
	f.errs[id] = err
}

func (f *stubFetcher) Fetch(ctx context.Context, src sourceDomain.Source) ([]itemDomain.Item, error) {
	f.mu.Lock()
	f.calls = append(f.calls, src.ID)
	items, err, block, started := f.items[src.ID], f.errs[src.ID], f.block, f.started
	f.mu.Unlock()

	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, errors.NewSourceError(src.ID, src.Name, ctx.Err())
		}
	}
	if err != nil {
		return nil, errors.NewSourceError(src.ID, src.Name, err)
	}
	return items, nil
}

type recordedCycles struct {
	mu        sync.Mutex
	results   []string
	displayed int
	perSource map[string]int
}

func (r *recordedCycles) ObserveRefresh(result string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
}

func (r *recordedCycles) SetDisplayed(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.displayed = n
}

func (r *recordedCycles) SetSourceItems(id string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.perSource == nil {
		r.perSource = map[string]int{}
	}
	r.perSource[id] = n
}

func (r *recordedCycles) Results() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.results...)
}

func testSources() []sourceDomain.Source {
	return []sourceDomain.Source{
		{ID: "a", Name: "Source A", Type: sourceDomain.SourceTypeRss, URL: "https://a.example/rss"},
		{ID: "b", Name: "Source B", Type: sourceDomain.SourceTypeRss, URL: "https://b.example/rss"},
	}
}

func newAggregator(t *testing.T, fetcher *stubFetcher) (*Aggregator, *sourceService.Service, *recordedCycles) {
	t.Helper()
	reg, err := registry.New(testSources())
	require.NoError(t, err)
	sources := sourceService.New(reg)
	rec := &recordedCycles{}

	agg := New(sources, fetcher, Options{Interval: time.Hour, Timeout: time.Second, Recorder: rec})
	t.Cleanup(agg.Stop)
	return agg, sources, rec
}

func feedItem(id, title, link string, age time.Duration) itemDomain.Item {
	return itemDomain.Item{ID: id, Title: title, Link: link, PubDate: t0.Add(-age), Label: itemDomain.LabelNews}
}

func itemIDs(items []itemDomain.Item) []string {
	return lo.Map(items, func(it itemDomain.Item, _ int) string { return it.ID })
}

func TestRefreshMergesDedupesAndSorts(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.set("a", []itemDomain.Item{
		feedItem("a-1", "Rice joins Arsenal", "https://news.example/1", 2*time.Hour),
		feedItem("a-2", "Loan agreed", "https://news.example/2", 10*time.Minute),
	}, nil)
	fetcher.set("b", []itemDomain.Item{
		feedItem("b-1", "RICE joins  Arsenal", "https://news.example/other", 0),
		feedItem("b-2", "Manager talks", "https://b.example/3", time.Hour),
	}, nil)

	agg, _, rec := newAggregator(t, fetcher)
	require.NoError(t, agg.Refresh(context.Background()))

	state := agg.Snapshot()
	assert.Equal(t, domain.StatusIdle, state.Status)
	assert.Empty(t, state.Error)
	assert.Equal(t, []string{"a-2", "b-2", "a-1"}, itemIDs(state.Items))
	assert.False(t, state.UpdatedAt.IsZero())

	assert.Equal(t, []string{ResultSuccess}, rec.Results())
	assert.Equal(t, 3, rec.displayed)
	assert.Equal(t, map[string]int{"a": 2, "b": 2}, rec.perSource)
}

func TestRefreshFailureKeepsPreviousItems(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.set("a", []itemDomain.Item{feedItem("a-1", "One", "https://a.example/1", 0)}, nil)
	fetcher.set("b", []itemDomain.Item{feedItem("b-1", "Two", "https://b.example/1", 0)}, nil)

	agg, _, rec := newAggregator(t, fetcher)
	require.NoError(t, agg.Refresh(context.Background()))
	before := agg.Snapshot()

	fetcher.set("a", []itemDomain.Item{feedItem("a-9", "New", "https://a.example/9", 0)}, nil)
	fetcher.set("b", nil, fmt.Errorf("HTTP 500"))

	err := agg.Refresh(context.Background())
	require.Error(t, err)

	var srcErr *errors.SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, "b", srcErr.SourceID)

	after := agg.Snapshot()
	assert.Equal(t, before.Items, after.Items)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	assert.Equal(t, domain.FailureMessage, after.Error)
	assert.Equal(t, domain.StatusIdle, after.Status)
	assert.Equal(t, []string{ResultSuccess, ResultFailure}, rec.Results())
}

func TestToggleAffectsOnlyNextCycle(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.set("a", []itemDomain.Item{feedItem("a-1", "One", "https://a.example/1", 0)}, nil)
	fetcher.set("b", []itemDomain.Item{feedItem("b-1", "Two", "https://b.example/1", time.Minute)}, nil)

	agg, sources, _ := newAggregator(t, fetcher)
	require.NoError(t, agg.Refresh(context.Background()))

	_, err := sources.Toggle("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a-1", "b-1"}, itemIDs(agg.Snapshot().Items), "displayed items are untouched by a toggle")

	require.NoError(t, agg.Refresh(context.Background()))
	assert.Equal(t, []string{"a-1"}, itemIDs(agg.Snapshot().Items))

	active, err := sources.Toggle("b")
	require.NoError(t, err)
	assert.True(t, active)
	assert.Equal(t, []string{"a-1"}, itemIDs(agg.Snapshot().Items))

	require.NoError(t, agg.Refresh(context.Background()))
	assert.Equal(t, []string{"a-1", "b-1"}, itemIDs(agg.Snapshot().Items))
}

func TestOverlappingRefreshIsIgnored(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.set("a", []itemDomain.Item{feedItem("a-1", "One", "https://a.example/1", 0)}, nil)
	fetcher.set("b", nil, nil)
	fetcher.block = make(chan struct{})
	fetcher.started = make(chan struct{}, 1)

	agg, _, rec := newAggregator(t, fetcher)

	done := make(chan error, 1)
	go func() { done <- agg.Refresh(context.Background()) }()
	<-fetcher.started

	assert.True(t, agg.InFlight())
	assert.Equal(t, domain.StatusLoading, agg.Snapshot().Status)
	assert.ErrorIs(t, agg.Refresh(context.Background()), errors.ErrRefreshInProgress)
	assert.ErrorIs(t, agg.Trigger(), errors.ErrRefreshInProgress)

	close(fetcher.block)
	require.NoError(t, <-done)
	assert.Equal(t, uint64(1), agg.Snapshot().CycleID)
	assert.Equal(t, []string{ResultSkipped, ResultSkipped, ResultSuccess}, rec.Results())
}

func TestTriggerRunsInBackground(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.set("a", []itemDomain.Item{feedItem("a-1", "One", "https://a.example/1", 0)}, nil)

	agg, _, _ := newAggregator(t, fetcher)
	require.NoError(t, agg.Trigger())

	require.Eventually(t, func() bool {
		s := agg.Snapshot()
		return !agg.InFlight() && s.Status == domain.StatusIdle && len(s.Items) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestStopAbortsInFlightCycle(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.set("a", []itemDomain.Item{feedItem("a-1", "One", "https://a.example/1", 0)}, nil)
	fetcher.block = make(chan struct{})
	fetcher.started = make(chan struct{}, 1)

	agg, _, rec := newAggregator(t, fetcher)
	require.NoError(t, agg.Trigger())
	<-fetcher.started

	agg.Stop()

	state := agg.Snapshot()
	assert.Equal(t, domain.FailureMessage, state.Error)
	assert.Empty(t, state.Items)
	assert.Equal(t, []string{ResultFailure}, rec.Results())
}

func TestStopWaitsForSynchronousRefresh(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.set("a", []itemDomain.Item{feedItem("a-1", "One", "https://a.example/1", 0)}, nil)
	fetcher.block = make(chan struct{})
	fetcher.started = make(chan struct{}, 1)

	agg, _, rec := newAggregator(t, fetcher)

	done := make(chan error, 1)
	go func() { done <- agg.Refresh(context.Background()) }()
	<-fetcher.started

	agg.Stop()

	assert.False(t, agg.InFlight(), "Stop returned before the refresh finished")
	assert.Equal(t, domain.FailureMessage, agg.Snapshot().Error)
	assert.Equal(t, []string{ResultFailure}, rec.Results())
	assert.Error(t, <-done)

	assert.ErrorIs(t, agg.Refresh(context.Background()), context.Canceled)
	assert.ErrorIs(t, agg.Trigger(), context.Canceled)
	assert.Equal(t, uint64(1), agg.Snapshot().CycleID, "no cycle starts after Stop")
}

func TestStartRunsInitialRefresh(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.set("a", []itemDomain.Item{feedItem("a-1", "One", "https://a.example/1", 0)}, nil)

	agg, _, _ := newAggregator(t, fetcher)
	agg.Start(context.Background())

	require.Eventually(t, func() bool {
		return agg.Snapshot().CycleID == 1 && !agg.InFlight()
	}, time.Second, 5*time.Millisecond)
	agg.Stop()
	assert.Len(t, agg.Snapshot().Items, 1)
}

func TestFetchTimeoutFailsCycle(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.block = make(chan struct{})

	reg, err := registry.New(testSources())
	require.NoError(t, err)
	agg := New(sourceService.New(reg), fetcher, Options{Timeout: 20 * time.Millisecond})
	t.Cleanup(agg.Stop)

	err = agg.Refresh(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, domain.FailureMessage, agg.Snapshot().Error)
}
