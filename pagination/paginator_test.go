package pagination

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	SortKey int64
}

func keyOf(i item) Cursor { return At(i.SortKey) }

// descendingSource serves keys n..1, each page starting below the cursor.
type descendingSource struct {
	mu      sync.Mutex
	n       int64
	cursors []Cursor
}

func (s *descendingSource) FetchPage(_ context.Context, cursor Cursor, pageSize int) (Page[item], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors = append(s.cursors, cursor)

	start := s.n
	if k, ok := cursor.Key(); ok {
		start = k - 1
	}
	var items []item
	for k := start; k >= 1 && len(items) < pageSize; k-- {
		items = append(items, item{SortKey: k})
	}
	return Page[item]{Items: items}, nil
}

func (s *descendingSource) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cursors)
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestDrainAll_ShortPageExhausts(t *testing.T) {
	src := &descendingSource{n: 24}
	ctx := waitCtx(t)

	var exhausted []item
	p := New[item](src, Options[item]{
		Mode:        DrainAll,
		KeyOf:       keyOf,
		OnExhausted: func(all []item) { exhausted = all },
	})
	p.Start(ctx, 10)
	require.NoError(t, p.Wait(ctx))

	assert.Equal(t, Exhausted, p.State())
	assert.Len(t, p.Items(), 24)
	assert.Equal(t, 3, src.calls())
	assert.Len(t, exhausted, 24)
	assert.Equal(t, []Cursor{NoCursor(), At(15), At(5)}, src.cursors)

	items := p.Items()
	for i := 1; i < len(items); i++ {
		assert.Greater(t, items[i-1].SortKey, items[i].SortKey)
	}
}

func TestDrain_EmptySource(t *testing.T) {
	ctx := waitCtx(t)
	items, err := Drain[item](ctx, &descendingSource{n: 0}, 10, keyOf)

	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestDrain_ExactMultipleNeedsEmptyPage(t *testing.T) {
	src := &descendingSource{n: 20}
	items, err := Drain[item](waitCtx(t), src, 10, keyOf)

	require.NoError(t, err)
	assert.Len(t, items, 20)
	assert.Equal(t, 3, src.calls())
}

func TestOnDemand_OnePagePerLoadMore(t *testing.T) {
	src := &descendingSource{n: 25}
	ctx := waitCtx(t)

	p := New[item](src, Options[item]{KeyOf: keyOf})
	p.Start(ctx, 10)
	require.NoError(t, p.Wait(ctx))
	assert.Equal(t, Idle, p.State())
	assert.Len(t, p.Items(), 10)
	assert.Equal(t, At(16), p.Cursor())

	require.True(t, p.LoadMore(ctx))
	require.NoError(t, p.Wait(ctx))
	assert.Len(t, p.Items(), 20)

	require.True(t, p.LoadMore(ctx))
	require.NoError(t, p.Wait(ctx))
	assert.Len(t, p.Items(), 25)
	assert.Equal(t, Exhausted, p.State())

	assert.False(t, p.LoadMore(ctx))
	assert.Equal(t, 3, src.calls())
}

// gatedSource blocks every fetch after the first `free` until released.
type gatedSource struct {
	inner   *descendingSource
	free    int32
	calls   int32
	started chan struct{}
	release chan struct{}
}

func (g *gatedSource) FetchPage(ctx context.Context, cursor Cursor, pageSize int) (Page[item], error) {
	n := atomic.AddInt32(&g.calls, 1)
	if n > g.free {
		g.started <- struct{}{}
		<-g.release
	}
	return g.inner.FetchPage(ctx, cursor, pageSize)
}

func TestLoadMore_NoDuplicateWhileFetching(t *testing.T) {
	g := &gatedSource{
		inner:   &descendingSource{n: 30},
		free:    1,
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	ctx := waitCtx(t)

	p := New[item](g, Options[item]{KeyOf: keyOf})
	p.Start(ctx, 10)
	require.NoError(t, p.Wait(ctx))

	assert.True(t, p.LoadMore(ctx))
	<-g.started
	assert.False(t, p.LoadMore(ctx))
	assert.False(t, p.LoadMore(ctx))
	assert.Equal(t, Fetching, p.State())

	close(g.release)
	require.NoError(t, p.Wait(ctx))

	assert.Equal(t, int32(2), atomic.LoadInt32(&g.calls))
	assert.Len(t, p.Items(), 20)
}

// scriptedSource returns canned results in order and records cursors.
type scriptedSource struct {
	mu      sync.Mutex
	results []func() (Page[item], error)
	cursors []Cursor
}

func (s *scriptedSource) FetchPage(_ context.Context, cursor Cursor, _ int) (Page[item], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors = append(s.cursors, cursor)
	next := s.results[0]
	s.results = s.results[1:]
	return next()
}

func pageOf(keys ...int64) Page[item] {
	items := make([]item, 0, len(keys))
	for _, k := range keys {
		items = append(items, item{SortKey: k})
	}
	return Page[item]{Items: items}
}

func TestFailure_RetriesSameCursor(t *testing.T) {
	boom := errors.New("upstream unavailable")
	src := &scriptedSource{results: []func() (Page[item], error){
		func() (Page[item], error) { return pageOf(9, 8, 7), nil },
		func() (Page[item], error) { return Page[item]{}, boom },
		func() (Page[item], error) { return pageOf(6), nil },
	}}
	ctx := waitCtx(t)

	var failures []error
	var mu sync.Mutex
	p := New[item](src, Options[item]{
		KeyOf: keyOf,
		OnFailure: func(err error) {
			mu.Lock()
			defer mu.Unlock()
			failures = append(failures, err)
		},
	})
	p.Start(ctx, 3)
	require.NoError(t, p.Wait(ctx))

	require.True(t, p.LoadMore(ctx))
	err := p.Wait(ctx)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, Failed, p.State())
	assert.Len(t, p.Items(), 3)

	require.True(t, p.LoadMore(ctx))
	require.NoError(t, p.Wait(ctx))
	assert.Equal(t, Exhausted, p.State())
	assert.Len(t, p.Items(), 4)

	require.Len(t, src.cursors, 3)
	assert.Equal(t, At(7), src.cursors[1])
	assert.Equal(t, src.cursors[1], src.cursors[2])

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []error{boom}, failures)
}

func TestDrainAll_StopsOnFailure(t *testing.T) {
	boom := errors.New("timeout")
	src := &scriptedSource{results: []func() (Page[item], error){
		func() (Page[item], error) { return pageOf(4, 3), nil },
		func() (Page[item], error) { return Page[item]{}, boom },
	}}

	items, err := Drain[item](waitCtx(t), src, 2, keyOf)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, items)
}

func TestReset_DiscardsStaleResult(t *testing.T) {
	g := &gatedSource{
		inner:   &descendingSource{n: 5},
		free:    0,
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	ctx := waitCtx(t)

	var pages int32
	p := New[item](g, Options[item]{
		KeyOf:  keyOf,
		OnPage: func([]item) { atomic.AddInt32(&pages, 1) },
	})
	p.Start(ctx, 10)
	<-g.started
	p.Reset()
	close(g.release)

	// Give the stale goroutine a chance to deliver.
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, Idle, p.State())
	assert.Empty(t, p.Items())
	assert.Equal(t, int32(0), atomic.LoadInt32(&pages))
}

func TestTrustServerCursor(t *testing.T) {
	src := &scriptedSource{results: []func() (Page[item], error){
		func() (Page[item], error) {
			pg := pageOf(100, 99)
			pg.NextCursor = At(42)
			return pg, nil
		},
		func() (Page[item], error) { return pageOf(41), nil },
	}}

	items, err := Drain[item](waitCtx(t), src, 2, nil)
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, []Cursor{NoCursor(), At(42)}, src.cursors)
}

func TestFullPageWithoutProgressStops(t *testing.T) {
	src := &scriptedSource{results: []func() (Page[item], error){
		func() (Page[item], error) { return pageOf(5, 4), nil },
		func() (Page[item], error) { return pageOf(5, 4), nil },
	}}

	items, err := Drain[item](waitCtx(t), src, 2, func(i item) Cursor { return At(4) })
	require.NoError(t, err)
	assert.Len(t, items, 4)
	assert.Len(t, src.cursors, 2)
}

func TestCursor(t *testing.T) {
	assert.False(t, NoCursor().IsSet())
	assert.Equal(t, "", NoCursor().String())

	k := int64(17)
	c := FromPtr(&k)
	key, ok := c.Key()
	assert.True(t, ok)
	assert.Equal(t, int64(17), key)
	assert.Equal(t, "17", c.String())
	assert.Equal(t, NoCursor(), FromPtr(nil))
}
