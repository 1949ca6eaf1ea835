package pagination

import (
	"context"
	"sync"

	"munch-server/logger"
)

const DefaultPageSize = 20

type State int

const (
	Idle State = iota
	Fetching
	Exhausted
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Exhausted:
		return "exhausted"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Mode selects who drives LoadMore after a successful page.
type Mode int

const (
	// OnDemand fetches one page per LoadMore call.
	OnDemand Mode = iota
	// DrainAll keeps fetching until the stream is exhausted or a fetch fails.
	DrainAll
)

// Options configures a Paginator.
type Options[T any] struct {
	Mode Mode

	// KeyOf returns the sort key of an item. The cursor of the next request
	// is the key of the last item received.
	KeyOf func(T) Cursor

	// TrustServerCursor uses Page.NextCursor instead of KeyOf. Also the
	// fallback when KeyOf is nil.
	TrustServerCursor bool

	DefaultPageSize int

	// Handlers run on the fetching goroutine, after the state is updated
	// and before Wait returns.
	OnPage      func(newItems []T)
	OnFailure   func(err error)
	OnExhausted func(all []T)
}

// Paginator accumulates items from a Fetcher page after page. At most one
// fetch is in flight per paginator; results issued before a Reset are
// discarded.
type Paginator[T any] struct {
	fetcher Fetcher[T]
	opts    Options[T]

	mu         sync.Mutex
	state      State
	pageSize   int
	cursor     Cursor
	items      []T
	err        error
	generation uint64
	settled    chan struct{}
}

func New[T any](fetcher Fetcher[T], opts Options[T]) *Paginator[T] {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = DefaultPageSize
	}
	if opts.KeyOf == nil {
		opts.TrustServerCursor = true
	}
	return &Paginator[T]{
		fetcher: fetcher,
		opts:    opts,
	}
}

// Start clears everything fetched so far and issues the first fetch.
func (p *Paginator[T]) Start(ctx context.Context, pageSize int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.resetLocked()
	if pageSize <= 0 {
		pageSize = p.opts.DefaultPageSize
	}
	p.pageSize = pageSize
	p.issueLocked(ctx)
	return true
}

// LoadMore issues the next fetch. It does nothing and returns false while a
// fetch is in flight or once the stream is exhausted. From Failed it retries
// with the same cursor.
func (p *Paginator[T]) LoadMore(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == Fetching || p.state == Exhausted {
		return false
	}
	if p.pageSize <= 0 {
		p.pageSize = p.opts.DefaultPageSize
	}
	p.issueLocked(ctx)
	return true
}

// Reset drops accumulated items and makes any in-flight result stale.
func (p *Paginator[T]) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked()
}

// Wait blocks until no fetch is in flight. It returns the fetch error when
// the paginator ended up Failed.
func (p *Paginator[T]) Wait(ctx context.Context) error {
	p.mu.Lock()
	ch := p.settled
	p.mu.Unlock()

	if ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return p.Err()
}

// Items returns a copy of everything fetched so far, in page order.
func (p *Paginator[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

func (p *Paginator[T]) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Paginator[T]) Cursor() Cursor {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

// Err is the last fetch error while Failed, nil otherwise.
func (p *Paginator[T]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Failed {
		return nil
	}
	return p.err
}

func (p *Paginator[T]) resetLocked() {
	p.generation++
	p.closeSettledLocked()
	p.state = Idle
	p.cursor = NoCursor()
	p.items = nil
	p.err = nil
}

func (p *Paginator[T]) issueLocked(ctx context.Context) {
	p.state = Fetching
	p.err = nil
	if p.settled == nil {
		p.settled = make(chan struct{})
	}
	go p.fetch(ctx, p.generation, p.cursor, p.pageSize)
}

func (p *Paginator[T]) closeSettledLocked() {
	if p.settled != nil {
		close(p.settled)
		p.settled = nil
	}
}

func (p *Paginator[T]) fetch(ctx context.Context, generation uint64, cursor Cursor, pageSize int) {
	page, err := p.fetcher.FetchPage(ctx, cursor, pageSize)
	p.complete(ctx, generation, cursor, pageSize, page, err)
}

func (p *Paginator[T]) complete(ctx context.Context, generation uint64, cursor Cursor, pageSize int, page Page[T], err error) {
	log := logger.Component("Paginator")

	p.mu.Lock()
	if generation != p.generation {
		p.mu.Unlock()
		log.Debug().Uint64("generation", generation).Msg("discarding stale page")
		return
	}

	if err != nil {
		p.state = Failed
		p.err = err
		settled := p.takeSettledLocked()
		onFailure := p.opts.OnFailure
		p.mu.Unlock()

		log.Warn().Err(err).Str("cursor", cursor.String()).Msg("page fetch failed")
		if onFailure != nil {
			onFailure(err)
		}
		release(settled)
		return
	}

	p.items = append(p.items, page.Items...)
	next := p.nextCursor(cursor, page)
	if len(page.Items) > 0 {
		p.cursor = next
	}

	switch {
	case len(page.Items) < pageSize:
		p.state = Exhausted
	case !next.IsSet() || next == cursor:
		log.Warn().Str("cursor", cursor.String()).Msg("full page did not advance the cursor, stopping")
		p.state = Exhausted
	default:
		p.state = Idle
	}

	var all []T
	var settled chan struct{}
	drainNext := false
	switch {
	case p.state == Exhausted:
		all = make([]T, len(p.items))
		copy(all, p.items)
		settled = p.takeSettledLocked()
	case p.opts.Mode == DrainAll:
		// Stays Fetching so LoadMore cannot slip in before the next page.
		p.state = Fetching
		drainNext = true
	default:
		settled = p.takeSettledLocked()
	}
	onPage, onExhausted := p.opts.OnPage, p.opts.OnExhausted
	p.mu.Unlock()

	if onPage != nil {
		onPage(page.Items)
	}
	if all != nil && onExhausted != nil {
		onExhausted(all)
	}
	release(settled)

	if drainNext {
		p.mu.Lock()
		if generation == p.generation && p.state == Fetching {
			p.issueLocked(ctx)
		}
		p.mu.Unlock()
	}
}

// takeSettledLocked detaches the settled channel so a fetch issued from a
// handler gets a fresh one. The caller closes the returned channel.
func (p *Paginator[T]) takeSettledLocked() chan struct{} {
	ch := p.settled
	p.settled = nil
	return ch
}

func release(ch chan struct{}) {
	if ch != nil {
		close(ch)
	}
}

func (p *Paginator[T]) nextCursor(current Cursor, page Page[T]) Cursor {
	if p.opts.TrustServerCursor {
		return page.NextCursor
	}
	if len(page.Items) == 0 {
		return current
	}
	return p.opts.KeyOf(page.Items[len(page.Items)-1])
}

// Drain fetches every page and returns the full list. The list is empty,
// not nil, when the source has no items.
func Drain[T any](ctx context.Context, fetcher Fetcher[T], pageSize int, keyOf func(T) Cursor) ([]T, error) {
	p := New(fetcher, Options[T]{Mode: DrainAll, KeyOf: keyOf})
	p.Start(ctx, pageSize)
	if err := p.Wait(ctx); err != nil {
		p.Reset()
		return nil, err
	}
	return p.Items(), nil
}
