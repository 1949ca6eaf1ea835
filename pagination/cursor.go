package pagination

import (
	"context"
	"strconv"
)

// Cursor is an opaque position in a paged collection. The zero value means
// "start from the beginning".
type Cursor struct {
	key int64
	set bool
}

// NoCursor is the cursor of the first request.
func NoCursor() Cursor { return Cursor{} }

// At returns the cursor positioned at a sort key.
func At(sortKey int64) Cursor { return Cursor{key: sortKey, set: true} }

// FromPtr converts an optional sort key as found in API payloads.
func FromPtr(sortKey *int64) Cursor {
	if sortKey == nil {
		return NoCursor()
	}
	return At(*sortKey)
}

func (c Cursor) IsSet() bool { return c.set }

func (c Cursor) Key() (int64, bool) { return c.key, c.set }

func (c Cursor) String() string {
	if !c.set {
		return ""
	}
	return strconv.FormatInt(c.key, 10)
}

// Page is one batch returned by a Fetcher.
type Page[T any] struct {
	Items      []T
	NextCursor Cursor
}

// Fetcher loads one page starting after cursor. Timeouts and retries of the
// underlying transport are the fetcher's business.
type Fetcher[T any] interface {
	FetchPage(ctx context.Context, cursor Cursor, pageSize int) (Page[T], error)
}

// FetchFunc adapts a function to Fetcher.
type FetchFunc[T any] func(ctx context.Context, cursor Cursor, pageSize int) (Page[T], error)

func (f FetchFunc[T]) FetchPage(ctx context.Context, cursor Cursor, pageSize int) (Page[T], error) {
	return f(ctx, cursor, pageSize)
}
