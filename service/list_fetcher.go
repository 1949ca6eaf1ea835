package services

import (
	"context"

	"munch-server/models"
	"munch-server/pagination"
)

// listCall is one paged endpoint of the places API bound to its path params.
type listCall[T any] func(ctx context.Context, maxSortKey *int64, size int) (*models.ListResponse[T], error)

// listFetcher adapts a paged API call to a pagination.Fetcher. The cursor
// key becomes the exclusive maxSortKey of the request.
func listFetcher[T any](call listCall[T]) pagination.FetchFunc[T] {
	return func(ctx context.Context, cursor pagination.Cursor, pageSize int) (pagination.Page[T], error) {
		var maxSortKey *int64
		if k, ok := cursor.Key(); ok {
			maxSortKey = &k
		}
		resp, err := call(ctx, maxSortKey, pageSize)
		if err != nil {
			return pagination.Page[T]{}, err
		}
		return pagination.Page[T]{
			Items:      resp.Data,
			NextCursor: pagination.FromPtr(resp.Next),
		}, nil
	}
}

func placeKey(p models.Place) pagination.Cursor { return pagination.At(p.SortKey) }

func collectionKey(c models.Collection) pagination.Cursor { return pagination.At(c.SortKey) }

func collectionPlaceKey(cp models.CollectionPlace) pagination.Cursor {
	return pagination.At(cp.SortKey)
}

func contentItemKey(it models.ContentItem) pagination.Cursor { return pagination.At(it.SortKey) }
