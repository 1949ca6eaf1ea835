package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"munch-server/api/places"
	"munch-server/logger"
	"munch-server/metrics"
	"munch-server/models"
	"munch-server/pagination"
)

var ErrFeedNotFound = errors.New("feed session not found")

// FeedPage is what a client sees after opening or advancing a feed.
type FeedPage struct {
	ID       string         `json:"id"`
	Query    string         `json:"query"`
	State    string         `json:"state"`
	Items    []models.Place `json:"items"`
	NewItems []models.Place `json:"new_items"`
}

type feedSession struct {
	query      string
	paginator  *pagination.Paginator[models.Place]
	lastAccess time.Time
}

// FeedService keeps one on-demand paginator per search session. Sessions
// idle for longer than the ttl are dropped on the next access.
type FeedService struct {
	placesApi places.PlacesAPI
	pageSize  int
	ttl       time.Duration
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*feedSession
}

func NewFeedService(placesApi places.PlacesAPI, pageSize int, ttl time.Duration) *FeedService {
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	return &FeedService{
		placesApi: placesApi,
		pageSize:  pageSize,
		ttl:       ttl,
		now:       time.Now,
		sessions:  make(map[string]*feedSession),
	}
}

// Open starts a search feed and returns its first page. A session whose
// first page fails is not kept.
func (fs *FeedService) Open(ctx context.Context, query string) (*FeedPage, error) {
	log := logger.Component("FeedService")

	fetch := listFetcher[models.Place](func(ctx context.Context, maxSortKey *int64, size int) (*models.ListResponse[models.Place], error) {
		return fs.placesApi.SearchPlaces(ctx, query, maxSortKey, size)
	})
	p := pagination.New[models.Place](fetch, pagination.Options[models.Place]{
		Mode:            pagination.OnDemand,
		KeyOf:           placeKey,
		DefaultPageSize: fs.pageSize,
		OnExhausted: func(all []models.Place) {
			metrics.RecordExhausted("search")
		},
	})

	p.Start(ctx, fs.pageSize)
	if err := p.Wait(ctx); err != nil {
		p.Reset()
		return nil, err
	}

	id := uuid.NewString()
	fs.mu.Lock()
	fs.evictLocked()
	fs.sessions[id] = &feedSession{query: query, paginator: p, lastAccess: fs.now()}
	active := len(fs.sessions)
	fs.mu.Unlock()
	metrics.SetFeedSessionsActive(active)

	log.Debug().Str("feed_id", id).Str("query", query).Msg("feed opened")
	items := p.Items()
	return &FeedPage{ID: id, Query: query, State: p.State().String(), Items: items, NewItems: items}, nil
}

// Next loads one more page of a feed. Once the feed is exhausted it returns
// the accumulated items with no new ones. After a failed page the same
// page is requested again.
func (fs *FeedService) Next(ctx context.Context, id string) (*FeedPage, error) {
	s, err := fs.session(id)
	if err != nil {
		return nil, err
	}
	p := s.paginator
	before := len(p.Items())

	if !p.LoadMore(ctx) && p.State() != pagination.Fetching {
		items := p.Items()
		return &FeedPage{ID: id, Query: s.query, State: p.State().String(), Items: items, NewItems: []models.Place{}}, nil
	}
	if err := p.Wait(ctx); err != nil {
		return nil, err
	}

	items := p.Items()
	newItems := []models.Place{}
	if len(items) > before {
		newItems = items[before:]
	}
	return &FeedPage{ID: id, Query: s.query, State: p.State().String(), Items: items, NewItems: newItems}, nil
}

// Close drops a feed session.
func (fs *FeedService) Close(id string) error {
	fs.mu.Lock()
	s, ok := fs.sessions[id]
	delete(fs.sessions, id)
	active := len(fs.sessions)
	fs.mu.Unlock()

	if !ok {
		return ErrFeedNotFound
	}
	s.paginator.Reset()
	metrics.SetFeedSessionsActive(active)
	return nil
}

func (fs *FeedService) session(id string) (*feedSession, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.evictLocked()
	s, ok := fs.sessions[id]
	if !ok {
		return nil, ErrFeedNotFound
	}
	s.lastAccess = fs.now()
	return s, nil
}

func (fs *FeedService) evictLocked() {
	if fs.ttl <= 0 {
		return
	}
	now := fs.now()
	evicted := 0
	for id, s := range fs.sessions {
		if now.Sub(s.lastAccess) > fs.ttl {
			s.paginator.Reset()
			delete(fs.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		metrics.SetFeedSessionsActive(len(fs.sessions))
		logger.Component("FeedService").Debug().Int("evicted", evicted).Msg("expired feed sessions dropped")
	}
}
