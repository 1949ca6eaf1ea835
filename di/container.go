package di

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"

	"munch-server/api"
	"munch-server/api/places"
	"munch-server/config"
	"munch-server/dao/redis"
	"munch-server/db"
	"munch-server/hours"
	"munch-server/logger"
	"munch-server/server"
	"munch-server/server/handlers"
	services "munch-server/service"
)

// Container holds all application dependencies.
type Container struct {
	Config                 *config.Config
	RedisClient            db.RedisClient
	RedisPlaceDao          *redis.RedisPlaceDAO
	PlacesAPI              places.PlacesAPI
	Evaluator              *hours.Evaluator
	PlaceService           *services.PlaceService
	CollectionService      *services.CollectionService
	FeedService            *services.FeedService
	VoucherService         *services.VoucherService
	PlacesRefresherService *services.PlacesRefresherService
	MuxRouter              *mux.Router
	Router                 *server.Router
	MunchHttpServer        *server.MunchHttpServer
}

// NewContainer connects to Redis and wires up all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	redisClient, err := db.Connect(ctx, &goredis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, err
	}
	return NewContainerWithRedis(cfg, redisClient)
}

// NewContainerWithRedis wires everything on top of an existing Redis client.
func NewContainerWithRedis(cfg *config.Config, redisClient db.RedisClient) (*Container, error) {
	log := logger.Component("Container")
	log.Info().Str("env", cfg.Env).Msg("initializing container")

	placeDao := redis.NewRedisPlaceDAO(redisClient, config.PLACE_CACHE_TTL)

	var placesApi places.PlacesAPI
	if cfg.Env != "prod" {
		mock, err := places.NewPlacesApiClientMock(cfg.FixturePath)
		if err != nil {
			return nil, err
		}
		placesApi = mock
		log.Info().Str("fixture", cfg.FixturePath).Msg("using mock places api")
	} else {
		httpClient := api.NewHTTPClient(cfg.PlacesAPIBaseURL)
		httpClient.HTTPClient.Timeout = config.PLACES_API_TIMEOUT
		placesApi = places.NewPlacesApiClient(httpClient)
		placesApi.SetCredentials(cfg.PlacesAPIKey)
		log.Info().Str("base_url", cfg.PlacesAPIBaseURL).Msg("using prod places api")
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	evaluator := hours.NewEvaluator(hours.SystemClock{}, hours.GregorianCalendar{}, loc).
		WithWindows(cfg.OpeningWindowMinutes, cfg.ClosingWindowMinutes)

	placeService := services.NewPlaceService(placeDao, placesApi, evaluator)
	collectionService := services.NewCollectionService(placesApi, cfg.PageSize)
	feedService := services.NewFeedService(placesApi, cfg.PageSize, cfg.FeedSessionTTL)
	voucherService := services.NewVoucherService(placesApi)
	refresher := services.NewPlacesRefresherService(placeDao, placesApi, collectionService, cfg.RefresherCollectionID)

	muxRouter := mux.NewRouter()
	router := server.NewRouter(
		handlers.NewPlaceHandler(placeService),
		handlers.NewCollectionHandler(collectionService),
		handlers.NewFeedHandler(feedService),
		handlers.NewVoucherHandler(voucherService),
		muxRouter,
	)

	return &Container{
		Config:                 cfg,
		RedisClient:            redisClient,
		RedisPlaceDao:          placeDao,
		PlacesAPI:              placesApi,
		Evaluator:              evaluator,
		PlaceService:           placeService,
		CollectionService:      collectionService,
		FeedService:            feedService,
		VoucherService:         voucherService,
		PlacesRefresherService: refresher,
		MuxRouter:              muxRouter,
		Router:                 router,
		MunchHttpServer:        server.NewMunchHttpServer(router, muxRouter, cfg.Port),
	}, nil
}
