package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"munch-server/logger"
)

const shutdownTimeout = 5 * time.Second

type MunchHttpServer struct {
	router    *Router
	muxRouter *mux.Router
	addr      string
}

func NewMunchHttpServer(router *Router, muxRouter *mux.Router, port string) *MunchHttpServer {
	return &MunchHttpServer{
		router:    router,
		muxRouter: muxRouter,
		addr:      ":" + port,
	}
}

// Start registers the routes and serves until ctx is cancelled or the
// process gets SIGINT/SIGTERM, then shuts down gracefully.
func (s *MunchHttpServer) Start(ctx context.Context) error {
	log := logger.Component("MunchHttpServer")
	s.router.RegisterRoutes()

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.muxRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down the server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server exiting")
	return nil
}
