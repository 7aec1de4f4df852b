package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/k8ika0s/bounty-ledger/internal/api"
	"github.com/k8ika0s/bounty-ledger/internal/config"
)

// Service is a thin wrapper around the HTTP server.
type Service struct {
	srv     *http.Server
	handler *api.Handler
	log     *zap.Logger
}

// New wires the API routes behind the middleware chain.
func New(cfg config.Config, h *api.Handler, log *zap.Logger) *Service {
	mux := http.NewServeMux()
	h.Routes(mux)
	var handler http.Handler = mux
	handler = withGzip(handler)
	handler = withCORS(cfg, handler)
	handler = withRecover(log, handler)
	handler = withAccessLog(log, handler)
	return &Service{
		srv: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		handler: h,
		log:     log,
	}
}

// Handler exposes the composed handler, mainly for tests.
func (s *Service) Handler() http.Handler { return s.srv.Handler }

// Start serves until ctx is cancelled, then shuts down gracefully and waits
// for background publishing to finish.
func (s *Service) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("server running", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := s.srv.Shutdown(shutdownCtx)
		s.handler.Wait()
		return err
	})
	return g.Wait()
}
