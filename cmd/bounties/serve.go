package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/k8ika0s/bounty-ledger/internal/api"
	"github.com/k8ika0s/bounty-ledger/internal/objectstore"
	"github.com/k8ika0s/bounty-ledger/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the viewer, admin page and API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	st, err := a.cfg.Store(ctx, a.logger)
	if err != nil {
		return err
	}
	defer a.closeStore(st)
	pub := a.cfg.Publisher()
	defer func() {
		if err := pub.Close(); err != nil {
			a.logger.Warn("close publisher", zap.Error(err))
		}
	}()
	h := &api.Handler{
		Store:        st,
		Publisher:    pub,
		SettingsPath: a.cfg.SettingsPath,
		WebRoot:      a.cfg.WebRoot,
		Log:          a.logger,
	}
	archive, err := a.cfg.Archive(ctx)
	if err != nil {
		a.logger.Warn("snapshot archive disabled", zap.Error(err))
	} else if _, null := archive.(objectstore.NullStore); !null {
		h.Archive = objectstore.Archiver{Store: archive}
	}
	return server.New(a.cfg, h, a.logger).Start(ctx)
}
