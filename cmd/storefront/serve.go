package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jwhande57/zimutilityxpress/internal/application/checkout"
	"github.com/jwhande57/zimutilityxpress/internal/catalog"
	"github.com/jwhande57/zimutilityxpress/internal/infrastructure/database"
	"github.com/jwhande57/zimutilityxpress/internal/infrastructure/http/clients"
	"github.com/jwhande57/zimutilityxpress/internal/server"
	"github.com/jwhande57/zimutilityxpress/internal/server/websocket"
	"github.com/jwhande57/zimutilityxpress/internal/store"
	"github.com/jwhande57/zimutilityxpress/internal/store/memstore"
	"github.com/jwhande57/zimutilityxpress/internal/store/sqlstore"
	"github.com/jwhande57/zimutilityxpress/pkg/config"
	"github.com/jwhande57/zimutilityxpress/pkg/logger"
)

// app carries the wired service graph shared by the subcommands.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	svc      checkout.ICheckoutService
	shutdown func()
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewWithConfig(cfg.Logger)

	sessions, shutdown, err := newSessionStore(cfg, log)
	if err != nil {
		return nil, err
	}

	descriptors := cfg.Catalog.Services
	if len(descriptors) == 0 {
		descriptors = catalog.DefaultDescriptors()
	}
	cat, err := catalog.New(descriptors)
	if err != nil {
		shutdown()
		return nil, fmt.Errorf("failed to compile service catalog: %w", err)
	}

	stockClient := clients.NewStockClient(cfg.Upstream, log)
	orderClient := clients.NewOrderClient(cfg.Upstream, log)
	rechargeClient := clients.NewRechargeClient(cfg.Upstream, log)

	checkoutSvc := checkout.New(cat, sessions, stockClient, orderClient, rechargeClient, cfg, log)

	return &app{
		cfg:      cfg,
		log:      log,
		svc:      checkoutSvc,
		shutdown: shutdown,
	}, nil
}

func newSessionStore(cfg *config.Config, log zerolog.Logger) (store.SessionStore, func(), error) {
	switch cfg.Storage.Backend {
	case "postgres":
		dbm, err := database.New(&cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		sessions, err := sqlstore.New(dbm.Db, cfg.Sessions.RetentionDays, log)
		if err != nil {
			dbm.ShutDown()
			return nil, nil, fmt.Errorf("failed to initialize session store: %w", err)
		}
		return sessions, dbm.ShutDown, nil
	case "memory", "":
		return memstore.New(cfg.Sessions.RetentionDays, log), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the storefront HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.shutdown()

			// Evict stale sessions before taking traffic.
			if removed := a.svc.Cleanup(cmd.Context()); removed > 0 {
				a.log.Info().Int("removed", removed).Msg("Evicted expired payment sessions")
			}

			wsHub := websocket.NewWsHub(a.log)
			go wsHub.Run()

			srv := server.New(a.cfg, a.svc, a.log, wsHub)
			srv.Start()
			return nil
		},
	}
}
