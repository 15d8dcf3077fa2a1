package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/events"
	"github.com/ariefcatur/go-storefront/internal/httpx"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/logx"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/ariefcatur/go-storefront/internal/remote"
	"github.com/ariefcatur/go-storefront/internal/settings"
	"github.com/ariefcatur/go-storefront/internal/snapshot"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logx.New(cfg.LogLevel).With("service", cfg.ServiceName)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Snapshots: Postgres when configured, process memory otherwise
	var store snapshot.Store = snapshot.NewMemory()
	if cfg.PostgresDSN != "" {
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error("db connect", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		pg := &postgres.SnapshotStore{DB: db}
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Error("db schema", "err", err)
			os.Exit(1)
		}
		store = pg
	} else {
		log.Warn("POSTGRES_DSN not set, carts and settings live in memory")
	}

	// Redis query cache
	catalogOpts := []catalog.Option{catalog.WithLogger(log)}
	if cfg.RedisAddr != "" {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		if err := redisx.Ping(ctx, rdb); err != nil {
			log.Warn("redis unreachable, catalog cache disabled", "err", err)
		} else {
			catalogOpts = append(catalogOpts, catalog.WithCache(redisx.NewQueryCache(rdb, cfg.CatalogCacheTTL)))
		}
	}

	// Kafka producer
	var (
		emitter *events.Emitter
		prod    *kafkax.Producer
	)
	if len(cfg.KafkaBrokers) > 0 {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, 1024, log)
		prod.Start(ctx)
		emitter = events.NewEmitter(prod, cfg.ServiceName, log)
		catalogOpts = append(catalogOpts, catalog.WithEvents(emitter))
	}

	// Remote collaborator
	var (
		source         catalog.Source
		settingsRemote settings.Remote
	)
	if cfg.RemoteBaseURL != "" {
		rc := remote.New(cfg.RemoteBaseURL, cfg.RemoteToken, cfg.RemoteTimeout)
		source = catalog.NewHTTPSource(rc)
		settingsRemote = settings.NewHTTPRemote(rc, cfg.ContactSettingsPath)
	} else {
		log.Warn("REMOTE_BASE_URL not set, serving the built-in catalog")
	}

	cat := catalog.NewService(source, nil, catalogOpts...)
	st := settings.NewStore(ctx, store, settingsRemote, settings.WithEvents(emitter), settings.WithLogger(log))
	loadCtx, loadCancel := context.WithTimeout(ctx, 10*time.Second)
	if res := st.Load(loadCtx); !res.Synced() {
		log.Warn("settings loaded partially", "site_err", res.SiteErr, "contact_err", res.ContactErr, "footer_err", res.FooterErr)
	}
	loadCancel()

	carts := cart.NewRegistry(store, log)
	carts.Subscribe(func(id string, s cart.Snapshot) {
		log.Debug("cart changed", "cart_id", id, "total_items", s.TotalItems)
	})

	// Handlers
	router := httpx.NewRouter(log)
	(&httpx.CatalogHandler{Catalog: cat}).Register(router)
	(&httpx.CartHandler{
		Carts:    carts,
		Catalog:  cat,
		Checkout: checkout.NewService(st, emitter),
		Log:      log,
	}).Register(router)
	(&httpx.SettingsHandler{Settings: st}).Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Info("HTTP listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	if prod != nil {
		prod.Close() // close inbox -> flush & close writer
		prod.WaitClosed()
	}
	cancel()
}
