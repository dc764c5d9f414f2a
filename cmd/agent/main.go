package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	cartapp "github.com/dwikikusuma/shoping-voice/internal/cart/app"
	cartadapter "github.com/dwikikusuma/shoping-voice/internal/cart/infra/adapter"
	"github.com/dwikikusuma/shoping-voice/internal/cart/infra/rediscache"

	catalogapp "github.com/dwikikusuma/shoping-voice/internal/catalog/app"
	catalogjson "github.com/dwikikusuma/shoping-voice/internal/catalog/infra/jsonfile"

	checkoutapp "github.com/dwikikusuma/shoping-voice/internal/checkout/app"
	checkoutadapter "github.com/dwikikusuma/shoping-voice/internal/checkout/infra/adapter"

	faqapp "github.com/dwikikusuma/shoping-voice/internal/faq/app"
	faqjson "github.com/dwikikusuma/shoping-voice/internal/faq/infra/jsonfile"
	fraudapp "github.com/dwikikusuma/shoping-voice/internal/fraud/app"
	"github.com/dwikikusuma/shoping-voice/internal/fraud/infra/sqlitestore"
	leadapp "github.com/dwikikusuma/shoping-voice/internal/lead/app"
	leadjson "github.com/dwikikusuma/shoping-voice/internal/lead/infra/jsonfile"
	orderapp "github.com/dwikikusuma/shoping-voice/internal/order/app"
	orderjson "github.com/dwikikusuma/shoping-voice/internal/order/infra/jsonfile"
	tutorapp "github.com/dwikikusuma/shoping-voice/internal/tutor/app"
	tutorjson "github.com/dwikikusuma/shoping-voice/internal/tutor/infra/jsonfile"
	wellnessapp "github.com/dwikikusuma/shoping-voice/internal/wellness/app"
	wellnessjson "github.com/dwikikusuma/shoping-voice/internal/wellness/infra/jsonfile"

	"github.com/dwikikusuma/shoping-voice/internal/session"
	"github.com/dwikikusuma/shoping-voice/internal/tools"
	"github.com/dwikikusuma/shoping-voice/internal/transport/grpcserver"
	"github.com/dwikikusuma/shoping-voice/internal/transport/httpapi"
	"github.com/dwikikusuma/shoping-voice/internal/transport/ws"

	"github.com/dwikikusuma/shoping-voice/pkg/config"
	"github.com/dwikikusuma/shoping-voice/pkg/logger"
	"github.com/dwikikusuma/shoping-voice/pkg/shutdown"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

func main() {
	if err := config.LoadDotenv(".env.local", ".env"); err != nil {
		fmt.Fprintln(os.Stderr, "dotenv:", err)
		os.Exit(1)
	}
	cfg := config.Load()

	// prices and totals go out as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true

	log := logger.New(logger.Options{Service: "agent", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	ready := map[string]httpapi.ReadyCheck{}

	// Catalog
	catalogSvc := catalogapp.Load(ctx, catalogjson.NewProductRepo(cfg.CatalogPath), log)

	// Cart snapshots are optional; without redis carts live in memory only.
	var snapshots cartapp.SnapshotStore
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		snapshots = rediscache.NewCartCache(rdb)
		ready["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	cartCatalog := cartadapter.NewCatalogServiceReader(catalogSvc)
	sessions := session.NewRegistry(func(id string) *cartapp.Service {
		return cartapp.NewService(id, cartCatalog, snapshots, log)
	}, cfg.SessionTTL, log)

	// Orders and checkout
	orderSvc := orderapp.NewService(orderjson.NewOrderRepo(cfg.OrdersPath, log), log)
	checkoutSvc := checkoutapp.NewService(
		checkoutadapter.NewSessionCartReader(sessions),
		checkoutadapter.NewCatalogServiceReader(catalogSvc),
		checkoutadapter.NewOrderServiceWriter(orderSvc),
		cfg.QuoteWorkers,
		log,
	)

	// Sales, wellness, tutoring
	faqSvc := faqapp.Load(ctx, faqjson.NewFAQRepo(cfg.FAQPath), log)
	leadSvc := leadapp.NewService(leadjson.NewLeadRepo(cfg.LeadsPath, log), log)
	wellnessSvc := wellnessapp.NewService(wellnessjson.NewCheckInRepo(cfg.WellnessPath, log), log)
	tutorSvc := tutorapp.Load(ctx, tutorjson.NewConceptRepo(cfg.ConceptsPath, log), log)

	// Fraud cases; the agent still runs without them.
	var fraudSvc *fraudapp.Service
	fraudRepo, err := sqlitestore.Open(ctx, cfg.FraudDBPath)
	if err != nil {
		log.Error("fraud db unavailable, fraud tools disabled", slog.Any("err", err), slog.String("path", cfg.FraudDBPath))
	} else {
		fraudSvc = fraudapp.NewService(fraudRepo, log)
		ready["fraud_db"] = fraudRepo.Ping
	}

	registry := tools.NewRegistry(tools.Deps{
		Catalog:  catalogSvc,
		Sessions: sessions,
		Checkout: checkoutSvc,
		Orders:   orderSvc,
		FAQ:      faqSvc,
		Leads:    leadSvc,
		Wellness: wellnessSvc,
		Tutor:    tutorSvc,
		Fraud:    fraudSvc,
		Timeout:  cfg.RequestTimeout,
		Log:      log,
	})
	log.Info("tools registered", slog.Int("count", len(registry.Names())))

	httpAddr := fmt.Sprintf(":%d", cfg.HTTPPort)
	httpServer := &http.Server{
		Addr: httpAddr,
		Handler: httpapi.NewRouter(httpapi.Options{
			Tools:          registry,
			Sessions:       sessions,
			Ready:          ready,
			WebSocket:      ws.NewBridge(registry, log),
			RequestTimeout: cfg.RequestTimeout,
			Log:            log,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	grpcAddr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Error("listen failed", slog.Any("err", err), slog.String("addr", grpcAddr))
		os.Exit(1)
	}
	grpcServer := grpcserver.New(registry, log)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", httpAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("grpc starting", slog.String("addr", grpcAddr))
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("grpc serve error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	steps := []shutdown.Step{
		{Name: "http", Fn: httpServer.Shutdown},
		{Name: "grpc", Fn: func(ctx context.Context) error { grpcServer.Stop(ctx); return nil }},
		{Name: "sessions", Fn: func(context.Context) error { sessions.Close(); return nil }},
	}
	if fraudRepo != nil {
		steps = append(steps, shutdown.Step{Name: "fraud_db", Fn: func(context.Context) error { return fraudRepo.Close() }})
	}
	if rdb != nil {
		steps = append(steps, shutdown.Step{Name: "redis", Fn: func(context.Context) error { return rdb.Close() }})
	}
	_ = shutdown.Run(10*time.Second, log, steps...)

	wg.Wait()
	log.Info("bye")
}
