package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shopcore/internal/cart"
	"shopcore/internal/catalog"
	"shopcore/internal/customers"
	"shopcore/internal/inventory"
	"shopcore/internal/orders"
	"shopcore/internal/promotions"
	"shopcore/internal/reviews"
	"shopcore/internal/shipping"
	"shopcore/internal/subscriptions"
	"shopcore/internal/wishlist"
	"shopcore/pkg/config"
	"shopcore/pkg/db"
	"shopcore/pkg/logger"
	"shopcore/pkg/metrics"
	"shopcore/pkg/migrate"
)

// services bundles every domain surface over the shared connection.
type services struct {
	Catalog       *catalog.Service
	Inventory     *inventory.Service
	Customers     *customers.Service
	Cart          *cart.Service
	Orders        *orders.Service
	Reviews       *reviews.Service
	Promotions    *promotions.Service
	Wishlist      *wishlist.Service
	Shipping      *shipping.Service
	Subscriptions *subscriptions.Service
}

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "shopcore"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "shopcore",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithField(ctx, "env", cfg.App.Env)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	err = migrate.MaybeRunDev(ctx, cfg, logg, dbClient)
	requireResource(ctx, logg, "migrations", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	writes := metrics.NewWriteMetrics(registry)

	conn := dbClient.DB()
	svcs := &services{
		Catalog:       catalog.NewService(conn, logg, writes),
		Inventory:     inventory.NewService(conn, logg, writes),
		Customers:     customers.NewService(conn, logg, writes),
		Cart:          cart.NewService(conn, logg, writes),
		Orders:        orders.NewService(conn, logg, writes),
		Reviews:       reviews.NewService(conn, writes),
		Promotions:    promotions.NewService(conn, logg, writes),
		Wishlist:      wishlist.NewService(conn, writes),
		Shipping:      shipping.NewService(conn, writes),
		Subscriptions: subscriptions.NewService(conn, writes),
	}
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go lowStockSweep(sweepCtx, logg, svcs.Inventory)

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if pingErr := dbClient.Ping(r.Context()); pingErr != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:              cfg.App.MetricsAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logg.Info(logg.WithField(ctx, "addr", cfg.App.MetricsAddr), "metrics server listening")
		if serveErr := srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logg.Error(ctx, "metrics server stopped", serveErr)
			os.Exit(1)
		}
	}()

	logg.Info(ctx, "shopcore ready")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "metrics server shutdown failed", err)
	}
	logg.Info(ctx, "shopcore stopped")
}

const lowStockSweepInterval = 5 * time.Minute

// lowStockSweep periodically surfaces inventory items sitting at or below
// their alert threshold so operators see them without polling the table.
func lowStockSweep(ctx context.Context, logg *logger.Logger, inv *inventory.Service) {
	ticker := time.NewTicker(lowStockSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		alerts, err := inv.BreachedAlerts(ctx)
		if err != nil {
			logg.Error(ctx, "low stock sweep failed", err)
			continue
		}
		if len(alerts) == 0 {
			continue
		}
		logg.Warn(logg.WithFields(ctx, map[string]any{
			"entity":   "inventory_alert",
			"breached": len(alerts),
		}), "inventory items at or below alert threshold")
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
