package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/jsamongk12147998-oss/foodhub-sub000/api/controllers"
	"github.com/jsamongk12147998-oss/foodhub-sub000/api/controllers/actions"
	"github.com/jsamongk12147998-oss/foodhub-sub000/api/routes"
	"github.com/jsamongk12147998-oss/foodhub-sub000/internal/cart"
	checkoutsvc "github.com/jsamongk12147998-oss/foodhub-sub000/internal/checkout"
	"github.com/jsamongk12147998-oss/foodhub-sub000/internal/favorites"
	"github.com/jsamongk12147998-oss/foodhub-sub000/internal/orders"
	"github.com/jsamongk12147998-oss/foodhub-sub000/internal/products"
	"github.com/jsamongk12147998-oss/foodhub-sub000/internal/reviews"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/config"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/db"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/logger"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/metrics"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/migrate"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/outbox"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	services, err := buildServices(cfg, logg, dbClient, redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, services, routes.Options{
			Store:    redisClient,
			Gatherer: prometheus.DefaultGatherer,
			Ready: []controllers.Dependency{
				{Name: "database", Pinger: dbClient},
				{Name: "redis", Pinger: redisClient},
			},
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	closeErr := multierr.Combine(
		server.Shutdown(shutdownCtx),
		dbClient.Close(),
		redisClient.Close(),
	)
	if closeErr != nil {
		for _, err := range multierr.Errors(closeErr) {
			logg.Error(ctx, "error during shutdown", err)
		}
		exitCode = 1
	}
	logg.Info(ctx, "api server stopped")
	os.Exit(exitCode)
}

// buildServices wires repositories, the outbox emitter and metrics into the
// services served by the router.
func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) (actions.Services, error) {
	conn := dbClient.DB()
	emitter := outbox.NewService(outbox.NewRepository(conn), logg)
	orderMetrics := metrics.NewOrderMetrics(prometheus.DefaultRegisterer)
	counts := orders.NewCountsCache(redisClient, cfg.Orders.CountsCacheTTL)

	productsRepo := products.NewRepository(conn)
	cartRepo := cart.NewRepository(conn)
	ordersRepo := orders.NewRepository(conn)

	cartService, err := cart.NewService(cartRepo, productsRepo)
	if err != nil {
		return actions.Services{}, err
	}

	ordersService, err := orders.NewService(ordersRepo, dbClient, emitter, counts, logg)
	if err != nil {
		return actions.Services{}, err
	}

	cancelService, err := orders.NewCancelService(ordersRepo, dbClient, emitter, counts, orderMetrics, logg)
	if err != nil {
		return actions.Services{}, err
	}

	planOpts := checkoutsvc.PlanOptions{
		ServiceFee: cfg.Checkout.Fee(),
		Prefix:     cfg.Checkout.OrderNumberPrefix,
	}
	writer, err := checkoutsvc.NewWriter(dbClient, ordersRepo, cartRepo, emitter, checkoutsvc.WriterOptions{
		Numbering: planOpts,
		Attempts:  cfg.Checkout.OrderNumberAttempts,
		Metrics:   orderMetrics,
		Logger:    logg,
	})
	if err != nil {
		return actions.Services{}, err
	}
	checkoutService, err := checkoutsvc.NewService(cartService, writer, planOpts, ordersService, orderMetrics, logg)
	if err != nil {
		return actions.Services{}, err
	}

	reviewService, err := reviews.NewService(reviews.NewRepository(conn), ordersRepo, dbClient, emitter, orderMetrics, logg)
	if err != nil {
		return actions.Services{}, err
	}

	favoritesService, err := favorites.NewService(favorites.ServiceParams{
		FavoritesRepo: favorites.NewRepository(conn),
		ProductRepo:   productsRepo,
		TxRunner:      dbClient,
		Outbox:        emitter,
	})
	if err != nil {
		return actions.Services{}, err
	}

	return actions.Services{
		Cart:      cartService,
		Checkout:  checkoutService,
		Orders:    ordersService,
		Cancel:    cancelService,
		Reviews:   reviewService,
		Favorites: favoritesService,
	}, nil
}
