package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsamongk12147998-oss/foodhub-sub000/api/controllers"
	"github.com/jsamongk12147998-oss/foodhub-sub000/api/controllers/actions"
	cartcontrollers "github.com/jsamongk12147998-oss/foodhub-sub000/api/controllers/cart"
	ordercontrollers "github.com/jsamongk12147998-oss/foodhub-sub000/api/controllers/orders"
	"github.com/jsamongk12147998-oss/foodhub-sub000/api/middleware"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/config"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/enums"
	"github.com/jsamongk12147998-oss/foodhub-sub000/pkg/logger"
)

// Store backs idempotency replay and rate limiting. A nil Store disables both.
type Store interface {
	middleware.IdempotencyStore
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// Options carries the infrastructure the router needs besides services.
type Options struct {
	Store    Store
	Gatherer prometheus.Gatherer
	Ready    []controllers.Dependency
}

func NewRouter(cfg *config.Config, logg *logger.Logger, svc actions.Services, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, opts.Ready...))
	})
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	var (
		idempotencyStore middleware.IdempotencyStore
		limiter          Store
	)
	if opts.Store != nil {
		idempotencyStore = opts.Store
		limiter = opts.Store
	}
	actionsPolicy := middleware.NewRateLimitPolicy("actions", cfg.RateLimit.ActionsWindow, cfg.RateLimit.ActionsLimit)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore, cfg.Idempotency.TTL, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(svc.Cart, logg))
			r.Post("/items", cartcontrollers.CartAddItem(svc.Cart, logg))
			r.Patch("/items/{cartId}", cartcontrollers.CartUpdateItem(svc.Cart, logg))
			r.Delete("/items/{cartId}", cartcontrollers.CartRemoveItem(svc.Cart, logg))
		})

		r.Post("/checkout", controllers.Checkout(svc.Checkout, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.List(svc.Orders, logg))
			r.Get("/counts", ordercontrollers.Counts(svc.Orders, logg))
			r.Get("/{orderId}", ordercontrollers.Detail(svc.Orders, logg))
			r.Post("/{orderId}/cancel", ordercontrollers.Cancel(svc.Cancel, logg))
			r.Post("/{orderId}/reviews", ordercontrollers.SubmitReview(svc.Reviews, logg))
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", controllers.FavoritesList(svc.Favorites, logg))
			r.Get("/ids", controllers.FavoriteIDs(svc.Favorites, logg))
			r.Put("/{productId}", controllers.FavoriteAdd(svc.Favorites, logg))
			r.Delete("/{productId}", controllers.FavoriteRemove(svc.Favorites, logg))
			r.Post("/{productId}/toggle", controllers.FavoriteToggle(svc.Favorites, logg))
		})

		r.With(middleware.RateLimit(actionsPolicy, limiter, logg)).
			Method(http.MethodPost, "/actions", actions.NewDispatcher(actions.NewRegistry(svc), logg))

		r.Route("/staff", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.UserRoleStaff, logg))
			r.Patch("/orders/{orderId}/status", ordercontrollers.Advance(svc.Orders, logg))
		})
	})

	return r
}
