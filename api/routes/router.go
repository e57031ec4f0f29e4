package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/printcrm/api/controllers"
	"github.com/angelmondragon/printcrm/api/middleware"
	"github.com/angelmondragon/printcrm/pkg/config"
	"github.com/angelmondragon/printcrm/pkg/logger"
	"github.com/angelmondragon/printcrm/pkg/metrics"
	pkgredis "github.com/angelmondragon/printcrm/pkg/redis"
)

type sessionHost interface {
	controllers.SessionRegistry
	controllers.Quoter
}

// Dependencies carries everything the router wires into handlers. Redis,
// Metrics and Gatherer may be nil.
type Dependencies struct {
	DB          controllers.Pinger
	Redis       controllers.Pinger
	Idempotency pkgredis.IdempotencyStore
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer

	Catalog  controllers.CatalogService
	Sessions sessionHost
	Orders   controllers.OrderService
	Signup   controllers.SignupService
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.Metrics),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.Idempotency(deps.Idempotency, logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/signup", controllers.AuthSignup(deps.Signup, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.Catalog, logg))
			r.Get("/specifications", controllers.ProductSpecifications(deps.Catalog, logg))
			r.Get("/price", controllers.ProductPrice(deps.Catalog, logg))
			r.Get("/max-side", controllers.ProductMaxSide(deps.Catalog, logg))
		})

		r.Post("/quote", controllers.Quote(deps.Sessions, logg))

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", controllers.SessionCreate(deps.Sessions, logg))
			r.Route("/{sessionId}", func(r chi.Router) {
				r.Get("/", controllers.SessionFetch(deps.Sessions, logg))
				r.Delete("/", controllers.SessionDelete(deps.Sessions, logg))
				r.Put("/selection", controllers.SessionSelect(deps.Sessions, logg))
				r.Post("/quote", controllers.SessionQuote(deps.Sessions, logg))
				r.Post("/cart", controllers.SessionCartAdd(deps.Sessions, logg))
				r.Delete("/cart/{index}", controllers.SessionCartRemove(deps.Sessions, logg))
				r.Post("/finalize", controllers.SessionFinalize(deps.Sessions, logg))
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(deps.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, logg))
			r.Post("/{orderId}/items", controllers.OrderAddItem(deps.Orders, logg))
		})
	})

	if dir := strings.TrimSpace(cfg.App.StaticDir); dir != "" {
		r.Handle("/*", http.FileServer(http.Dir(dir)))
	}

	return r
}
