package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/asinwatch/asinwatch-backend/api/controllers"
	"github.com/asinwatch/asinwatch-backend/api/middleware"
	"github.com/asinwatch/asinwatch-backend/internal/catalog"
	"github.com/asinwatch/asinwatch-backend/internal/history"
	"github.com/asinwatch/asinwatch-backend/internal/prefs"
	"github.com/asinwatch/asinwatch-backend/internal/profiles"
	"github.com/asinwatch/asinwatch-backend/internal/reference"
	"github.com/asinwatch/asinwatch-backend/internal/rollup"
	"github.com/asinwatch/asinwatch-backend/pkg/config"
	"github.com/asinwatch/asinwatch-backend/pkg/logger"
	"github.com/asinwatch/asinwatch-backend/pkg/metrics"
	"github.com/asinwatch/asinwatch-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      controllers.Pinger
	Redis   *redis.Client
	Metrics *metrics.HTTPMetrics

	Catalog   catalog.Service
	History   history.Service
	Rollup    rollup.Service
	Prefs     prefs.Service
	Reference reference.Service
	Profiles  profiles.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(),
	)

	r.Get("/healthz", controllers.HealthLive(cfg))
	r.Get("/readyz", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.CreateProduct(deps.Catalog, logg))
			r.Get("/", controllers.ListProducts(deps.Catalog, logg))
			r.Get("/lookup", controllers.LookupProduct(deps.Catalog, logg))

			r.Route("/{productId}", func(r chi.Router) {
				r.Get("/", controllers.GetProduct(deps.Catalog, logg))
				r.Patch("/", controllers.UpdateProduct(deps.Catalog, logg))
				r.Delete("/", controllers.DeleteProduct(deps.Catalog, logg))

				r.Post("/keywords", controllers.AddProductKeyword(deps.Catalog, logg))
				r.Get("/keywords", controllers.ListProductKeywords(deps.Catalog, logg))

				r.Route("/history", func(r chi.Router) {
					r.Post("/bsr", controllers.RecordBSR(deps.History, logg))
					r.Get("/bsr", controllers.GetBSRHistory(deps.History, logg))
					r.Post("/price", controllers.RecordPrice(deps.History, logg))
					r.Get("/price", controllers.GetPriceHistory(deps.History, logg))
					r.Post("/reviews", controllers.RecordReview(deps.History, logg))
					r.Get("/reviews", controllers.GetReviewHistory(deps.History, logg))
				})

				r.Route("/stats", func(r chi.Router) {
					r.Get("/", controllers.ListStats(deps.Rollup, logg))
					r.Post("/recompute", controllers.RecomputeStats(deps.Rollup, logg))
				})
			})
		})

		r.Route("/profiles", func(r chi.Router) {
			r.Post("/", controllers.CreateProfile(deps.Profiles, logg))
			r.Get("/{userId}", controllers.GetProfile(deps.Profiles, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Route("/{userId}", func(r chi.Router) {
				r.Get("/preferences", controllers.GetPreferences(deps.Prefs, logg))

				r.Route("/excluded-brands", func(r chi.Router) {
					r.Get("/", controllers.ListExcludedBrands(deps.Prefs, logg))
					r.Post("/", controllers.ExcludeBrand(deps.Prefs, logg))
					r.Put("/", controllers.ReplaceExcludedBrands(deps.Prefs, logg))
					r.Delete("/{brandId}", controllers.RemoveExcludedBrand(deps.Prefs, logg))
				})

				r.Route("/excluded-keywords", func(r chi.Router) {
					r.Get("/", controllers.ListExcludedKeywords(deps.Prefs, logg))
					r.Post("/", controllers.ExcludeKeyword(deps.Prefs, logg))
					r.Put("/", controllers.ReplaceExcludedKeywords(deps.Prefs, logg))
					r.Delete("/{keyword}", controllers.RemoveExcludedKeyword(deps.Prefs, logg))
				})

				r.Route("/groups", func(r chi.Router) {
					r.Get("/", controllers.ListGroups(deps.Prefs, logg))
					r.Post("/", controllers.CreateGroup(deps.Prefs, logg))

					r.Route("/{groupId}/products", func(r chi.Router) {
						r.Get("/", controllers.ListGroupProducts(deps.Prefs, logg))
						r.Post("/", controllers.AddProductToGroup(deps.Prefs, logg))
						r.Delete("/{productId}", controllers.RemoveProductFromGroup(deps.Prefs, logg))
					})
				})

				r.Route("/saved-products", func(r chi.Router) {
					r.Get("/", controllers.ListSavedProducts(deps.Prefs, logg))
					r.Post("/", controllers.SaveProduct(deps.Prefs, logg))
					r.Delete("/{productId}", controllers.UnsaveProduct(deps.Prefs, logg))
				})
			})
		})

		// Standalone group read: membership listing needs no owner scope.
		r.Get("/groups/{groupId}/products", controllers.ListGroupProducts(deps.Prefs, logg))

		r.Get("/marketplaces", controllers.ListMarketplaces(deps.Reference, logg))
		r.Get("/product-types", controllers.ListProductTypes(deps.Reference, logg))
		r.Get("/brands", controllers.ListBrands(deps.Reference, logg))
		r.Get("/brands/{brandId}", controllers.GetBrand(deps.Reference, logg))
	})

	return r
}
