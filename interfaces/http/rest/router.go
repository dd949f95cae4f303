// Package rest wires the catalog's HTTP surface: one generic handler per
// resource kind plus the auth endpoints, behind shared middleware.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"catalog-backend/domain/catalog"
	"catalog-backend/interfaces/http/rest/handlers"
	"catalog-backend/interfaces/http/rest/middleware"
)

// Router assembles the HTTP handler tree.
type Router struct {
	products   *handlers.CatalogHandler[catalog.ProductFields]
	categories *handlers.CatalogHandler[catalog.CategoryFields]
	priceTypes *handlers.CatalogHandler[catalog.PriceTypeFields]
	units      *handlers.CatalogHandler[catalog.UnitFields]
	deals      *handlers.CatalogHandler[catalog.DealFields]
	auth       *handlers.AuthHandler
	resolver   middleware.ActorResolver
	enableCORS bool
	logger     *zap.Logger
}

// NewRouter creates the router from its handlers.
func NewRouter(
	products *handlers.CatalogHandler[catalog.ProductFields],
	categories *handlers.CatalogHandler[catalog.CategoryFields],
	priceTypes *handlers.CatalogHandler[catalog.PriceTypeFields],
	units *handlers.CatalogHandler[catalog.UnitFields],
	deals *handlers.CatalogHandler[catalog.DealFields],
	authHandler *handlers.AuthHandler,
	resolver middleware.ActorResolver,
	enableCORS bool,
	logger *zap.Logger,
) *Router {
	return &Router{
		products:   products,
		categories: categories,
		priceTypes: priceTypes,
		units:      units,
		deals:      deals,
		auth:       authHandler,
		resolver:   resolver,
		enableCORS: enableCORS,
		logger:     logger,
	}
}

// Setup configures all routes and middleware.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// Account endpoints are public; the identity provider does its own
	// credential checks.
	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", rt.auth.Register)
		r.Post("/confirm", rt.auth.Confirm)
		r.Post("/login", rt.auth.Login)
		r.Post("/forgot-password", rt.auth.ForgotPassword)
		r.Post("/confirm-forgot-password", rt.auth.ConfirmForgotPassword)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.resolver, rt.logger))
			r.Post("/add-to-group", rt.auth.AddToGroup)
		})
	})

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.resolver, rt.logger))

		r.Route("/"+catalog.KindProduct.String(), rt.products.Mount)
		r.Route("/"+catalog.KindProductCategory.String(), rt.categories.Mount)
		r.Route("/"+catalog.KindProductPriceType.String(), rt.priceTypes.Mount)
		r.Route("/"+catalog.KindProductUnit.String(), rt.units.Mount)
		r.Route("/"+catalog.KindProductDeal.String(), rt.deals.Mount)
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
