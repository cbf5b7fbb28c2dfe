package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/dhakamart/commerce/internal/auth"
	"github.com/dhakamart/commerce/internal/catalog"
	"github.com/dhakamart/commerce/internal/checkout"
	"github.com/dhakamart/commerce/internal/order"
	"github.com/dhakamart/commerce/internal/payment"
	"github.com/dhakamart/commerce/internal/settings"
	"github.com/dhakamart/commerce/internal/transport/middleware"
	"github.com/dhakamart/commerce/internal/transport/swagger"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth     *auth.Handler
	Catalog  *catalog.Handler
	Checkout *checkout.Handler
	Payment  *payment.Handler
	Order    *order.Handler
	Settings *settings.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, rbac *auth.RBACAuthorization, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Group(func(pr chi.Router) {
				pr.Use(h.Auth.AuthMiddleware)
				pr.Get("/me", h.Auth.Me)
			})
		})

		// Public storefront routes
		r.Route("/products", func(sr chi.Router) {
			sr.Get("/", h.Catalog.ListProducts)
			sr.Get("/{productID}", h.Catalog.GetProduct)
			sr.Get("/{productID}/reviews", h.Catalog.ListReviews)
			sr.Post("/{productID}/reviews", h.Catalog.AddReview)
		})

		r.Post("/checkout", h.Checkout.BeginCheckout)
		r.Get("/orders/{orderID}", h.Order.GetOrder)

		// Payment routes. Callback and IPN are invoked by the gateways and
		// the user's browser mid-redirect, so they stay unauthenticated.
		r.Route("/payments", func(sr chi.Router) {
			sr.Route("/bkash", func(br chi.Router) {
				br.Post("/grant-token", h.Payment.GrantBkashToken)
				br.Post("/create", h.Payment.CreateBkashPayment)
				br.Post("/execute", h.Payment.ExecuteBkashPayment)
				br.Post("/query", h.Payment.QueryBkashPayment)
				br.Get("/callback", h.Payment.BkashCallback)
			})
			sr.Route("/sslcommerz", func(scr chi.Router) {
				scr.Post("/init", h.Payment.InitSSLCommerzPayment)
				scr.Post("/validate", h.Payment.ValidateSSLCommerzPayment)
				scr.Post("/ipn", h.Payment.SSLCommerzIPN)
			})
		})

		// Back-office routes
		r.Route("/admin", func(ar chi.Router) {
			ar.Use(h.Auth.AuthMiddleware)

			ar.Group(func(or chi.Router) {
				or.Use(rbac.RequireManageOrders())
				or.Get("/orders", h.Order.ListOrders)
				or.Get("/orders/{orderID}", h.Order.GetOrder)
				or.Patch("/orders/{orderID}/status", h.Order.UpdateOrderStatus)
			})

			ar.Group(func(sr chi.Router) {
				sr.Use(rbac.RequireManageSettings())
				sr.Get("/settings/{gateway}", h.Settings.GetSettings)
				sr.Put("/settings/{gateway}", h.Settings.UpdateSettings)
			})
		})
	})
}
