package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/pawnbook/internal/auth"
	httpauth "github.com/MrJamesThe3rd/pawnbook/internal/http/auth"
	"github.com/MrJamesThe3rd/pawnbook/internal/http/customer"
	"github.com/MrJamesThe3rd/pawnbook/internal/http/export"
	"github.com/MrJamesThe3rd/pawnbook/internal/http/invoice"
	"github.com/MrJamesThe3rd/pawnbook/internal/http/item"
	"github.com/MrJamesThe3rd/pawnbook/internal/http/pricing"
	"github.com/MrJamesThe3rd/pawnbook/internal/http/transaction"
	httpuser "github.com/MrJamesThe3rd/pawnbook/internal/http/user"
	"github.com/MrJamesThe3rd/pawnbook/internal/user"
)

type Handlers struct {
	Auth         *httpauth.Handler
	Users        *httpuser.Handler
	Customers    *customer.Handler
	Items        *item.Handler
	Invoices     *invoice.Handler
	Transactions *transaction.Handler
	Reports      *export.Handler
	Pricing      *pricing.Handler
}

// New mounts every handler under /api/v1. Only /auth/login is reachable without a token.
func New(h Handlers, issuer *auth.Issuer, allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", h.Auth.Routes)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(issuer))

			r.Route("/users", func(r chi.Router) {
				r.Use(auth.RequireRole(user.RoleAdmin))
				r.Use(middleware.AllowContentType("application/json"))
				h.Users.Routes(r)
			})

			r.Route("/customers", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Customers.Routes(r)
				r.Route("/{id}/items", h.Items.CustomerRoutes)
				r.Route("/{id}/invoices", h.Invoices.CustomerRoutes)
			})

			r.Route("/items", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Items.Routes(r)
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Invoices.Routes(r)
			})

			r.Route("/transactions", h.Transactions.Routes)
			r.Route("/reports", h.Reports.Routes)
			r.Route("/pricing", h.Pricing.Routes)
		})
	})

	return router
}
