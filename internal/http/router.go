package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Kesavaawalakbari/konek/internal/auth"
	"github.com/Kesavaawalakbari/konek/internal/http/employee"
	"github.com/Kesavaawalakbari/konek/internal/http/guard"
	"github.com/Kesavaawalakbari/konek/internal/http/importcsv"
	"github.com/Kesavaawalakbari/konek/internal/http/product"
	"github.com/Kesavaawalakbari/konek/internal/http/report"
	"github.com/Kesavaawalakbari/konek/internal/http/respond"
	"github.com/Kesavaawalakbari/konek/internal/http/store"
	"github.com/Kesavaawalakbari/konek/internal/http/supplier"
	"github.com/Kesavaawalakbari/konek/internal/http/transaction"
	"github.com/Kesavaawalakbari/konek/internal/i18n"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	Verifier       *auth.Verifier
	Bundle         *i18n.Bundle
	AllowedOrigins []string
	Timeout        time.Duration
	DB             Pinger
}

func New(
	opts Options,
	productsV1 *product.Handler,
	importV1 *importcsv.Handler,
	storesV1 *store.Handler,
	transactionsV1 *transaction.Handler,
	reportsV1 *report.Handler,
	suppliersV1 *supplier.Handler,
	employeesV1 *employee.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Use(guard.Localize(opts.Bundle))

	router.Get("/health", health(opts.DB))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(guard.Authenticate(opts.Verifier))

		r.Route("/products", func(r chi.Router) {
			r.Route("/import", importV1.Routes)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				productsV1.Routes(r)
			})
		})

		r.Route("/stores", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			storesV1.Routes(r)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Route("/reports", reportsV1.Routes)

		r.Route("/suppliers", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			suppliersV1.Routes(r)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			employeesV1.Routes(r)
		})
	})

	return router
}

type healthResponse struct {
	Database string `json:"database"`
	Time     string `json:"time"`
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Database: "up", Time: time.Now().Format(time.RFC3339)}

		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := db.PingContext(ctx); err != nil {
				respond.Fail(w, r, http.StatusServiceUnavailable, "ServiceUnavailable", "database unreachable")

				return
			}
		}

		respond.JSON(w, r, http.StatusOK, "Healthy", resp)
	}
}
