package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vendaflow/vendaflow/internal/auth"
	"github.com/vendaflow/vendaflow/internal/masterdata/categories"
	"github.com/vendaflow/vendaflow/internal/masterdata/companies"
	"github.com/vendaflow/vendaflow/internal/masterdata/customers"
	"github.com/vendaflow/vendaflow/internal/masterdata/products"
	"github.com/vendaflow/vendaflow/internal/masterdata/stores"
	"github.com/vendaflow/vendaflow/internal/platform/httpx"
	"github.com/vendaflow/vendaflow/internal/sales"
	"github.com/vendaflow/vendaflow/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	TokenIssuer       *auth.TokenIssuer
	AuthHandler       *auth.Handler
	CompaniesHandler  *companies.Handler
	StoresHandler     *stores.Handler
	ProductsHandler   *products.Handler
	CategoriesHandler *categories.Handler
	CustomersHandler  *customers.Handler
	UsersHandler      *users.Handler
	SalesHandler      *sales.Handler
}

// NewRouter assembles the HTTP surface.
func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()
	r.Use(MiddlewareStack(MiddlewareConfig{Logger: p.Logger, Config: p.Config})...)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", p.AuthHandler.MountRoutes)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser(p.TokenIssuer))
			r.Route("/companies", p.CompaniesHandler.MountRoutes)
			r.Route("/stores", p.StoresHandler.MountRoutes)
			r.Route("/products", p.ProductsHandler.MountRoutes)
			r.Route("/categories", p.CategoriesHandler.MountRoutes)
			r.Route("/customers", p.CustomersHandler.MountRoutes)
			r.Route("/users", p.UsersHandler.MountRoutes)
			r.Route("/sales", p.SalesHandler.MountRoutes)
		})
	})

	return r
}
