package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"gkmedicos/api/domain"
	"gkmedicos/api/internal/auth"
	"gkmedicos/api/internal/store"
)

// Options tunes handler behaviour that comes from configuration.
type Options struct {
	CORSOrigins     []string
	ExpiryAlertDays int
}

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	store  *store.Store
	issuer *auth.Issuer
	opts   Options
}

// New constructs a Handler.
func New(st *store.Store, issuer *auth.Issuer, opts Options) *Handler {
	if opts.ExpiryAlertDays <= 0 {
		opts.ExpiryAlertDays = domain.DefaultExpiryWindowDays
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	return &Handler{store: st, issuer: issuer, opts: opts}
}

var (
	ownerOnly = auth.Policy{domain.RoleOwner}
	anyRole   = auth.Policy{domain.RoleOwner, domain.RoleStaff}
)

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/", h.health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.login)
			r.Group(func(pr chi.Router) {
				pr.Use(h.authenticate)
				pr.With(h.allow(anyRole)).Get("/me", h.me)
				pr.With(h.allow(anyRole)).Post("/reset-password", h.resetPassword)
				pr.With(h.allow(ownerOnly)).Post("/register", h.register)
			})
		})

		r.Route("/contact", func(r chi.Router) {
			r.Post("/", h.createContact)
			r.Group(func(pr chi.Router) {
				pr.Use(h.authenticate, h.allow(ownerOnly))
				pr.Get("/", h.listContacts)
				pr.Patch("/{id}/status", h.updateContactStatus)
			})
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.authenticate)

			pr.Route("/supplier", func(r chi.Router) {
				r.Use(h.allow(ownerOnly))
				r.Get("/", h.listSuppliers)
				r.Post("/", h.createSupplier)
				r.Put("/{id}", h.updateSupplier)
				r.Delete("/{id}", h.deleteSupplier)
			})

			pr.Route("/medicine", func(r chi.Router) {
				r.With(h.allow(anyRole)).Get("/", h.listMedicines)
				r.With(h.allow(anyRole)).Get("/low-stock", h.lowStock)
				r.With(h.allow(anyRole)).Get("/expiry-alert", h.expiryAlert)
				r.With(h.allow(anyRole)).Get("/{id}", h.getMedicine)
				r.With(h.allow(ownerOnly)).Post("/", h.createMedicine)
				r.With(h.allow(ownerOnly)).Put("/{id}", h.updateMedicine)
				r.With(h.allow(ownerOnly)).Delete("/{id}", h.deleteMedicine)
			})

			pr.Route("/sales", func(r chi.Router) {
				r.With(h.allow(anyRole)).Post("/", h.createSale)
				r.With(h.allow(anyRole)).Get("/", h.listSales)
				r.With(h.allow(ownerOnly)).Get("/daily", h.dailySales)
				r.With(h.allow(ownerOnly)).Get("/monthly", h.monthlySales)
			})

			pr.Route("/reports", func(r chi.Router) {
				r.Use(h.allow(ownerOnly))
				r.Get("/top-selling", h.topSelling)
				r.Get("/monthly-summary", h.monthlySummary)
				r.Get("/profit", h.profit)
			})

			pr.Route("/purchase", func(r chi.Router) {
				r.Use(h.allow(ownerOnly))
				r.Post("/", h.createPurchase)
				r.Get("/", h.listPurchases)
			})
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "G.K. Medicos Pharmacy API - v1.0"})
}
