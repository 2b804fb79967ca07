package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/tabletap/staff-api/internal/config"
	"github.com/tabletap/staff-api/internal/handler"
	mw "github.com/tabletap/staff-api/internal/middleware"
	"github.com/tabletap/staff-api/internal/ws"
)

// Deps carries the wired application pieces the router mounts.
type Deps struct {
	Auth       *handler.AuthHandler
	Orders     *handler.OrderHandler
	Checkout   *handler.CheckoutHandler
	Payments   *handler.PaymentHandler
	Promotions *handler.PromotionHandler
	Reports    *handler.ReportHandler
	Hub        *ws.Hub
	Log        zerolog.Logger
}

// New creates a Chi router with all application routes wired up.
// Authentication guards everything except health, login/refresh, and the
// WebSocket route (which validates its token internally).
func New(cfg *config.Config, deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(mw.RequestLogger(deps.Log))
	r.Use(chimw.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	deps.Auth.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(deps.Hub, cfg.JWTSecret, deps.Log, w, r)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		r.Post("/auth/logout", deps.Auth.Logout)

		deps.Orders.RegisterRoutes(r)
		deps.Checkout.RegisterRoutes(r)
		deps.Payments.RegisterRoutes(r)
		deps.Promotions.RegisterRoutes(r)

		// Sales dashboard is management-only
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole("MANAGER", "OWNER"))
			deps.Reports.RegisterRoutes(r)
		})
	})

	return r
}
