package server

import (
	"net/http"
	"time"

	"github.com/classicalvivekch/building-shop-manager-sub000/internal/config"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/domain"
	"github.com/classicalvivekch/building-shop-manager-sub000/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"log/slog"
)

// NewRouter wires HTTP routes and middleware.
func NewRouter(cfg config.Config,
	logger *slog.Logger,
	health handler.HealthHandler,
	auth handler.AuthHandler,
	users handler.UserHandler,
	inventory handler.InventoryHandler,
	sales handler.SaleHandler,
	borrows handler.BorrowHandler,
	expenses handler.ExpenseHandler,
	salaries handler.SalaryHandler,
	reports handler.ReportHandler,
	dashboard handler.DashboardHandler,
	calendar handler.CalendarHandler,
	uploads handler.UploadHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(200, 1*time.Minute))

	health.RegisterRoutes(r)
	auth.RegisterRoutes(r)
	uploads.RegisterStaticRoutes(r)
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Group(func(pr chi.Router) {
		pr.Use(AuthMiddleware(cfg.JWTSecret))
		// staff-level (employee/admin)
		pr.Group(func(sr chi.Router) {
			sr.Use(RequireRole(domain.RoleAdmin, domain.RoleEmployee))
			users.RegisterProfileRoutes(sr)
			inventory.RegisterReadRoutes(sr)
			sales.RegisterRoutes(sr)
			borrows.RegisterRoutes(sr)
			expenses.RegisterRoutes(sr)
			dashboard.RegisterRoutes(sr)
			calendar.RegisterRoutes(sr)
			uploads.RegisterRoutes(sr)
		})
		// admin-level
		pr.Group(func(ar chi.Router) {
			ar.Use(RequireRole(domain.RoleAdmin))
			users.RegisterAdminRoutes(ar)
			inventory.RegisterAdminRoutes(ar)
			borrows.RegisterAdminRoutes(ar)
			salaries.RegisterRoutes(ar)
			reports.RegisterRoutes(ar)
		})
	})

	return r
}
