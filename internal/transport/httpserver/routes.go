package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"expense-ledger-go/internal/config"
	"expense-ledger-go/internal/transport/httpserver/handler"
	authmw "expense-ledger-go/internal/transport/httpserver/middleware"
	"expense-ledger-go/pkg/logger"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, log logger.Logger) http.Handler {
	metrics := authmw.NewMetrics()

	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSAllowedOrigins))

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		auth := authmw.NewJWTAuth(cfg.Auth, log.WithComponent("auth"))
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/records", handlers.ListRecords)
			r.Post("/records", handlers.CreateRecord)
			r.Get("/records/export", handlers.ExportRecords)
			r.Post("/records/purge", handlers.PurgeRecords)
			r.Get("/records/{id}", handlers.GetRecord)
			r.Put("/records/{id}", handlers.UpdateRecord)
			r.Delete("/records/{id}", handlers.DeleteRecord)

			r.Get("/categories", handlers.ListCategories)
			r.Get("/summary", handlers.Summary)
		})
	})

	return r
}
