package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	log "github.com/sirupsen/logrus"
)

// GetRouter initialises a new http router and applies all routes
func GetRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))
	return applyRoutes(r, h)
}

func applyRoutes(r chi.Router, h *Handler) chi.Router {
	r.Get("/healthz", getHealth)
	r.Post("/update-ranking-and-notes", h.updateRankingAndNotes)

	r.Route("/api", func(r chi.Router) {
		r.Post("/update-ranking", h.updateRanking)
		r.Post("/update-notes", h.updateNotes)
		r.Post("/update-performance", h.updatePerformance)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.WithFields(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).Round(time.Millisecond),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("request")
	})
}
