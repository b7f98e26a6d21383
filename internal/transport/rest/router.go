package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"lunalog/internal/config"
	"lunalog/internal/model"
	"lunalog/internal/repository"
	"lunalog/internal/transport/rest/handler"
	"lunalog/internal/transport/ws"
)

// Container holds all dependencies for the API router
type Container struct {
	Config            *config.Config
	Catalog           *model.Catalog
	SubmissionService handler.Submitter
	EntryService      handler.EntryLister
	WSHub             *ws.Hub
	Gatherer          prometheus.Gatherer
	Logger            *zap.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	journalHandler := handler.NewJournalHandler(c.SubmissionService, c.EntryService, c.Catalog, c.Logger)
	wsHandler := ws.NewHandler(c.WSHub, c.Logger)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.Config))

	r.HandleFunc("/submit", journalHandler.Submit).Methods("POST", "OPTIONS")
	r.HandleFunc("/journalEntries", journalHandler.ListEntries).Methods("GET", "OPTIONS")
	r.HandleFunc("/catalog", journalHandler.Catalog).Methods("GET", "OPTIONS")

	// WebSocket routes
	r.HandleFunc("/ws/entries", wsHandler.EntriesWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", handler.Health).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(c.Gatherer, promhttp.HandlerOpts{})).Methods("GET")

	return r
}

// StoreContainer holds the dependencies of the reference journal store
type StoreContainer struct {
	Repo        repository.EntryRepo
	Recommender handler.Recommender
	Logger      *zap.Logger
}

// NewStoreRouter creates the router of the reference journal store
func NewStoreRouter(c *StoreContainer) http.Handler {
	r := mux.NewRouter()
	storeHandler := handler.NewStoreHandler(c.Repo, c.Recommender, c.Logger)

	r.HandleFunc("/journal", storeHandler.CreateEntry).Methods("POST")
	r.HandleFunc("/journal/all", storeHandler.ListEntries).Methods("GET")
	r.HandleFunc("/recommend", storeHandler.Recommend).Methods("POST")
	r.HandleFunc("/health", handler.Health).Methods("GET")

	return r
}

func corsMiddleware(cfg *config.Config) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", cfg.CORSAllowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", cfg.CORSAllowedHeaders)
			w.Header().Set("Access-Control-Expose-Headers", handler.DegradedHeader)

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
