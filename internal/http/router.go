package httpx

import (
	"encoding/json"
	"net/http"

	"paybridge/internal/cache"
	"paybridge/internal/config"
	"paybridge/internal/gateway"
	"paybridge/internal/http/handlers"
	middlewarex "paybridge/internal/http/middleware"
	"paybridge/internal/store/postgres"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RouterDependencies holds everything the HTTP surface needs.
type RouterDependencies struct {
	Config      config.Cfg
	Registry    *gateway.Registry
	Repo        *postgres.Repo
	Idempotency *cache.Idempotency
}

// NewRouter builds the API router.
func NewRouter(deps RouterDependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	// Health check (public)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":   "ok",
			"gateways": deps.Registry.List(),
		})
	})

	// Transaction routes (protected by API key auth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarex.APIKeyAuth(deps.Config.Sec.APIToken))

		r.Post("/{gateway}/{action}", handlers.Transact(deps.Registry, deps.Repo, deps.Idempotency))
		r.Get("/transactions", handlers.ListTransactions(deps.Repo))
	})

	return r
}
