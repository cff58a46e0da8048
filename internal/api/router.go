package api

import (
	"courier-route-service/internal/api/handlers"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/metrics"
	"courier-route-service/internal/ports"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Deps are the adapters the HTTP layer is wired with. Store and Cache are
// optional.
type Deps struct {
	Repo         ports.DeliveryRepository
	Provider     ports.DistanceProvider
	Store        ports.RunStore
	Cache        ports.SweepCache
	DefaultDepot domain.Depot
	SweepWorkers int
	// RateLimit is requests per second per client IP; zero disables limiting.
	RateLimit rate.Limit
	RateBurst int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	metrics.RegisterDefault()

	mux := http.NewServeMux()

	deliveryHandler := &handlers.DeliveryHandler{Repo: deps.Repo}
	routeHandler := &handlers.RouteHandler{
		Repo:         deps.Repo,
		Provider:     deps.Provider,
		Store:        deps.Store,
		DefaultDepot: deps.DefaultDepot,
	}
	paretoHandler := &handlers.ParetoHandler{
		Repo:         deps.Repo,
		Provider:     deps.Provider,
		Cache:        deps.Cache,
		Store:        deps.Store,
		DefaultDepot: deps.DefaultDepot,
		Workers:      deps.SweepWorkers,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/deliveries", deliveryHandler.List)
	mux.HandleFunc("/routes", routeHandler.Plan)
	mux.HandleFunc("/pareto", paretoHandler.Sweep)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	known := map[string]bool{
		"/health":     true,
		"/deliveries": true,
		"/routes":     true,
		"/pareto":     true,
		"/metrics":    true,
	}

	var h http.Handler = mux
	if deps.RateLimit > 0 {
		burst := deps.RateBurst
		if burst < 1 {
			burst = 1
		}
		h = newRateLimiter(deps.RateLimit, burst).middleware(h)
	}
	h = observeMiddleware(known, h)
	return requestIDMiddleware(h)
}
