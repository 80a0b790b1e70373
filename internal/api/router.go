package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sales-analytics/internal/api/handler"
	"sales-analytics/pkg/router"
)

// RegisterRoutes mounts the run endpoints. gatherer may be nil, in which case
// /metrics is not served.
func RegisterRoutes(r *router.Router, runs *handler.RunHandler, gatherer prometheus.Gatherer) {
	r.GET("/healthz", handler.Health)
	r.POST("/api/v1/runs", runs.CreateRun)
	r.GET("/api/v1/download/{runID}/{file}", runs.Download)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
}
