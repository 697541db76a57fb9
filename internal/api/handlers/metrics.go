package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"larry/internal/engine/codes"
)

// MetricsHandler exports service counters in the Prometheus text format.
type MetricsHandler struct {
	svc *codes.Service
}

func NewMetricsHandler(svc *codes.Service) *MetricsHandler {
	return &MetricsHandler{svc: svc}
}

func (h *MetricsHandler) Export(w http.ResponseWriter, r *http.Request) {
	stats := h.svc.Stats()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	writeMetric(w, "larry_up", "gauge", "Is the server up", 1)
	writeMetric(w, "larry_renders_total", "counter", "QR codes rendered", stats.Rendered)
	writeMetric(w, "larry_render_cache_hits_total", "counter", "Render cache hits", stats.CacheHits)
	writeMetric(w, "larry_render_cache_misses_total", "counter", "Render cache misses", stats.CacheMisses)
	writeMetric(w, "larry_render_cache_entries", "gauge", "Renders held in the cache", stats.CacheEntries)

	count, err := h.svc.Count("")
	if err != nil {
		log.Warn().Err(err).Msg("metrics: failed to count stored codes")
		return
	}
	writeMetric(w, "larry_codes_stored", "gauge", "Stored QR codes", count)
}

func writeMetric[T uint64 | int64 | int](w io.Writer, name, kind, help string, value T) {
	fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	fmt.Fprintf(w, "# TYPE %s %s\n", name, kind)
	fmt.Fprintf(w, "%s %d\n", name, value)
}
