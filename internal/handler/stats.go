package handler

import "net/http"

// CacheStats exposes the shared cache's hit/miss counters for operational
// visibility; it is not part of the family-facing API.
func (h *ServiceHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.service.CacheStats(ctx)
	if err != nil {
		h.sendError(ctx, w, "CacheStats", err)
		return
	}

	h.sendJSON(ctx, w, http.StatusOK, stats)
}
