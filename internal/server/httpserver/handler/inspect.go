package handler

import "net/http"

// handleInspect handles GET /api/token/inspect?token=. It reports
// validity and time left without echoing the signature.
func (h *Handler) handleInspect(w http.ResponseWriter, r *http.Request) {
	ins := h.verifier.Inspect(r.URL.Query().Get("token"))

	w.Header().Set("Cache-Control", "no-store")
	h.writeRaw(w, http.StatusOK, InspectResponse{
		Valid:       ins.Valid,
		ExpiresAt:   ins.ExpiresAt,
		RemainingMs: ins.RemainingMs,
	})
}
