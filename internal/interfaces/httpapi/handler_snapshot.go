package httpapi

import "net/http"

func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSnapshot")
	defer span.End()

	snap, err := h.snapshotService.Build(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "build snapshot failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(snap))
}
