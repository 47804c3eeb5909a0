package httpapi

import "net/http"

// RunSweepReportsJob promotes every overdue unconfirmed report. Scheduled
// callers hit this behind the internal job token; the same sweep also runs
// lazily when a snapshot is built.
func (h *Handler) RunSweepReportsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSweepReportsJob")
	defer span.End()

	promoted, err := h.reportService.SweepExpired(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "sweep reports job failed", "promoted", promoted, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"promoted": promoted})
}
