package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/ovalbyte/club-ladder/internal/usecase"
)

type createReportRequest struct {
	Mode        string   `json:"mode" validate:"required"`
	WinnerIDs   []string `json:"winnerIds" validate:"required,min=1,max=2,dive,required"`
	LoserIDs    []string `json:"loserIds" validate:"required,min=1,max=2,dive,required"`
	ScoreWinner int      `json:"scoreWinner" validate:"min=0"`
	ScoreLoser  int      `json:"scoreLoser" validate:"min=0"`
	Friendly    bool     `json:"friendly"`
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListReports")
	defer span.End()

	reports, err := h.reportService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list reports failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, reportsToDTO(reports))
}

func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateReport")
	defer span.End()

	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req createReportRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.reportService.Create(ctx, usecase.CreateReportInput{
		Actor:       principal,
		Mode:        req.Mode,
		WinnerIDs:   req.WinnerIDs,
		LoserIDs:    req.LoserIDs,
		ScoreWinner: req.ScoreWinner,
		ScoreLoser:  req.ScoreLoser,
		Friendly:    req.Friendly,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create report failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, reportToDTO(created))
}

func (h *Handler) AcknowledgeReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AcknowledgeReport")
	defer span.End()

	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	reportID := r.PathValue("reportID")
	updated, err := h.reportService.Acknowledge(ctx, principal, reportID)
	if err != nil {
		h.logger.WarnContext(ctx, "acknowledge report failed", "report_id", reportID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, reportToDTO(updated))
}

func (h *Handler) DisputeReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DisputeReport")
	defer span.End()

	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	reportID := r.PathValue("reportID")
	updated, err := h.reportService.Dispute(ctx, principal, reportID)
	if err != nil {
		h.logger.WarnContext(ctx, "dispute report failed", "report_id", reportID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, reportToDTO(updated))
}

func (h *Handler) ForceResolveReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ForceResolveReport")
	defer span.End()

	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	reportID := r.PathValue("reportID")
	m, err := h.reportService.ForceResolve(ctx, principal, reportID)
	if err != nil {
		h.logger.WarnContext(ctx, "force resolve report failed", "report_id", reportID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(m))
}

func (h *Handler) RejectReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RejectReport")
	defer span.End()

	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	reportID := r.PathValue("reportID")
	if err := h.reportService.Reject(ctx, principal, reportID); err != nil {
		h.logger.WarnContext(ctx, "reject report failed", "report_id", reportID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "rejected"})
}
