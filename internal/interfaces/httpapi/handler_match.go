package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/ovalbyte/club-ladder/internal/usecase"
)

type recordMatchRequest struct {
	Mode        string   `json:"mode" validate:"required"`
	WinnerIDs   []string `json:"winnerIds" validate:"required,min=1,max=2,dive,required"`
	LoserIDs    []string `json:"loserIds" validate:"required,min=1,max=2,dive,required"`
	ScoreWinner int      `json:"scoreWinner" validate:"min=0"`
	ScoreLoser  int      `json:"scoreLoser" validate:"min=0"`
	Friendly    bool     `json:"friendly"`
}

type editMatchRequest struct {
	WinnerIDs   []string `json:"winnerIds" validate:"required,min=1,max=2,dive,required"`
	LoserIDs    []string `json:"loserIds" validate:"required,min=1,max=2,dive,required"`
	ScoreWinner int      `json:"scoreWinner" validate:"min=0"`
	ScoreLoser  int      `json:"scoreLoser" validate:"min=0"`
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	matches, err := h.matchService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchesToDTO(matches))
}

// RecordMatch writes straight to the ledger, skipping confirmation. The
// service layer restricts it to administrators; regular players go through
// reports instead.
func (h *Handler) RecordMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordMatch")
	defer span.End()

	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req recordMatchRequest
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

	m, err := h.matchService.Record(ctx, usecase.RecordMatchInput{
		Actor:       principal,
		Mode:        req.Mode,
		WinnerIDs:   req.WinnerIDs,
		LoserIDs:    req.LoserIDs,
		ScoreWinner: req.ScoreWinner,
		ScoreLoser:  req.ScoreLoser,
		Friendly:    req.Friendly,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record match failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(m))
}

func (h *Handler) EditMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EditMatch")
	defer span.End()

	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	matchID := r.PathValue("matchID")
	var req editMatchRequest
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

	m, err := h.matchService.Edit(ctx, usecase.EditMatchInput{
		Actor:       principal,
		MatchID:     matchID,
		WinnerIDs:   req.WinnerIDs,
		LoserIDs:    req.LoserIDs,
		ScoreWinner: req.ScoreWinner,
		ScoreLoser:  req.ScoreLoser,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "edit match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(m))
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMatch")
	defer span.End()

	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	matchID := r.PathValue("matchID")
	if err := h.matchService.Delete(ctx, principal, matchID); err != nil {
		h.logger.WarnContext(ctx, "delete match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}
