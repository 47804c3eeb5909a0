package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/ovalbyte/club-ladder/internal/usecase"
)

type createChallengeRequest struct {
	ChallengedID string `json:"challengedId" validate:"required"`
	Wager        int    `json:"wager"`
	Message      string `json:"message" validate:"max=280"`
}

type respondChallengeRequest struct {
	Accept bool `json:"accept"`
}

type completeChallengeRequest struct {
	MatchID string `json:"matchId" validate:"required"`
}

func (h *Handler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListChallenges")
	defer span.End()

	challenges, err := h.challengeService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list challenges failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, challengesToDTO(challenges))
}

func (h *Handler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateChallenge")
	defer span.End()

	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req createChallengeRequest
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

	c, err := h.challengeService.Create(ctx, usecase.CreateChallengeInput{
		Actor:        principal,
		ChallengedID: req.ChallengedID,
		Wager:        req.Wager,
		Message:      strings.TrimSpace(req.Message),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create challenge failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, challengeToDTO(c))
}

func (h *Handler) RespondChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RespondChallenge")
	defer span.End()

	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	challengeID := r.PathValue("challengeID")
	var req respondChallengeRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	c, err := h.challengeService.Respond(ctx, principal, challengeID, req.Accept)
	if err != nil {
		h.logger.WarnContext(ctx, "respond to challenge failed", "challenge_id", challengeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, challengeToDTO(c))
}

func (h *Handler) CompleteChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CompleteChallenge")
	defer span.End()

	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	challengeID := r.PathValue("challengeID")
	var req completeChallengeRequest
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

	c, err := h.challengeService.Complete(ctx, usecase.CompleteChallengeInput{
		Actor:       principal,
		ChallengeID: challengeID,
		MatchID:     req.MatchID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "complete challenge failed", "challenge_id", challengeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, challengeToDTO(c))
}
