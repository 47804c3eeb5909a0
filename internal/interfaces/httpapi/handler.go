package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/ovalbyte/club-ladder/internal/domain/user"
	"github.com/ovalbyte/club-ladder/internal/platform/logging"
	"github.com/ovalbyte/club-ladder/internal/usecase"
)

type Handler struct {
	playerService     *usecase.PlayerService
	matchService      *usecase.MatchService
	reportService     *usecase.ReportService
	tournamentService *usecase.TournamentService
	seasonService     *usecase.SeasonService
	challengeService  *usecase.ChallengeService
	snapshotService   *usecase.SnapshotService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	playerService *usecase.PlayerService,
	matchService *usecase.MatchService,
	reportService *usecase.ReportService,
	tournamentService *usecase.TournamentService,
	seasonService *usecase.SeasonService,
	challengeService *usecase.ChallengeService,
	snapshotService *usecase.SnapshotService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Handler{
		playerService:     playerService,
		matchService:      matchService,
		reportService:     reportService,
		tournamentService: tournamentService,
		seasonService:     seasonService,
		challengeService:  challengeService,
		snapshotService:   snapshotService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// requirePrincipal writes the 401 itself; callers bail out when ok is false.
func (h *Handler) requirePrincipal(ctx context.Context, w http.ResponseWriter) (user.Principal, bool) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return user.Principal{}, false
	}
	return principal, true
}
