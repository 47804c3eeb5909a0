package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ovalbyte/club-ladder/internal/domain/challenge"
	"github.com/ovalbyte/club-ladder/internal/domain/match"
	"github.com/ovalbyte/club-ladder/internal/domain/player"
	"github.com/ovalbyte/club-ladder/internal/domain/role"
	"github.com/ovalbyte/club-ladder/internal/domain/user"
	idgen "github.com/ovalbyte/club-ladder/internal/platform/id"
	"github.com/ovalbyte/club-ladder/internal/platform/logging"
)

type CreateChallengeInput struct {
	Actor        user.Principal
	ChallengedID string
	Wager        int
	Message      string
}

type CompleteChallengeInput struct {
	Actor       user.Principal
	ChallengeID string
	MatchID     string
}

// ChallengeService manages wagered head-to-head challenges. The wager rides
// on top of the linked match's own rating delta and is applied at most once.
type ChallengeService struct {
	playerRepo    player.Repository
	matchRepo     match.Repository
	challengeRepo challenge.Repository
	roles         role.Store
	idGen         idgen.Generator
	logger        *logging.Logger
	now           func() time.Time
}

func NewChallengeService(
	playerRepo player.Repository,
	matchRepo match.Repository,
	challengeRepo challenge.Repository,
	roles role.Store,
	idGen idgen.Generator,
	logger *logging.Logger,
) *ChallengeService {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &ChallengeService{
		playerRepo:    playerRepo,
		matchRepo:     matchRepo,
		challengeRepo: challengeRepo,
		roles:         roles,
		idGen:         idGen,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *ChallengeService) List(ctx context.Context) ([]challenge.Challenge, error) {
	items, err := s.challengeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}

	return items, nil
}

// Create issues a pending challenge from the actor's player to another
// player. An out-of-range wager is clamped, not rejected.
func (s *ChallengeService) Create(ctx context.Context, input CreateChallengeInput) (challenge.Challenge, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChallengeService.Create")
	defer span.End()

	challenger, hasPlayer, err := resolveActorPlayer(ctx, s.playerRepo, input.Actor)
	if err != nil {
		return challenge.Challenge{}, err
	}
	if !hasPlayer {
		return challenge.Challenge{}, fmt.Errorf("%w: no player profile linked to this account", ErrUnauthorized)
	}

	if _, ok, err := s.playerRepo.GetByID(ctx, input.ChallengedID); err != nil {
		return challenge.Challenge{}, fmt.Errorf("get challenged player: %w", err)
	} else if !ok {
		return challenge.Challenge{}, fmt.Errorf("%w: player=%s", ErrNotFound, input.ChallengedID)
	}

	challengeID, err := s.idGen.NewID()
	if err != nil {
		return challenge.Challenge{}, fmt.Errorf("generate challenge id: %w", err)
	}

	c := challenge.Challenge{
		ID:           challengeID,
		ChallengerID: challenger.ID,
		ChallengedID: input.ChallengedID,
		Wager:        challenge.ClampWager(input.Wager),
		Message:      input.Message,
		Status:       challenge.StatusPending,
		CreatedAt:    s.now().UTC(),
	}
	if err := c.Validate(); err != nil {
		return challenge.Challenge{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.challengeRepo.Create(ctx, c); err != nil {
		return challenge.Challenge{}, fmt.Errorf("create challenge: %w", err)
	}

	s.logger.InfoContext(ctx, "challenge created",
		"challenge_id", c.ID,
		"challenger_id", c.ChallengerID,
		"challenged_id", c.ChallengedID,
		"wager", c.Wager,
	)

	return c, nil
}

// Respond accepts or declines a pending challenge. Only the challenged
// player may respond.
func (s *ChallengeService) Respond(ctx context.Context, actor user.Principal, challengeID string, accept bool) (challenge.Challenge, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChallengeService.Respond")
	defer span.End()

	c, ok, err := s.challengeRepo.GetByID(ctx, challengeID)
	if err != nil {
		return challenge.Challenge{}, fmt.Errorf("get challenge: %w", err)
	}
	if !ok {
		return challenge.Challenge{}, fmt.Errorf("%w: challenge=%s", ErrNotFound, challengeID)
	}
	if c.Status != challenge.StatusPending {
		return challenge.Challenge{}, fmt.Errorf("%w: challenge is %s", ErrStateConflict, c.Status)
	}

	actorPlayer, hasPlayer, err := resolveActorPlayer(ctx, s.playerRepo, actor)
	if err != nil {
		return challenge.Challenge{}, err
	}
	if !hasPlayer || actorPlayer.ID != c.ChallengedID {
		return challenge.Challenge{}, fmt.Errorf("%w: only the challenged player may respond", ErrUnauthorized)
	}

	respondedAt := s.now().UTC()
	c.RespondedAt = &respondedAt
	if accept {
		c.Status = challenge.StatusAccepted
	} else {
		c.Status = challenge.StatusDeclined
	}

	if err := s.challengeRepo.Update(ctx, c); err != nil {
		return challenge.Challenge{}, fmt.Errorf("update challenge: %w", err)
	}

	return c, nil
}

// Complete links an accepted challenge to a recorded ledger match between
// the two players and settles the wager: the winner gains the wager on top
// of the match delta, the loser pays it, floored at zero. The completed
// status guards against paying out twice.
func (s *ChallengeService) Complete(ctx context.Context, input CompleteChallengeInput) (challenge.Challenge, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChallengeService.Complete")
	defer span.End()

	c, ok, err := s.challengeRepo.GetByID(ctx, input.ChallengeID)
	if err != nil {
		return challenge.Challenge{}, fmt.Errorf("get challenge: %w", err)
	}
	if !ok {
		return challenge.Challenge{}, fmt.Errorf("%w: challenge=%s", ErrNotFound, input.ChallengeID)
	}
	if c.Status != challenge.StatusAccepted {
		return challenge.Challenge{}, fmt.Errorf("%w: challenge is %s", ErrStateConflict, c.Status)
	}

	actorPlayer, hasPlayer, err := resolveActorPlayer(ctx, s.playerRepo, input.Actor)
	if err != nil {
		return challenge.Challenge{}, err
	}
	isParty := hasPlayer && (actorPlayer.ID == c.ChallengerID || actorPlayer.ID == c.ChallengedID)
	if !isParty {
		if err := requireAdmin(ctx, s.roles, input.Actor); err != nil {
			return challenge.Challenge{}, fmt.Errorf("%w: only a challenge party or an administrator may complete it", ErrUnauthorized)
		}
	}

	m, ok, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		return challenge.Challenge{}, fmt.Errorf("get match: %w", err)
	}
	if !ok {
		return challenge.Challenge{}, fmt.Errorf("%w: match=%s", ErrNotFound, input.MatchID)
	}

	winnerID, loserID, err := settleParties(c, m)
	if err != nil {
		return challenge.Challenge{}, err
	}

	if c.Wager > 0 {
		if err := s.applyWager(ctx, winnerID, loserID, c.Wager); err != nil {
			return challenge.Challenge{}, err
		}
	}

	completedAt := s.now().UTC()
	c.Status = challenge.StatusCompleted
	c.MatchID = m.ID
	c.CompletedAt = &completedAt

	if err := s.challengeRepo.Update(ctx, c); err != nil {
		return challenge.Challenge{}, fmt.Errorf("update challenge: %w", err)
	}

	s.logger.InfoContext(ctx, "challenge completed",
		"challenge_id", c.ID,
		"match_id", m.ID,
		"winner_id", winnerID,
		"wager", c.Wager,
	)

	return c, nil
}

// applyWager settles the stake on the singles track no matter which mode
// the linked match was played in: the wager is a bet between the two
// people, not a team result.
func (s *ChallengeService) applyWager(ctx context.Context, winnerID, loserID string, wager int) error {
	winner, ok, err := s.playerRepo.GetByID(ctx, winnerID)
	if err != nil {
		return fmt.Errorf("get player %s: %w", winnerID, err)
	}
	if !ok {
		return fmt.Errorf("%w: player=%s", ErrNotFound, winnerID)
	}
	loser, ok, err := s.playerRepo.GetByID(ctx, loserID)
	if err != nil {
		return fmt.Errorf("get player %s: %w", loserID, err)
	}
	if !ok {
		return fmt.Errorf("%w: player=%s", ErrNotFound, loserID)
	}

	now := s.now().UTC()

	winnerStats := winner.StatsFor(player.ModeSingles)
	winnerStats.Rating += wager
	winner.SetStats(player.ModeSingles, winnerStats)
	winner.UpdatedAt = now

	loserStats := loser.StatsFor(player.ModeSingles)
	loserStats.Rating -= wager
	if loserStats.Rating < 0 {
		loserStats.Rating = 0
	}
	loser.SetStats(player.ModeSingles, loserStats)
	loser.UpdatedAt = now

	if err := s.playerRepo.Update(ctx, winner); err != nil {
		return fmt.Errorf("update player %s: %w", winner.ID, err)
	}
	if err := s.playerRepo.Update(ctx, loser); err != nil {
		return fmt.Errorf("update player %s: %w", loser.ID, err)
	}

	return nil
}

// settleParties decides who won the wager from the linked match. The match
// must pit the two parties against each other with exactly one on the
// winning side.
func settleParties(c challenge.Challenge, m match.Match) (winnerID, loserID string, err error) {
	challengerWon := m.HasWinner(c.ChallengerID)
	challengedWon := m.HasWinner(c.ChallengedID)
	challengerLost := m.HasLoser(c.ChallengerID)
	challengedLost := m.HasLoser(c.ChallengedID)

	switch {
	case challengerWon && challengedLost:
		return c.ChallengerID, c.ChallengedID, nil
	case challengedWon && challengerLost:
		return c.ChallengedID, c.ChallengerID, nil
	default:
		return "", "", fmt.Errorf("%w: match %s does not pit the challenge parties against each other", ErrInvalidInput, m.ID)
	}
}
