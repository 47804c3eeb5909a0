package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ovalbyte/club-ladder/internal/domain/player"
	"github.com/ovalbyte/club-ladder/internal/domain/rating"
	"github.com/ovalbyte/club-ladder/internal/domain/ratinghistory"
	"github.com/ovalbyte/club-ladder/internal/domain/role"
	"github.com/ovalbyte/club-ladder/internal/domain/user"
	idgen "github.com/ovalbyte/club-ladder/internal/platform/id"
	"github.com/ovalbyte/club-ladder/internal/platform/logging"
)

type SetupProfileInput struct {
	Actor       user.Principal
	DisplayName string
}

type CreatePlayerInput struct {
	Actor       user.Principal
	DisplayName string
	Email       string
}

// PlayerService manages the roster. Players start at the baseline rating in
// both modes; profile setup binds a player to a verified account, while
// admin-created players stay unlinked until claimed.
type PlayerService struct {
	playerRepo  player.Repository
	historyRepo ratinghistory.Repository
	roles       role.Store
	idGen       idgen.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewPlayerService(
	playerRepo player.Repository,
	historyRepo ratinghistory.Repository,
	roles role.Store,
	idGen idgen.Generator,
	logger *logging.Logger,
) *PlayerService {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &PlayerService{
		playerRepo:  playerRepo,
		historyRepo: historyRepo,
		roles:       roles,
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *PlayerService) List(ctx context.Context) ([]player.Player, error) {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	return players, nil
}

func (s *PlayerService) Get(ctx context.Context, playerID string) (player.Player, error) {
	p, ok, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !ok {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	return p, nil
}

// Me returns the player linked to the actor's account.
func (s *PlayerService) Me(ctx context.Context, actor user.Principal) (player.Player, error) {
	p, ok, err := resolveActorPlayer(ctx, s.playerRepo, actor)
	if err != nil {
		return player.Player{}, err
	}
	if !ok {
		return player.Player{}, fmt.Errorf("%w: no player profile linked to this account", ErrNotFound)
	}

	return p, nil
}

// History returns the rating trajectory of one player, oldest first.
func (s *PlayerService) History(ctx context.Context, playerID string) ([]ratinghistory.Entry, error) {
	if _, err := s.Get(ctx, playerID); err != nil {
		return nil, err
	}

	entries, err := s.historyRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("list rating history: %w", err)
	}

	return entries, nil
}

// SetupProfile creates the actor's own player, bound to their account. Each
// account gets at most one player.
func (s *PlayerService) SetupProfile(ctx context.Context, input SetupProfileInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.SetupProfile")
	defer span.End()

	if _, ok, err := s.playerRepo.GetByAccountID(ctx, input.Actor.AccountID); err != nil {
		return player.Player{}, fmt.Errorf("get player by account: %w", err)
	} else if ok {
		return player.Player{}, fmt.Errorf("%w: account already has a player profile", ErrStateConflict)
	}

	displayName := input.DisplayName
	if displayName == "" {
		displayName = input.Actor.DisplayName
	}

	p, err := s.newPlayer(displayName, input.Actor.Email)
	if err != nil {
		return player.Player{}, err
	}
	p.AccountID = input.Actor.AccountID

	if err := s.playerRepo.Create(ctx, p); err != nil {
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}

	s.logger.InfoContext(ctx, "player profile created", "player_id", p.ID)
	return p, nil
}

// Create adds an unlinked roster entry. Administrator only.
func (s *PlayerService) Create(ctx context.Context, input CreatePlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Create")
	defer span.End()

	if err := requireAdmin(ctx, s.roles, input.Actor); err != nil {
		return player.Player{}, err
	}

	p, err := s.newPlayer(input.DisplayName, input.Email)
	if err != nil {
		return player.Player{}, err
	}

	if err := s.playerRepo.Create(ctx, p); err != nil {
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}

	s.logger.InfoContext(ctx, "player created", "player_id", p.ID)
	return p, nil
}

// Delete removes a player from the roster. Recorded matches and history
// keep the player id; only the roster entry and its account link go away.
// Administrator only.
func (s *PlayerService) Delete(ctx context.Context, actor user.Principal, playerID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Delete")
	defer span.End()

	if err := requireAdmin(ctx, s.roles, actor); err != nil {
		return err
	}

	if _, err := s.Get(ctx, playerID); err != nil {
		return err
	}

	if err := s.playerRepo.Delete(ctx, playerID); err != nil {
		return fmt.Errorf("delete player: %w", err)
	}

	s.logger.InfoContext(ctx, "player deleted", "player_id", playerID)
	return nil
}

func (s *PlayerService) newPlayer(displayName, email string) (player.Player, error) {
	playerID, err := s.idGen.NewID()
	if err != nil {
		return player.Player{}, fmt.Errorf("generate player id: %w", err)
	}

	now := s.now().UTC()
	baseline := player.Stats{Rating: rating.Initial}
	p := player.Player{
		ID:          playerID,
		DisplayName: displayName,
		Email:       email,
		Singles:     baseline,
		Doubles:     baseline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := p.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return p, nil
}
