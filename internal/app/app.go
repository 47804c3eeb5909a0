package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/ovalbyte/club-ladder/external/gatekeeper"
	"github.com/ovalbyte/club-ladder/internal/config"
	"github.com/ovalbyte/club-ladder/internal/domain/challenge"
	"github.com/ovalbyte/club-ladder/internal/domain/match"
	"github.com/ovalbyte/club-ladder/internal/domain/player"
	"github.com/ovalbyte/club-ladder/internal/domain/ratinghistory"
	"github.com/ovalbyte/club-ladder/internal/domain/report"
	"github.com/ovalbyte/club-ladder/internal/domain/role"
	"github.com/ovalbyte/club-ladder/internal/domain/season"
	"github.com/ovalbyte/club-ladder/internal/domain/tournament"
	"github.com/ovalbyte/club-ladder/internal/infrastructure/repository/memory"
	"github.com/ovalbyte/club-ladder/internal/infrastructure/repository/postgres"
	"github.com/ovalbyte/club-ladder/internal/interfaces/httpapi"
	idgen "github.com/ovalbyte/club-ladder/internal/platform/id"
	"github.com/ovalbyte/club-ladder/internal/platform/logging"
	"github.com/ovalbyte/club-ladder/internal/platform/resilience"
	"github.com/ovalbyte/club-ladder/internal/usecase"
)

type repositories struct {
	players     player.Repository
	matches     match.Repository
	history     ratinghistory.Repository
	reports     report.Repository
	tournaments tournament.Repository
	seasons     season.Repository
	challenges  challenge.Repository
	roles       role.Store
}

// NewHTTPServer wires repositories, services and the router into a ready
// http.Server. The returned cleanup closes the database handle when one
// was opened.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	repos, cleanup, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	idGen := idgen.NewRandomGenerator()

	matchSvc := usecase.NewMatchService(repos.players, repos.matches, repos.history, repos.roles, idGen, logger, cfg.MatchEditGrace)
	reportSvc := usecase.NewReportService(repos.players, repos.reports, matchSvc, repos.roles, idGen, logger, cfg.ReportConfirmTTL)
	playerSvc := usecase.NewPlayerService(repos.players, repos.history, repos.roles, idGen, logger)
	tournamentSvc := usecase.NewTournamentService(repos.players, repos.tournaments, repos.roles, idGen, logger)
	seasonSvc := usecase.NewSeasonService(repos.players, repos.matches, repos.history, repos.seasons, repos.roles, idGen, logger)
	challengeSvc := usecase.NewChallengeService(repos.players, repos.matches, repos.challenges, repos.roles, idGen, logger)
	snapshotSvc := usecase.NewSnapshotService(repos.players, repos.matches, repos.history, repos.reports, repos.challenges, repos.tournaments, repos.seasons, reportSvc, logger)

	verifier := gatekeeper.NewClient(gatekeeper.Config{
		BaseURL:         cfg.GatekeeperBaseURL,
		Timeout:         cfg.GatekeeperTimeout,
		CacheTTL:        cfg.GatekeeperCacheTTL,
		CacheMaxEntries: cfg.GatekeeperCacheMaxEntries,
		Breaker: resilience.BreakerConfig{
			Enabled:          cfg.GatekeeperCircuitEnabled,
			FailureThreshold: cfg.GatekeeperCircuitFailureCount,
			OpenTimeout:      cfg.GatekeeperCircuitOpenTimeout,
			HalfOpenProbes:   cfg.GatekeeperCircuitHalfOpenReq,
		},
	}, logger)

	handler := httpapi.NewHandler(playerSvc, matchSvc, reportSvc, tournamentSvc, seasonSvc, challengeSvc, snapshotSvc, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = cleanup()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, func() error, error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		db, err := openDB(cfg)
		if err != nil {
			return repositories{}, nil, fmt.Errorf("open database: %w", err)
		}
		logger.Info("storage backend ready", "backend", cfg.StorageBackend, "db_name", dbNameFromURL(cfg.DBURL))

		return repositories{
			players:     postgres.NewPlayerRepository(db),
			matches:     postgres.NewMatchRepository(db),
			history:     postgres.NewRatingHistoryRepository(db),
			reports:     postgres.NewReportRepository(db),
			tournaments: postgres.NewTournamentRepository(db),
			seasons:     postgres.NewSeasonRepository(db),
			challenges:  postgres.NewChallengeRepository(db),
			roles:       postgres.NewRoleStore(db),
		}, db.Close, nil
	default:
		logger.Info("storage backend ready", "backend", cfg.StorageBackend)

		return repositories{
			players:     memory.NewPlayerRepository(),
			matches:     memory.NewMatchRepository(),
			history:     memory.NewRatingHistoryRepository(),
			reports:     memory.NewReportRepository(),
			tournaments: memory.NewTournamentRepository(),
			seasons:     memory.NewSeasonRepository(),
			challenges:  memory.NewChallengeRepository(),
			roles:       memory.NewRoleStore(cfg.AdminAccountIDs),
		}, func() error { return nil }, nil
	}
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Connect("postgres", cfg.DBURL,
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
