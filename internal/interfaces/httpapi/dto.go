package httpapi

import (
	"time"

	"github.com/ovalbyte/club-ladder/internal/domain/challenge"
	"github.com/ovalbyte/club-ladder/internal/domain/match"
	"github.com/ovalbyte/club-ladder/internal/domain/player"
	"github.com/ovalbyte/club-ladder/internal/domain/ratinghistory"
	"github.com/ovalbyte/club-ladder/internal/domain/report"
	"github.com/ovalbyte/club-ladder/internal/domain/season"
	"github.com/ovalbyte/club-ladder/internal/domain/tournament"
	"github.com/ovalbyte/club-ladder/internal/usecase"
)

type statsDTO struct {
	Rating int `json:"rating"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Streak int `json:"streak"`
}

type playerDTO struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email,omitempty"`
	Linked      bool      `json:"linked"`
	Singles     statsDTO  `json:"singles"`
	Doubles     statsDTO  `json:"doubles"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func statsToDTO(s player.Stats) statsDTO {
	return statsDTO{Rating: s.Rating, Wins: s.Wins, Losses: s.Losses, Streak: s.Streak}
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Email:       p.Email,
		Linked:      p.IsLinked(),
		Singles:     statsToDTO(p.Singles),
		Doubles:     statsToDTO(p.Doubles),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func playersToDTO(items []player.Player) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, p := range items {
		out = append(out, playerToDTO(p))
	}
	return out
}

type matchDTO struct {
	ID          string    `json:"id"`
	Mode        string    `json:"mode"`
	WinnerIDs   []string  `json:"winnerIds"`
	LoserIDs    []string  `json:"loserIds"`
	ScoreWinner int       `json:"scoreWinner"`
	ScoreLoser  int       `json:"scoreLoser"`
	Delta       int       `json:"delta"`
	Friendly    bool      `json:"friendly"`
	ReporterID  string    `json:"reporterId,omitempty"`
	ResolvedAt  time.Time `json:"resolvedAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

func matchToDTO(m match.Match) matchDTO {
	return matchDTO{
		ID:          m.ID,
		Mode:        string(m.Mode),
		WinnerIDs:   m.WinnerIDs,
		LoserIDs:    m.LoserIDs,
		ScoreWinner: m.ScoreWinner,
		ScoreLoser:  m.ScoreLoser,
		Delta:       m.Delta,
		Friendly:    m.Friendly,
		ReporterID:  m.ReporterID,
		ResolvedAt:  m.ResolvedAt,
		CreatedAt:   m.CreatedAt,
	}
}

func matchesToDTO(items []match.Match) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, m := range items {
		out = append(out, matchToDTO(m))
	}
	return out
}

type historyEntryDTO struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"playerId"`
	MatchID   string    `json:"matchId"`
	Mode      string    `json:"mode"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

func historyToDTO(items []ratinghistory.Entry) []historyEntryDTO {
	out := make([]historyEntryDTO, 0, len(items))
	for _, e := range items {
		out = append(out, historyEntryDTO{
			ID:        e.ID,
			PlayerID:  e.PlayerID,
			MatchID:   e.MatchID,
			Mode:      string(e.Mode),
			Rating:    e.Rating,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}

type reportDTO struct {
	ID           string    `json:"id"`
	Mode         string    `json:"mode"`
	WinnerIDs    []string  `json:"winnerIds"`
	LoserIDs     []string  `json:"loserIds"`
	ScoreWinner  int       `json:"scoreWinner"`
	ScoreLoser   int       `json:"scoreLoser"`
	Friendly     bool      `json:"friendly"`
	ReporterID   string    `json:"reporterId"`
	Status       string    `json:"status"`
	Acknowledged []string  `json:"acknowledged"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

func reportToDTO(r report.Report) reportDTO {
	return reportDTO{
		ID:           r.ID,
		Mode:         string(r.Mode),
		WinnerIDs:    r.WinnerIDs,
		LoserIDs:     r.LoserIDs,
		ScoreWinner:  r.ScoreWinner,
		ScoreLoser:   r.ScoreLoser,
		Friendly:     r.Friendly,
		ReporterID:   r.ReporterID,
		Status:       string(r.Status),
		Acknowledged: r.Acknowledged,
		CreatedAt:    r.CreatedAt,
		ExpiresAt:    r.ExpiresAt,
	}
}

func reportsToDTO(items []report.Report) []reportDTO {
	out := make([]reportDTO, 0, len(items))
	for _, r := range items {
		out = append(out, reportToDTO(r))
	}
	return out
}

type matchupDTO struct {
	ID        string `json:"id"`
	Player1ID string `json:"player1Id,omitempty"`
	Player2ID string `json:"player2Id,omitempty"`
	WinnerID  string `json:"winnerId,omitempty"`
	Score1    int    `json:"score1"`
	Score2    int    `json:"score2"`
}

type roundDTO struct {
	Number   int          `json:"number"`
	Matchups []matchupDTO `json:"matchups"`
}

type tournamentDTO struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Format         string     `json:"format"`
	Mode           string     `json:"mode"`
	ParticipantIDs []string   `json:"participantIds"`
	Rounds         []roundDTO `json:"rounds"`
	Status         string     `json:"status"`
	WinnerID       string     `json:"winnerId,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func tournamentToDTO(t tournament.Tournament) tournamentDTO {
	rounds := make([]roundDTO, 0, len(t.Rounds))
	for _, r := range t.Rounds {
		matchups := make([]matchupDTO, 0, len(r.Matchups))
		for _, m := range r.Matchups {
			matchups = append(matchups, matchupDTO{
				ID:        m.ID,
				Player1ID: m.Player1ID,
				Player2ID: m.Player2ID,
				WinnerID:  m.WinnerID,
				Score1:    m.Score1,
				Score2:    m.Score2,
			})
		}
		rounds = append(rounds, roundDTO{Number: r.Number, Matchups: matchups})
	}

	return tournamentDTO{
		ID:             t.ID,
		Name:           t.Name,
		Format:         string(t.Format),
		Mode:           string(t.Mode),
		ParticipantIDs: t.ParticipantIDs,
		Rounds:         rounds,
		Status:         string(t.Status),
		WinnerID:       t.WinnerID,
		CreatedAt:      t.CreatedAt,
	}
}

func tournamentsToDTO(items []tournament.Tournament) []tournamentDTO {
	out := make([]tournamentDTO, 0, len(items))
	for _, t := range items {
		out = append(out, tournamentToDTO(t))
	}
	return out
}

type standingDTO struct {
	Rank          int    `json:"rank"`
	PlayerID      string `json:"playerId"`
	DisplayName   string `json:"displayName"`
	SinglesRating int    `json:"singlesRating"`
	DoublesRating int    `json:"doublesRating"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
}

type seasonDTO struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Number     int           `json:"number"`
	Status     string        `json:"status"`
	StartedAt  time.Time     `json:"startedAt"`
	EndedAt    *time.Time    `json:"endedAt,omitempty"`
	Standings  []standingDTO `json:"standings,omitempty"`
	ChampionID string        `json:"championId,omitempty"`
	MatchCount int           `json:"matchCount"`
}

func seasonToDTO(s season.Season) seasonDTO {
	standings := make([]standingDTO, 0, len(s.Standings))
	for _, st := range s.Standings {
		standings = append(standings, standingDTO{
			Rank:          st.Rank,
			PlayerID:      st.PlayerID,
			DisplayName:   st.DisplayName,
			SinglesRating: st.SinglesRating,
			DoublesRating: st.DoublesRating,
			Wins:          st.Wins,
			Losses:        st.Losses,
		})
	}

	return seasonDTO{
		ID:         s.ID,
		Name:       s.Name,
		Number:     s.Number,
		Status:     string(s.Status),
		StartedAt:  s.StartedAt,
		EndedAt:    s.EndedAt,
		Standings:  standings,
		ChampionID: s.ChampionID,
		MatchCount: s.MatchCount,
	}
}

func seasonsToDTO(items []season.Season) []seasonDTO {
	out := make([]seasonDTO, 0, len(items))
	for _, s := range items {
		out = append(out, seasonToDTO(s))
	}
	return out
}

type challengeDTO struct {
	ID           string     `json:"id"`
	ChallengerID string     `json:"challengerId"`
	ChallengedID string     `json:"challengedId"`
	Wager        int        `json:"wager"`
	Message      string     `json:"message,omitempty"`
	Status       string     `json:"status"`
	MatchID      string     `json:"matchId,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	RespondedAt  *time.Time `json:"respondedAt,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

func challengeToDTO(c challenge.Challenge) challengeDTO {
	return challengeDTO{
		ID:           c.ID,
		ChallengerID: c.ChallengerID,
		ChallengedID: c.ChallengedID,
		Wager:        c.Wager,
		Message:      c.Message,
		Status:       string(c.Status),
		MatchID:      c.MatchID,
		CreatedAt:    c.CreatedAt,
		RespondedAt:  c.RespondedAt,
		CompletedAt:  c.CompletedAt,
	}
}

func challengesToDTO(items []challenge.Challenge) []challengeDTO {
	out := make([]challengeDTO, 0, len(items))
	for _, c := range items {
		out = append(out, challengeToDTO(c))
	}
	return out
}

type snapshotDTO struct {
	Players         []playerDTO       `json:"players"`
	RecentMatches   []matchDTO        `json:"recentMatches"`
	RecentHistory   []historyEntryDTO `json:"recentHistory"`
	OpenReports     []reportDTO       `json:"openReports"`
	OpenChallenges  []challengeDTO    `json:"openChallenges"`
	OpenTournaments []tournamentDTO   `json:"openTournaments"`
	ActiveSeason    *seasonDTO        `json:"activeSeason,omitempty"`
	GeneratedAt     time.Time         `json:"generatedAt"`
}

func snapshotToDTO(s usecase.Snapshot) snapshotDTO {
	dto := snapshotDTO{
		Players:         playersToDTO(s.Players),
		RecentMatches:   matchesToDTO(s.RecentMatches),
		RecentHistory:   historyToDTO(s.RecentHistory),
		OpenReports:     reportsToDTO(s.OpenReports),
		OpenChallenges:  challengesToDTO(s.OpenChallenges),
		OpenTournaments: tournamentsToDTO(s.OpenTournaments),
		GeneratedAt:     s.GeneratedAt,
	}
	if s.ActiveSeason != nil {
		active := seasonToDTO(*s.ActiveSeason)
		dto.ActiveSeason = &active
	}
	return dto
}
