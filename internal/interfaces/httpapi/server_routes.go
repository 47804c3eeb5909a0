package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

// Read-only ladder state is public: standings pages work without a login.
func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("GET /v1/players/{playerID}/history", handler.GetPlayerHistory)
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/reports", handler.ListReports)
	mux.HandleFunc("GET /v1/tournaments", handler.ListTournaments)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}", handler.GetTournament)
	mux.HandleFunc("GET /v1/seasons", handler.ListSeasons)
	mux.HandleFunc("GET /v1/seasons/active", handler.GetActiveSeason)
	mux.HandleFunc("GET /v1/challenges", handler.ListChallenges)
	mux.HandleFunc("GET /v1/snapshot", handler.GetSnapshot)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedProfileRoutes(mux, handler, verifier)
	registerAuthorizedLedgerRoutes(mux, handler, verifier)
	registerAuthorizedReportRoutes(mux, handler, verifier)
	registerAuthorizedTournamentRoutes(mux, handler, verifier)
	registerAuthorizedSeasonRoutes(mux, handler, verifier)
	registerAuthorizedChallengeRoutes(mux, handler, verifier)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sweep-reports", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSweepReportsJob)))
}

func registerAuthorizedProfileRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/players/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMe)))
	mux.Handle("POST /v1/players/me", RequireAuth(verifier, http.HandlerFunc(handler.SetupProfile)))
	mux.Handle("POST /v1/players", RequireAuth(verifier, http.HandlerFunc(handler.CreatePlayer)))
	mux.Handle("DELETE /v1/players/{playerID}", RequireAuth(verifier, http.HandlerFunc(handler.DeletePlayer)))
}

func registerAuthorizedLedgerRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/matches", RequireAuth(verifier, http.HandlerFunc(handler.RecordMatch)))
	mux.Handle("PUT /v1/matches/{matchID}", RequireAuth(verifier, http.HandlerFunc(handler.EditMatch)))
	mux.Handle("DELETE /v1/matches/{matchID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteMatch)))
}

func registerAuthorizedReportRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/reports", RequireAuth(verifier, http.HandlerFunc(handler.CreateReport)))
	mux.Handle("POST /v1/reports/{reportID}/acknowledge", RequireAuth(verifier, http.HandlerFunc(handler.AcknowledgeReport)))
	mux.Handle("POST /v1/reports/{reportID}/dispute", RequireAuth(verifier, http.HandlerFunc(handler.DisputeReport)))
	mux.Handle("POST /v1/reports/{reportID}/resolve", RequireAuth(verifier, http.HandlerFunc(handler.ForceResolveReport)))
	mux.Handle("DELETE /v1/reports/{reportID}", RequireAuth(verifier, http.HandlerFunc(handler.RejectReport)))
}

func registerAuthorizedTournamentRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/tournaments", RequireAuth(verifier, http.HandlerFunc(handler.CreateTournament)))
	mux.Handle("POST /v1/tournaments/{tournamentID}/results", RequireAuth(verifier, http.HandlerFunc(handler.SubmitTournamentResult)))
	mux.Handle("DELETE /v1/tournaments/{tournamentID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteTournament)))
}

func registerAuthorizedSeasonRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/seasons", RequireAuth(verifier, http.HandlerFunc(handler.StartSeason)))
	mux.Handle("POST /v1/seasons/active/end", RequireAuth(verifier, http.HandlerFunc(handler.EndSeason)))
}

func registerAuthorizedChallengeRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/challenges", RequireAuth(verifier, http.HandlerFunc(handler.CreateChallenge)))
	mux.Handle("POST /v1/challenges/{challengeID}/respond", RequireAuth(verifier, http.HandlerFunc(handler.RespondChallenge)))
	mux.Handle("POST /v1/challenges/{challengeID}/complete", RequireAuth(verifier, http.HandlerFunc(handler.CompleteChallenge)))
}
