package report

import (
	"testing"
	"time"

	"github.com/ovalbyte/club-ladder/internal/domain/player"
)

func linkedPlayer(id string) player.Player {
	return player.Player{ID: id, AccountID: "acct-" + id, DisplayName: id}
}

func TestAllRequiredAcknowledged_TwoLinkedParticipants(t *testing.T) {
	players := map[string]player.Player{
		"p1": linkedPlayer("p1"),
		"p2": linkedPlayer("p2"),
	}
	r := Report{
		Mode:         player.ModeSingles,
		WinnerIDs:    []string{"p1"},
		LoserIDs:     []string{"p2"},
		Acknowledged: []string{"p1"},
	}

	if AllRequiredAcknowledged(r, players) {
		t.Fatal("one of two linked participants acked, should not promote")
	}

	r.Acknowledged = append(r.Acknowledged, "p2")
	if !AllRequiredAcknowledged(r, players) {
		t.Fatal("both linked participants acked, should promote")
	}
}

func TestAllRequiredAcknowledged_SoloLinkedParticipant(t *testing.T) {
	players := map[string]player.Player{
		"p1": linkedPlayer("p1"),
		"p2": {ID: "p2", DisplayName: "p2"}, // guest, no identity link
	}
	r := Report{
		Mode:      player.ModeSingles,
		WinnerIDs: []string{"p1"},
		LoserIDs:  []string{"p2"},
	}

	if !AllRequiredAcknowledged(r, players) {
		t.Fatal("only one participant is linked, should promote without acks")
	}
}

func TestReport_Expired(t *testing.T) {
	deadline := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := Report{ExpiresAt: deadline}

	if r.Expired(deadline.Add(-time.Second)) {
		t.Fatal("report expired before its deadline")
	}
	if !r.Expired(deadline) {
		t.Fatal("report should expire exactly at its deadline")
	}
}

func TestReport_Validate(t *testing.T) {
	r := Report{
		ID:          "rep-1",
		Mode:        player.ModeDoubles,
		WinnerIDs:   []string{"p1"},
		LoserIDs:    []string{"p3", "p4"},
		ScoreWinner: 21,
		ScoreLoser:  15,
	}
	if err := r.Validate(); err == nil {
		t.Fatal("doubles report with a 1-player side should fail validation")
	}

	r.WinnerIDs = []string{"p1", "p2"}
	if err := r.Validate(); err != nil {
		t.Fatalf("valid doubles report rejected: %v", err)
	}

	r.ScoreWinner = 15
	if err := r.Validate(); err == nil {
		t.Fatal("equal scores should fail validation")
	}
}
