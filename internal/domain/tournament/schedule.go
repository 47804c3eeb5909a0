package tournament

import "fmt"

// matchupID builds the deterministic id for a matchup slot. Ids are stable
// across backends so result submission can address a matchup directly.
func matchupID(round, index int) string {
	return fmt.Sprintf("r%d-m%d", round, index)
}

// BuildSingleElimination lays out a bracket for participants already ordered
// by seed (strongest first). The field is padded to the next power of two
// with byes; round 1 pairs seed i against seed size-1-i. Matchups that end
// up with exactly one real participant are resolved immediately and the
// winner is propagated into round 2.
func BuildSingleElimination(seeded []string) []Round {
	if len(seeded) < 2 {
		return nil
	}

	size := 1
	for size < len(seeded) {
		size *= 2
	}

	slots := make([]string, size)
	copy(slots, seeded)

	rounds := make([]Round, 0)
	number := 1
	for n := size / 2; n >= 1; n /= 2 {
		matchups := make([]Matchup, n)
		for i := range matchups {
			matchups[i] = Matchup{ID: matchupID(number, i)}
		}
		rounds = append(rounds, Round{Number: number, Matchups: matchups})
		number++
	}

	first := rounds[0].Matchups
	for i := 0; i < size/2; i++ {
		first[i].Player1ID = slots[i]
		first[i].Player2ID = slots[size-1-i]
	}

	// Byes auto-advance before any result is submitted.
	for i := range first {
		m := &first[i]
		switch {
		case m.Player1ID != "" && m.Player2ID == "":
			m.WinnerID = m.Player1ID
		case m.Player1ID == "" && m.Player2ID != "":
			m.WinnerID = m.Player2ID
		}
		if m.WinnerID != "" && len(rounds) > 1 {
			propagate(rounds, 0, i, m.WinnerID)
		}
	}

	return rounds
}

// propagate writes the winner of rounds[roundIdx].Matchups[matchupIdx] into
// its slot in the next round: matchup index/2, player1 slot on even index,
// player2 on odd.
func propagate(rounds []Round, roundIdx, matchupIdx int, winnerID string) {
	if roundIdx+1 >= len(rounds) {
		return
	}
	next := &rounds[roundIdx+1].Matchups[matchupIdx/2]
	if matchupIdx%2 == 0 {
		next.Player1ID = winnerID
	} else {
		next.Player2ID = winnerID
	}
}

// BuildRoundRobin creates exactly one matchup per unordered participant
// pair. Matchups are grouped into rounds of floor(n/2) purely for display
// pacing; the grouping carries no competitive meaning.
func BuildRoundRobin(participants []string) []Round {
	pairs := make([]Matchup, 0, len(participants)*(len(participants)-1)/2)
	for i := 0; i < len(participants); i++ {
		for j := i + 1; j < len(participants); j++ {
			pairs = append(pairs, Matchup{
				Player1ID: participants[i],
				Player2ID: participants[j],
			})
		}
	}

	perRound := len(participants) / 2
	if perRound < 1 {
		perRound = 1
	}

	rounds := make([]Round, 0)
	for start := 0; start < len(pairs); start += perRound {
		end := start + perRound
		if end > len(pairs) {
			end = len(pairs)
		}
		number := len(rounds) + 1
		chunk := make([]Matchup, end-start)
		copy(chunk, pairs[start:end])
		for i := range chunk {
			chunk[i].ID = matchupID(number, i)
		}
		rounds = append(rounds, Round{Number: number, Matchups: chunk})
	}

	return rounds
}

// ApplyResult records a winner and score on a matchup, propagates it in
// bracket format, and recomputes completion.
func (t *Tournament) ApplyResult(matchupID, winnerID string, score1, score2 int) error {
	ri, mi, ok := t.FindMatchup(matchupID)
	if !ok {
		return fmt.Errorf("matchup %s not found", matchupID)
	}

	m := &t.Rounds[ri].Matchups[mi]
	if !m.Playable() {
		return fmt.Errorf("matchup %s is not ready to play", matchupID)
	}
	if winnerID != m.Player1ID && winnerID != m.Player2ID {
		return fmt.Errorf("player %s is not in matchup %s", winnerID, matchupID)
	}

	m.WinnerID = winnerID
	m.Score1 = score1
	m.Score2 = score2

	if t.Format == FormatSingleElimination {
		propagate(t.Rounds, ri, mi, winnerID)
	}

	t.recomputeCompletion()
	return nil
}

// recomputeCompletion marks the tournament completed once every playable
// matchup is decided, and determines the overall winner.
func (t *Tournament) recomputeCompletion() {
	for _, round := range t.Rounds {
		for _, m := range round.Matchups {
			if m.Playable() && !m.Decided() {
				return
			}
		}
	}

	t.Status = StatusCompleted
	t.WinnerID = t.overallWinner()
}

func (t *Tournament) overallWinner() string {
	if t.Format == FormatSingleElimination {
		final := t.Rounds[len(t.Rounds)-1].Matchups
		if len(final) == 1 {
			return final[0].WinnerID
		}
		return ""
	}

	return t.roundRobinWinner()
}

// roundRobinWinner ranks by recorded wins. Ties break by head-to-head when
// exactly two participants are level and they met, then by participant
// (seed) order.
func (t *Tournament) roundRobinWinner() string {
	wins := make(map[string]int, len(t.ParticipantIDs))
	for _, round := range t.Rounds {
		for _, m := range round.Matchups {
			if m.Decided() {
				wins[m.WinnerID]++
			}
		}
	}

	best := -1
	leaders := make([]string, 0, 2)
	for _, id := range t.ParticipantIDs {
		switch {
		case wins[id] > best:
			best = wins[id]
			leaders = leaders[:0]
			leaders = append(leaders, id)
		case wins[id] == best:
			leaders = append(leaders, id)
		}
	}

	if len(leaders) == 2 {
		if winner := t.headToHead(leaders[0], leaders[1]); winner != "" {
			return winner
		}
	}
	if len(leaders) > 0 {
		return leaders[0]
	}
	return ""
}

func (t *Tournament) headToHead(a, b string) string {
	for _, round := range t.Rounds {
		for _, m := range round.Matchups {
			if !m.Decided() {
				continue
			}
			if (m.Player1ID == a && m.Player2ID == b) || (m.Player1ID == b && m.Player2ID == a) {
				return m.WinnerID
			}
		}
	}
	return ""
}
