package auction

import (
	"slices"
	"time"
)

func openRound(lot Lot, now time.Time, window time.Duration) *Round {
	return &Round{
		LotID:    lot.ID,
		Bid:      lot.BasePrice,
		Leader:   "",
		Deadline: now.Add(window),
	}
}

// applyBid validates and accepts a single bid. Validation order matters:
// the first failing check is the reason the client sees.
func applyBid(s State, cmd Command) ([]Event, State, error) {
	team, _, ok := findTeam(s, cmd.TeamID)
	if !ok {
		return nil, s, ErrUnknownTeam
	}

	if s.Phase != PhaseActive || s.Round == nil || s.Round.Closed {
		return nil, s, ErrRoundClosed
	}
	if cmd.Amount != s.Round.Bid+s.Rules.Increment {
		return nil, s, ErrInvalidIncrement
	}
	if s.Round.Leader == team.ID {
		return nil, s, ErrAlreadyLeading
	}
	if team.Budget-cmd.Amount < 0 {
		return nil, s, ErrInsufficientFunds
	}
	if len(team.Roster) >= s.Rules.RosterCap {
		return nil, s, ErrRosterFull
	}

	// Accepted: new round value so the old state stays untouched. The
	// deadline re-arms to a full window from now.
	next := Round{
		LotID:    s.Round.LotID,
		Bid:      cmd.Amount,
		Leader:   team.ID,
		Deadline: cmd.Now.Add(s.Rules.BidWindow),
	}
	newState := s
	newState.Round = &next

	events := []Event{{
		Type:     EvtBidAccepted,
		TeamID:   team.ID,
		TeamName: team.Name,
		LotID:    next.LotID,
		Amount:   cmd.Amount,
	}}
	return events, newState, nil
}

// finalizeRound closes the active round and settles the ledger. The returned
// state always carries a Closed round; callers advance the queue afterwards.
func finalizeRound(s State) ([]Event, State) {
	round := *s.Round
	round.Closed = true
	newState := s
	newState.Round = &round

	if round.Leader == "" {
		return []Event{{Type: EvtLotUnsold, LotID: round.LotID}}, newState
	}

	winner, idx, ok := findTeam(s, round.Leader)
	if !ok || winner.Budget < round.Bid {
		// Should be unreachable: the arbiter checked funds on acceptance.
		// Treat as a ledger violation and let the lot go unsold rather
		// than drive a budget negative.
		events := []Event{
			{Type: EvtLedgerViolation, TeamID: round.Leader, LotID: round.LotID, Amount: round.Bid},
			{Type: EvtLotUnsold, LotID: round.LotID},
		}
		return events, newState
	}

	teams := slices.Clone(s.Teams)
	teams[idx].Budget -= round.Bid
	teams[idx].Roster = append(slices.Clip(teams[idx].Roster), round.LotID)
	newState.Teams = teams

	events := []Event{{
		Type:     EvtLotSold,
		TeamID:   winner.ID,
		TeamName: winner.Name,
		LotID:    round.LotID,
		Amount:   round.Bid,
	}}
	return events, newState
}
