package auction

import "slices"

func findTeam(s State, teamID string) (Team, int, bool) {
	for i, t := range s.Teams {
		if t.ID == teamID {
			return t, i, true
		}
	}
	return Team{}, -1, false
}

// TeamByID looks a team up without exposing ledger internals.
func TeamByID(s State, teamID string) (Team, bool) {
	t, _, ok := findTeam(s, teamID)
	return t, ok
}

func findTeamByName(s State, name string) (Team, int, bool) {
	for i, t := range s.Teams {
		if t.Name == name {
			return t, i, true
		}
	}
	return Team{}, -1, false
}

// applyJoin admits a new team, or hands a ledger entry back to a team
// reconnecting under the same name. Budget and roster survive disconnects.
func applyJoin(s State, cmd Command) ([]Event, State, error) {
	if s.Phase == PhaseComplete {
		return nil, s, ErrRoomNotJoinable
	}

	if existing, idx, ok := findTeamByName(s, cmd.TeamName); ok {
		if existing.Connected {
			return nil, s, ErrDuplicateName
		}
		teams := slices.Clone(s.Teams)
		teams[idx].Connected = true
		newState := s
		newState.Teams = teams
		evt := Event{Type: EvtTeamRejoined, TeamID: existing.ID, TeamName: existing.Name}
		return []Event{evt}, newState, nil
	}

	if len(s.Teams) >= s.Rules.MaxTeams {
		return nil, s, ErrRoomFull
	}

	team := Team{
		ID:        cmd.TeamID,
		Name:      cmd.TeamName,
		Budget:    s.Rules.StartingBudget,
		Roster:    []string{},
		Connected: true,
	}
	newState := s
	newState.Teams = append(slices.Clip(s.Teams), team)

	evt := Event{Type: EvtTeamJoined, TeamID: team.ID, TeamName: team.Name}
	return []Event{evt}, newState, nil
}

// applyDisconnect only flips connection status. Leadership of the active
// round and the ledger entry are untouched; the team can rejoin by name.
func applyDisconnect(s State, cmd Command) ([]Event, State, error) {
	_, idx, ok := findTeam(s, cmd.TeamID)
	if !ok {
		return nil, s, nil
	}

	teams := slices.Clone(s.Teams)
	teams[idx].Connected = false
	newState := s
	newState.Teams = teams

	evt := Event{Type: EvtTeamDisconnected, TeamID: teams[idx].ID, TeamName: teams[idx].Name}
	return []Event{evt}, newState, nil
}
