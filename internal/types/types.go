package types

import (
	"time"

	"github.com/cricbid/cricket-auction-backend/internal/auction"
)

// Client -> Server
//
// join_team:
//   team_name: string
//
// place_bid:
//   bid_amount: number // must be current bid + increment, exactly

type ClientMessage struct {
	Type     string `json:"type"`
	TeamName string `json:"team_name,omitempty"`
	Amount   int    `json:"bid_amount,omitempty"`
}

// Server -> Client
//
// Every broadcast carries the full room snapshot; clients render it as-is
// and derive the countdown from the absolute deadline. Event types:
//   state_snapshot, team_joined, team_rejoined, team_disconnected,
//   auction_started, round_opened, new_bid, player_sold, player_unsold,
//   auction_complete, auction_ended, error

type ServerMessage struct {
	Type       string        `json:"type"`
	Error      string        `json:"error,omitempty"`
	BidderTeam string        `json:"bidder_team,omitempty"`
	BidAmount  int           `json:"bid_amount,omitempty"`
	PlayerID   string        `json:"player_id,omitempty"`
	Snapshot   *SnapshotView `json:"snapshot,omitempty"`
}

type SnapshotView struct {
	Version       int          `json:"version"`
	RoomCode      string       `json:"room_code"`
	Status        string       `json:"status"`
	CurrentPlayer *auction.Lot `json:"current_player,omitempty"`
	CurrentBid    int          `json:"current_bid"`
	CurrentBidder string       `json:"current_bidder,omitempty"`
	Deadline      *time.Time   `json:"deadline,omitempty"`
	LotsRemaining int          `json:"lots_remaining"`
	Teams         []TeamView   `json:"teams"`
}

type TeamView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Budget     int    `json:"budget"`
	RosterSize int    `json:"roster_size"`
	Connected  bool   `json:"connected"`
}

// NewSnapshotView projects engine state into the wire shape the client
// consumes. Money and the deadline stay server-authoritative.
func NewSnapshotView(code string, version int, s auction.State) *SnapshotView {
	view := &SnapshotView{
		Version:       version,
		RoomCode:      code,
		Status:        string(s.Phase),
		LotsRemaining: auction.LotsRemaining(s),
		Teams:         make([]TeamView, 0, len(s.Teams)),
	}

	for _, t := range s.Teams {
		view.Teams = append(view.Teams, TeamView{
			ID:         t.ID,
			Name:       t.Name,
			Budget:     t.Budget,
			RosterSize: len(t.Roster),
			Connected:  t.Connected,
		})
	}

	if s.Round != nil && !s.Round.Closed {
		if lot, ok := auction.CurrentLot(s); ok {
			view.CurrentPlayer = &lot
		}
		view.CurrentBid = s.Round.Bid
		deadline := s.Round.Deadline
		view.Deadline = &deadline
		if leader, ok := auction.TeamByID(s, s.Round.Leader); ok {
			view.CurrentBidder = leader.Name
		}
	}
	return view
}
