package auction

import (
	"errors"
	"time"
)

var ErrRoomNotJoinable = errors.New("room not joinable")
var ErrRoomFull = errors.New("room is full")
var ErrDuplicateName = errors.New("team name already taken")
var ErrNotEnoughTeams = errors.New("need at least two teams to start")
var ErrAlreadyStarted = errors.New("auction already started")
var ErrAuctionComplete = errors.New("auction already completed")
var ErrUnknownTeam = errors.New("unknown team")
var ErrRoundClosed = errors.New("round is closed")
var ErrInvalidIncrement = errors.New("bid must be exactly one increment above current bid")
var ErrAlreadyLeading = errors.New("already the highest bidder")
var ErrInsufficientFunds = errors.New("insufficient budget")
var ErrRosterFull = errors.New("roster is full")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhaseActive   Phase = "active"
	PhaseComplete Phase = "completed"
)

type Role string

const (
	RoleBatsman      Role = "batsman"
	RoleBowler       Role = "bowler"
	RoleAllRounder   Role = "all-rounder"
	RoleWicketKeeper Role = "wicket-keeper"
)

// Lot is one player offered at auction. Immutable reference data.
type Lot struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	Country   string `json:"country"`
	Rating    int    `json:"rating"`
	BasePrice int    `json:"base_price"`
}

type Team struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Budget    int      `json:"budget"`
	Roster    []string `json:"roster"` // lot ids, in purchase order
	Connected bool     `json:"connected"`
}

// Round is the bidding state for the single active lot. Bid only moves up,
// and it moves only through Apply.
type Round struct {
	LotID    string    `json:"lot_id"`
	Bid      int       `json:"bid"`
	Leader   string    `json:"leader"` // team id, "" while no bids
	Deadline time.Time `json:"deadline"`
	Closed   bool      `json:"closed"`
}

type Rules struct {
	StartingBudget int
	Increment      int
	RosterCap      int
	MaxTeams       int
	MinTeams       int
	BidWindow      time.Duration
}

type State struct {
	Phase  Phase
	Teams  []Team
	Queue  []Lot
	Cursor int
	Round  *Round
	Rules  Rules
}

type CommandType string

const (
	CmdJoinTeam         CommandType = "JoinTeam"
	CmdStartAuction     CommandType = "StartAuction"
	CmdPlaceBid         CommandType = "PlaceBid"
	CmdRoundExpired     CommandType = "RoundExpired"
	CmdTeamDisconnected CommandType = "TeamDisconnected"
	CmdEndAuction       CommandType = "EndAuction"
)

// Command carries Now because the engine itself never reads the clock; the
// room loop stamps every command with its (possibly fake) clock before Apply.
type Command struct {
	Type     CommandType
	TeamID   string
	TeamName string
	Amount   int
	Now      time.Time
}

type EventType string

const (
	EvtTeamJoined       EventType = "TeamJoined"
	EvtTeamRejoined     EventType = "TeamRejoined"
	EvtTeamDisconnected EventType = "TeamDisconnected"
	EvtAuctionStarted   EventType = "AuctionStarted"
	EvtRoundOpened      EventType = "RoundOpened"
	EvtBidAccepted      EventType = "BidAccepted"
	EvtLotSold          EventType = "LotSold"
	EvtLotUnsold        EventType = "LotUnsold"
	EvtLedgerViolation  EventType = "LedgerViolation"
	EvtAuctionCompleted EventType = "AuctionCompleted"
	EvtAuctionEnded     EventType = "AuctionEnded"
)

type Event struct {
	Type     EventType
	TeamID   string
	TeamName string
	LotID    string
	Amount   int
}

// Apply is the whole state machine: one command in, zero or more events and
// the successor state out. It is pure apart from reading cmd.Now; callers own
// serialization (one Apply at a time per room).
func Apply(s State, cmd Command) ([]Event, State, error) {
	switch cmd.Type {
	case CmdJoinTeam:
		return applyJoin(s, cmd)

	case CmdStartAuction:
		return applyStart(s, cmd)

	case CmdPlaceBid:
		return applyBid(s, cmd)

	case CmdRoundExpired:
		return applyExpiry(s, cmd)

	case CmdTeamDisconnected:
		return applyDisconnect(s, cmd)

	case CmdEndAuction:
		return applyEnd(s, cmd)

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

func applyStart(s State, cmd Command) ([]Event, State, error) {
	switch s.Phase {
	case PhaseActive:
		return nil, s, ErrAlreadyStarted
	case PhaseComplete:
		return nil, s, ErrAuctionComplete
	}
	if len(s.Teams) < s.Rules.MinTeams {
		return nil, s, ErrNotEnoughTeams
	}

	lot, ok := CurrentLot(s)
	if !ok {
		// Empty queue: nothing to auction, room is done immediately.
		newState := s
		newState.Phase = PhaseComplete
		return []Event{{Type: EvtAuctionCompleted}}, newState, nil
	}

	newState := s
	newState.Phase = PhaseActive
	newState.Round = openRound(lot, cmd.Now, s.Rules.BidWindow)

	events := []Event{
		{Type: EvtAuctionStarted},
		{Type: EvtRoundOpened, LotID: lot.ID, Amount: lot.BasePrice},
	}
	return events, newState, nil
}

func applyExpiry(s State, cmd Command) ([]Event, State, error) {
	if s.Phase != PhaseActive || s.Round == nil || s.Round.Closed {
		return nil, s, ErrRoundClosed
	}

	events, newState := finalizeRound(s)

	// Move to the next lot, or finish.
	newState.Cursor++
	if lot, ok := CurrentLot(newState); ok {
		newState.Round = openRound(lot, cmd.Now, s.Rules.BidWindow)
		events = append(events, Event{Type: EvtRoundOpened, LotID: lot.ID, Amount: lot.BasePrice})
	} else {
		newState.Phase = PhaseComplete
		newState.Round = nil
		events = append(events, Event{Type: EvtAuctionCompleted})
	}
	return events, newState, nil
}

func applyEnd(s State, cmd Command) ([]Event, State, error) {
	if s.Phase == PhaseComplete {
		// Idempotent: ending a finished auction changes nothing.
		return nil, s, nil
	}

	newState := s
	newState.Phase = PhaseComplete
	if newState.Round != nil && !newState.Round.Closed {
		closed := *newState.Round
		closed.Closed = true
		newState.Round = &closed
	}
	return []Event{{Type: EvtAuctionEnded}}, newState, nil
}
