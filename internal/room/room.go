package room

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/cricbid/cricket-auction-backend/internal/auction"
)

type Msg interface{ isRoomMsg() }

type Join struct {
	ClientID string
	Outbox   chan Outbound // where this client wants to receive broadcasts
}

func (Join) isRoomMsg() {}

type Leave struct{ ClientID string }

func (Leave) isRoomMsg() {}

// FromClient is a command submitted over a client connection. Rejections go
// back to this client only; accepted commands broadcast to the whole room.
type FromClient struct {
	ClientID string
	Cmd      auction.Command
}

func (FromClient) isRoomMsg() {}

// Do is a command from the HTTP side (start/end auction). The reply carries
// the rejection, if any.
type Do struct {
	Cmd   auction.Command
	Reply chan error
}

func (Do) isRoomMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

// expired is enqueued by the timer goroutine so expiry is serialized with
// bids on the same inbox. gen guards against fires from a replaced timer.
type expired struct{ gen int }

func (expired) isRoomMsg() {}

const (
	KindSnapshot = "StateSnapshot"
	KindError    = "Error"
)

type Snapshot struct {
	Version int
	State   auction.State
}

// Outbound is one message to one client. Kind is either an engine event
// type, KindSnapshot, or KindError.
type Outbound struct {
	Kind     string
	Err      string
	Event    auction.Event
	Snapshot Snapshot
}

type View struct {
	Code       string
	Version    int
	NumClients int
	State      auction.State
}

type Room struct {
	code     string
	inbox    chan Msg
	state    auction.State
	version  int
	clients  map[string]chan Outbound
	teamOf   map[string]string // client id -> team id, bound on join
	clock    clockwork.Clock
	timer    clockwork.Timer
	timerGen int
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(parent context.Context, code string, initial auction.State, clock clockwork.Clock, log *zap.Logger) *Room {
	ctx, cancel := context.WithCancel(parent)

	r := &Room{
		code:    code,
		inbox:   make(chan Msg, 64),
		state:   initial,
		clients: make(map[string]chan Outbound),
		teamOf:  make(map[string]string),
		clock:   clock,
		log:     log.With(zap.String("room", code)),
		ctx:     ctx,
		cancel:  cancel,
	}

	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) Code() string { return r.code }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- Outbound{
					Kind:     KindSnapshot,
					Snapshot: Snapshot{Version: r.version, State: r.state},
				}

			case Leave:
				delete(r.clients, msg.ClientID)
				if teamID, ok := r.teamOf[msg.ClientID]; ok {
					delete(r.teamOf, msg.ClientID)
					cmd := auction.Command{
						Type:   auction.CmdTeamDisconnected,
						TeamID: teamID,
						Now:    r.clock.Now(),
					}
					if events, newState, err := auction.Apply(r.state, cmd); err == nil {
						r.commit(events, newState)
					}
				}

			case FromClient:
				r.handleClient(msg)

			case Do:
				cmd := msg.Cmd
				cmd.Now = r.clock.Now()
				events, newState, err := auction.Apply(r.state, cmd)
				msg.Reply <- err
				if err == nil {
					r.commit(events, newState)
				}

			case GetState:
				msg.Reply <- View{
					Code:       r.code,
					Version:    r.version,
					NumClients: len(r.clients),
					State:      r.state,
				}

			case expired:
				if msg.gen != r.timerGen {
					// A bid re-armed the clock after this timer was
					// scheduled; its deadline no longer exists.
					break
				}
				cmd := auction.Command{Type: auction.CmdRoundExpired, Now: r.clock.Now()}
				events, newState, err := auction.Apply(r.state, cmd)
				if err != nil {
					break
				}
				r.commit(events, newState)

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) handleClient(msg FromClient) {
	cmd := msg.Cmd
	cmd.Now = r.clock.Now()

	switch cmd.Type {
	case auction.CmdJoinTeam:
		// Mint the id here so Apply stays deterministic. On a rejoin the
		// engine answers with the original id instead.
		cmd.TeamID = uuid.NewString()

	case auction.CmdPlaceBid:
		teamID, ok := r.teamOf[msg.ClientID]
		if !ok {
			r.sendError(msg.ClientID, "join a team before bidding")
			return
		}
		cmd.TeamID = teamID
	}

	events, newState, err := auction.Apply(r.state, cmd)
	if err != nil {
		r.sendError(msg.ClientID, err.Error())
		return
	}

	for _, ev := range events {
		if ev.Type == auction.EvtTeamJoined || ev.Type == auction.EvtTeamRejoined {
			r.teamOf[msg.ClientID] = ev.TeamID
		}
	}
	r.commit(events, newState)
}

// commit is the single write path: swap state, bump version, run event side
// effects (timer arm/stop, logging), then publish. Broadcast is decoupled
// from the state change so a slow client can never block a mutation.
func (r *Room) commit(events []auction.Event, newState auction.State) {
	r.state = newState
	r.version++

	for _, ev := range events {
		switch ev.Type {
		case auction.EvtRoundOpened, auction.EvtBidAccepted:
			r.armTimer()
		case auction.EvtAuctionCompleted, auction.EvtAuctionEnded:
			r.stopTimer()
		case auction.EvtLedgerViolation:
			r.log.Error("ledger violation, lot forced unsold",
				zap.String("team_id", ev.TeamID),
				zap.String("lot_id", ev.LotID),
				zap.Int("amount", ev.Amount))
		}
	}

	snap := Snapshot{Version: r.version, State: r.state}
	for _, ev := range events {
		r.broadcast(Outbound{Kind: string(ev.Type), Event: ev, Snapshot: snap})
	}
}

// armTimer schedules the single expiry task for the active round, replacing
// any previous one. There is never more than one live timer per room.
func (r *Room) armTimer() {
	r.stopTimer()
	if r.state.Round == nil || r.state.Round.Closed {
		return
	}

	d := r.state.Round.Deadline.Sub(r.clock.Now())
	r.timer = r.clock.NewTimer(d)
	gen := r.timerGen

	go func(t clockwork.Timer, gen int) {
		select {
		case <-t.Chan():
			select {
			case r.inbox <- expired{gen: gen}:
			case <-r.ctx.Done():
			}
		case <-r.ctx.Done():
			stopAndDrain(t)
		}
	}(r.timer, gen)
}

func (r *Room) stopTimer() {
	if r.timer != nil {
		stopAndDrain(r.timer)
		r.timer = nil
	}
	r.timerGen++
}

// stopAndDrain per the time.Timer.Stop contract, so a fired-but-unread
// timer doesn't leak its channel send.
func stopAndDrain(t clockwork.Timer) {
	if !t.Stop() {
		select {
		case <-t.Chan():
		default:
		}
	}
}

func (r *Room) sendError(clientID string, msg string) {
	ch, ok := r.clients[clientID]
	if !ok {
		return
	}
	select {
	case ch <- Outbound{Kind: KindError, Err: msg}:
	default:
		close(ch)
		delete(r.clients, clientID)
	}
}

func (r *Room) broadcast(out Outbound) {
	for id, ch := range r.clients {
		select {
		case ch <- out:
			// ok
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(r.clients, id)
		}
	}
}

func (r *Room) shutdown() {
	r.stopTimer()
	for id, ch := range r.clients {
		close(ch)
		delete(r.clients, id)
	}
	r.cancel()
}
