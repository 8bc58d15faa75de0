package ws

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/cricbid/cricket-auction-backend/internal/auction"
	"github.com/cricbid/cricket-auction-backend/internal/registry"
	"github.com/cricbid/cricket-auction-backend/internal/room"
	"github.com/cricbid/cricket-auction-backend/internal/types"
)

func Handler(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *room.Room, 1)
		reg.Inbox() <- registry.GetRoom{Code: code, Reply: reply}
		rm := <-reply
		if rm == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan room.Outbound, 8)
		clientID := randID(6)

		rm.Inbox() <- room.Join{ClientID: clientID, Outbox: out}
		defer func() { rm.Inbox() <- room.Leave{ClientID: clientID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for ob := range out {
				msg, ok := toServerMessage(code, ob)
				if !ok {
					continue
				}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop. No read deadline: a spectator may legitimately stay
		// silent for a whole auction.
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				// Treat clean close/going-away as normal:
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// Otherwise, just exit (room.Leave in defer):
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"error","error":"bad json"}`))
				continue
			}

			cmd, ok := toCommand(cm)
			if !ok {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"error","error":"unknown type"}`))
				continue
			}

			rm.Inbox() <- room.FromClient{ClientID: clientID, Cmd: cmd}
		}
	}
}

func toCommand(m types.ClientMessage) (auction.Command, bool) {
	switch m.Type {
	case "join_team":
		if m.TeamName == "" {
			return auction.Command{}, false
		}
		return auction.Command{Type: auction.CmdJoinTeam, TeamName: m.TeamName}, true
	case "place_bid":
		return auction.Command{Type: auction.CmdPlaceBid, Amount: m.Amount}, true
	default:
		return auction.Command{}, false
	}
}

// wireType maps engine events onto the protocol the client consumes.
// LedgerViolation is server-internal and never leaves the process.
func wireType(kind string) (string, bool) {
	switch kind {
	case room.KindSnapshot:
		return "state_snapshot", true
	case room.KindError:
		return "error", true
	case string(auction.EvtTeamJoined):
		return "team_joined", true
	case string(auction.EvtTeamRejoined):
		return "team_rejoined", true
	case string(auction.EvtTeamDisconnected):
		return "team_disconnected", true
	case string(auction.EvtAuctionStarted):
		return "auction_started", true
	case string(auction.EvtRoundOpened):
		return "round_opened", true
	case string(auction.EvtBidAccepted):
		return "new_bid", true
	case string(auction.EvtLotSold):
		return "player_sold", true
	case string(auction.EvtLotUnsold):
		return "player_unsold", true
	case string(auction.EvtAuctionCompleted):
		return "auction_complete", true
	case string(auction.EvtAuctionEnded):
		return "auction_ended", true
	default:
		return "", false
	}
}

func toServerMessage(code string, ob room.Outbound) (types.ServerMessage, bool) {
	t, ok := wireType(ob.Kind)
	if !ok {
		return types.ServerMessage{}, false
	}

	msg := types.ServerMessage{Type: t}
	if ob.Kind == room.KindError {
		msg.Error = ob.Err
		return msg, true
	}

	msg.Snapshot = types.NewSnapshotView(code, ob.Snapshot.Version, ob.Snapshot.State)
	msg.BidderTeam = ob.Event.TeamName
	msg.BidAmount = ob.Event.Amount
	msg.PlayerID = ob.Event.LotID
	return msg, true
}

func randID(length int) string {
	// Connection-scoped id, never shown to users; short random is plenty.
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
