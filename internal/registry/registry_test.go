package registry

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/cricbid/cricket-auction-backend/internal/auction"
	"github.com/cricbid/cricket-auction-backend/internal/room"
)

var testRules = auction.Rules{
	StartingBudget: 8000,
	Increment:      25,
	RosterCap:      15,
	MaxTeams:       8,
	MinTeams:       2,
	BidWindow:      30 * time.Second,
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	rng := rand.New(rand.NewSource(42))
	pool := auction.NewPool(40, rng)
	return New(ctx, pool, testRules, clockwork.NewFakeClock(), rng, zap.NewNop())
}

func TestRegistry_Create_Get_SamePointer(t *testing.T) {
	g := newTestRegistry(t)
	reply := make(chan *room.Room, 1)

	g.Inbox() <- CreateRoom{Code: "ABC123", Reply: reply}
	rm1 := <-reply

	g.Inbox() <- GetRoom{Code: "ABC123", Reply: reply}
	rm2 := <-reply

	if rm1 == nil || rm2 == nil || rm1 != rm2 {
		t.Fatalf("expected same room pointer")
	}
}

func TestRegistry_CreateIsIdempotentPerCode(t *testing.T) {
	g := newTestRegistry(t)
	reply := make(chan *room.Room, 1)

	g.Inbox() <- CreateRoom{Code: "ABC123", Reply: reply}
	rm1 := <-reply
	g.Inbox() <- CreateRoom{Code: "ABC123", Reply: reply}
	rm2 := <-reply

	if rm1 != rm2 {
		t.Fatalf("create must not replace a live room")
	}
}

func TestRegistry_GetUnknownCodeIsNil(t *testing.T) {
	g := newTestRegistry(t)
	reply := make(chan *room.Room, 1)

	g.Inbox() <- GetRoom{Code: "NOPE00", Reply: reply}
	if rm := <-reply; rm != nil {
		t.Fatalf("expected nil for unknown code, got %v", rm)
	}
}

func TestRegistry_CloseRoomRemovesIt(t *testing.T) {
	g := newTestRegistry(t)
	reply := make(chan *room.Room, 1)

	g.Inbox() <- CreateRoom{Code: "ABC123", Reply: reply}
	<-reply

	g.Inbox() <- CloseRoom{Code: "ABC123"}
	g.Inbox() <- CloseRoom{Code: "ABC123"} // closing twice is fine

	g.Inbox() <- GetRoom{Code: "ABC123", Reply: reply}
	if rm := <-reply; rm != nil {
		t.Fatalf("closed room still registered")
	}
}

func TestRegistry_NewRoomHasFreshQueueAndRules(t *testing.T) {
	g := newTestRegistry(t)
	reply := make(chan *room.Room, 1)

	g.Inbox() <- CreateRoom{Code: "ABC123", Reply: reply}
	rm := <-reply

	viewReply := make(chan room.View, 1)
	rm.Inbox() <- room.GetState{Reply: viewReply}
	view := <-viewReply

	if view.State.Phase != auction.PhaseWaiting {
		t.Fatalf("new room should be waiting, got %v", view.State.Phase)
	}
	if got := auction.LotsRemaining(view.State); got != 40 {
		t.Fatalf("want full queue of 40, got %d", got)
	}
	if view.State.Rules != testRules {
		t.Fatalf("rules not threaded through: %+v", view.State.Rules)
	}
}
