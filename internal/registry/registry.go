package registry

import (
	"context"
	"math/rand"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/cricbid/cricket-auction-backend/internal/auction"
	"github.com/cricbid/cricket-auction-backend/internal/room"
)

type Msg interface{ isRegistryMsg() }

type CreateRoom struct {
	Code  string
	Reply chan *room.Room
}

type GetRoom struct {
	Code  string
	Reply chan *room.Room
}

// CloseRoom shuts the room's loop down and drops it from the registry.
// Closing a code that isn't registered is a no-op.
type CloseRoom struct {
	Code string
}

type ShutdownAll struct{}

func (CreateRoom) isRegistryMsg()  {}
func (GetRoom) isRegistryMsg()     {}
func (CloseRoom) isRegistryMsg()   {}
func (ShutdownAll) isRegistryMsg() {}

// Registry owns the live rooms, keyed by code. Rooms are fully independent
// of each other; the registry only creates, looks up, and closes them.
type Registry struct {
	inbox  chan Msg
	rooms  map[string]*room.Room
	pool   []auction.Lot
	rules  auction.Rules
	clock  clockwork.Clock
	rng    *rand.Rand
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func New(parent context.Context, pool []auction.Lot, rules auction.Rules, clock clockwork.Clock, rng *rand.Rand, log *zap.Logger) *Registry {
	ctx, cancel := context.WithCancel(parent)
	g := &Registry{
		inbox:  make(chan Msg, 64),
		rooms:  make(map[string]*room.Room),
		pool:   pool,
		rules:  rules,
		clock:  clock,
		rng:    rng,
		log:    log.Named("registry"),
		ctx:    ctx,
		cancel: cancel,
	}
	go g.loop()
	return g
}

func (g *Registry) Inbox() chan<- Msg { return g.inbox }

func (g *Registry) loop() {
	for {
		select {
		case <-g.ctx.Done():
			g.shutdown()
			return

		case m := <-g.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				if rm := g.rooms[msg.Code]; rm != nil {
					msg.Reply <- rm
					break
				}
				initial := auction.NewState(auction.NewQueue(g.pool, g.rng), g.rules)
				rm := room.New(g.ctx, msg.Code, initial, g.clock, g.log)
				g.rooms[msg.Code] = rm
				g.log.Info("room created", zap.String("room", msg.Code))
				msg.Reply <- rm

			case GetRoom:
				msg.Reply <- g.rooms[msg.Code] // May be nil

			case CloseRoom:
				if rm := g.rooms[msg.Code]; rm != nil {
					rm.Inbox() <- room.Shutdown{}
					delete(g.rooms, msg.Code)
					g.log.Info("room closed", zap.String("room", msg.Code))
				}

			case ShutdownAll:
				g.shutdown()
				return
			}
		}
	}
}

func (g *Registry) shutdown() {
	for _, rm := range g.rooms {
		rm.Inbox() <- room.Shutdown{}
	}
	clear(g.rooms)
	g.cancel()
}
