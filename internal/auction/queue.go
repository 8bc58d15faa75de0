package auction

import "math/rand"

// CurrentLot is the lot under the hammer (or about to be). The cursor is
// only ever advanced by round expiry, so exactly one lot is current.
func CurrentLot(s State) (Lot, bool) {
	if s.Cursor >= len(s.Queue) {
		return Lot{}, false
	}
	return s.Queue[s.Cursor], true
}

// LotsRemaining counts lots not yet offered, including the current one.
func LotsRemaining(s State) int {
	if s.Cursor >= len(s.Queue) {
		return 0
	}
	return len(s.Queue) - s.Cursor
}

// NewQueue shuffles a copy of the pool for one room. Each room gets its own
// ordering so parallel rooms don't run identical auctions.
func NewQueue(pool []Lot, rng *rand.Rand) []Lot {
	queue := make([]Lot, len(pool))
	copy(queue, pool)
	rng.Shuffle(len(queue), func(i, j int) {
		queue[i], queue[j] = queue[j], queue[i]
	})
	return queue
}

func NewState(queue []Lot, rules Rules) State {
	return State{
		Phase:  PhaseWaiting,
		Teams:  []Team{},
		Queue:  queue,
		Cursor: 0,
		Rules:  rules,
	}
}
