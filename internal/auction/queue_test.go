package auction

import (
	"math/rand"
	"testing"
)

func TestNewQueue_PermutationOfPool(t *testing.T) {
	pool := NewPool(40, rand.New(rand.NewSource(1)))
	queue := NewQueue(pool, rand.New(rand.NewSource(2)))

	if len(queue) != len(pool) {
		t.Fatalf("queue size: want %d, got %d", len(pool), len(queue))
	}

	seen := make(map[string]bool, len(pool))
	for _, lot := range queue {
		seen[lot.ID] = true
	}
	for _, lot := range pool {
		if !seen[lot.ID] {
			t.Fatalf("lot %s missing from the queue", lot.Name)
		}
	}

	// Shuffling must not touch the shared pool.
	if pool[0].ID == "" {
		t.Fatalf("pool corrupted")
	}
}

func TestLotsRemaining(t *testing.T) {
	s := NewState(testLots(3), testRules)

	if got := LotsRemaining(s); got != 3 {
		t.Fatalf("fresh queue: want 3, got %d", got)
	}

	s.Cursor = 2
	if got := LotsRemaining(s); got != 1 {
		t.Fatalf("near the end: want 1, got %d", got)
	}

	s.Cursor = 3
	if got := LotsRemaining(s); got != 0 {
		t.Fatalf("exhausted: want 0, got %d", got)
	}
	if _, ok := CurrentLot(s); ok {
		t.Fatalf("exhausted queue has no current lot")
	}
}

func TestNewPool_SizeAndSeedPlayers(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pool := NewPool(200, rng)

	if len(pool) != 200 {
		t.Fatalf("want 200 lots, got %d", len(pool))
	}

	byName := make(map[string]Lot, len(pool))
	for _, lot := range pool {
		byName[lot.Name] = lot
		if lot.ID == "" || lot.BasePrice <= 0 || lot.Rating < 1 || lot.Rating > 5 {
			t.Fatalf("malformed lot: %+v", lot)
		}
	}

	kohli, ok := byName["Virat Kohli"]
	if !ok || kohli.Role != RoleBatsman || kohli.BasePrice != 1500 {
		t.Fatalf("seed players missing or wrong: %+v", kohli)
	}

	// Asking for less than the seed list still yields every seed player.
	small := NewPool(5, rng)
	if len(small) != len(seedPlayers) {
		t.Fatalf("want %d lots, got %d", len(seedPlayers), len(small))
	}
}
