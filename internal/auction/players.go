package auction

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

type seedPlayer struct {
	name      string
	role      Role
	basePrice int
	rating    int
	country   string
}

// Headline players every pool carries. Prices are in lakhs.
var seedPlayers = []seedPlayer{
	{"Virat Kohli", RoleBatsman, 1500, 5, "India"},
	{"Rohit Sharma", RoleBatsman, 1400, 5, "India"},
	{"KL Rahul", RoleWicketKeeper, 1100, 4, "India"},
	{"Hardik Pandya", RoleAllRounder, 1500, 5, "India"},
	{"Jasprit Bumrah", RoleBowler, 1200, 5, "India"},
	{"Mohammed Shami", RoleBowler, 900, 4, "India"},
	{"Ravindra Jadeja", RoleAllRounder, 1600, 5, "India"},
	{"Rishabh Pant", RoleWicketKeeper, 1600, 5, "India"},
	{"Shubman Gill", RoleBatsman, 800, 4, "India"},
	{"Yuzvendra Chahal", RoleBowler, 600, 4, "India"},
	{"Suryakumar Yadav", RoleBatsman, 800, 4, "India"},
	{"Axar Patel", RoleAllRounder, 900, 4, "India"},
	{"Mohammed Siraj", RoleBowler, 600, 4, "India"},
	{"Sanju Samson", RoleWicketKeeper, 1400, 4, "India"},
	{"Shreyas Iyer", RoleBatsman, 1225, 4, "India"},
	{"Jos Buttler", RoleWicketKeeper, 1000, 5, "England"},
	{"Ben Stokes", RoleAllRounder, 1650, 5, "England"},
	{"Liam Livingstone", RoleAllRounder, 1150, 4, "England"},
	{"Sam Curran", RoleAllRounder, 1850, 4, "England"},
	{"David Warner", RoleBatsman, 650, 5, "Australia"},
	{"Glenn Maxwell", RoleAllRounder, 1100, 4, "Australia"},
	{"Pat Cummins", RoleBowler, 750, 5, "Australia"},
	{"Mitchell Starc", RoleBowler, 2475, 5, "Australia"},
	{"Kane Williamson", RoleBatsman, 200, 5, "New Zealand"},
	{"Trent Boult", RoleBowler, 800, 4, "New Zealand"},
	{"Quinton de Kock", RoleWicketKeeper, 675, 4, "South Africa"},
	{"Kagiso Rabada", RoleBowler, 950, 5, "South Africa"},
	{"Babar Azam", RoleBatsman, 200, 5, "Pakistan"},
	{"Shaheen Afridi", RoleBowler, 800, 5, "Pakistan"},
	{"Rashid Khan", RoleBowler, 1500, 5, "Afghanistan"},
}

var fillerRoles = []Role{RoleBatsman, RoleBowler, RoleAllRounder, RoleWicketKeeper}

var fillerCountries = []string{
	"India", "England", "Australia", "South Africa", "New Zealand",
	"Pakistan", "West Indies", "Sri Lanka", "Bangladesh", "Afghanistan",
}

// NewPool materializes the reference lot pool: the seed list padded with
// generated squad players up to size. Lot ids are minted here, once per
// process; rooms share the pool and only differ in queue order.
func NewPool(size int, rng *rand.Rand) []Lot {
	if size < len(seedPlayers) {
		size = len(seedPlayers)
	}

	pool := make([]Lot, 0, size)
	for _, p := range seedPlayers {
		pool = append(pool, Lot{
			ID:        uuid.NewString(),
			Name:      p.name,
			Role:      p.role,
			Country:   p.country,
			Rating:    p.rating,
			BasePrice: p.basePrice,
		})
	}

	for i := len(pool); i < size; i++ {
		pool = append(pool, Lot{
			ID:        uuid.NewString(),
			Name:      fmt.Sprintf("Squad Player %d", i-len(seedPlayers)+1),
			Role:      fillerRoles[rng.Intn(len(fillerRoles))],
			Country:   fillerCountries[rng.Intn(len(fillerCountries))],
			Rating:    2 + rng.Intn(3),
			BasePrice: 20 + rng.Intn(781),
		})
	}
	return pool
}
