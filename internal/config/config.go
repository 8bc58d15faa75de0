package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           string
	StartingBudget int
	Increment      int
	BidWindow      time.Duration
	RosterCap      int
	MaxTeams       int
	MinTeams       int
	PoolSize       int
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "8080")
	c.StartingBudget = getint("STARTING_BUDGET", 8000)
	c.Increment = getint("BID_INCREMENT", 25)
	c.BidWindow = time.Duration(getint("BID_WINDOW_SEC", 30)) * time.Second
	c.RosterCap = getint("ROSTER_CAP", 15)
	c.MaxTeams = getint("MAX_TEAMS", 8)
	c.MinTeams = getint("MIN_TEAMS", 2)
	c.PoolSize = getint("POOL_SIZE", 200)
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
