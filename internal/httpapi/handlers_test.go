package httpapi

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cricbid/cricket-auction-backend/internal/auction"
	"github.com/cricbid/cricket-auction-backend/internal/registry"
	"github.com/cricbid/cricket-auction-backend/internal/types"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	rng := rand.New(rand.NewSource(42))
	pool := auction.NewPool(30, rng)
	rules := auction.Rules{
		StartingBudget: 8000,
		Increment:      25,
		RosterCap:      15,
		MaxTeams:       8,
		MinTeams:       2,
		BidWindow:      30 * time.Second,
	}
	reg := registry.New(ctx, pool, rules, clockwork.NewFakeClock(), rng, zap.NewNop())

	srv := httptest.NewServer(SetupRoutes(reg, pool, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func createRoom(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(srv.URL+"/rooms", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		RoomCode string `json:"room_code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.RoomCode, 6)
	return body.RoomCode
}

func TestCreateAndGetRoom(t *testing.T) {
	srv := newTestServer(t)
	code := createRoom(t, srv)

	resp, err := http.Get(srv.URL + "/rooms/" + code)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var view types.SnapshotView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	require.Equal(t, code, view.RoomCode)
	require.Equal(t, string(auction.PhaseWaiting), view.Status)
	require.Equal(t, 30, view.LotsRemaining)
	require.Empty(t, view.Teams)
}

func TestGetRoom_UnknownCode(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/rooms/ZZZZZZ")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStartAuction_RequiresTeams(t *testing.T) {
	srv := newTestServer(t)
	code := createRoom(t, srv)

	resp, err := http.Post(srv.URL+"/rooms/"+code+"/start", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusPreconditionFailed, resp.StatusCode)

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Contains(t, body.Error, "two teams")
}

func TestEndAuction_Idempotent(t *testing.T) {
	srv := newTestServer(t)
	code := createRoom(t, srv)

	for i := 0; i < 2; i++ {
		resp, err := http.Post(srv.URL+"/rooms/"+code+"/end", "application/json", nil)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestListPlayers(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/players")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pool []auction.Lot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pool))
	require.Len(t, pool, 30)
}

func TestGenerateCode_Format(t *testing.T) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, c := range code {
			require.True(t, strings.ContainsRune(charset, c), "unexpected char %q in %q", c, code)
		}
	}
}
