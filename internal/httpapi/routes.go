package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/cricbid/cricket-auction-backend/internal/auction"
	"github.com/cricbid/cricket-auction-backend/internal/registry"
	"github.com/cricbid/cricket-auction-backend/internal/ws"
)

func SetupRoutes(reg *registry.Registry, pool []auction.Lot, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Post("/rooms", CreateRoom(reg, log))
	r.Get("/rooms/{code}", GetRoom(reg))
	r.Post("/rooms/{code}/start", StartAuction(reg))
	r.Post("/rooms/{code}/end", EndAuction(reg))
	r.Get("/players", ListPlayers(pool))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(reg))

	// The auction is driven from a browser client on another origin.
	return cors.AllowAll().Handler(r)
}
