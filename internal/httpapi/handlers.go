package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/cricbid/cricket-auction-backend/internal/auction"
	"github.com/cricbid/cricket-auction-backend/internal/registry"
	"github.com/cricbid/cricket-auction-backend/internal/room"
	"github.com/cricbid/cricket-auction-backend/internal/types"
)

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

func CreateRoom(reg *registry.Registry, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var code string
		for {
			c, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			reply := make(chan *room.Room, 1)
			reg.Inbox() <- registry.GetRoom{Code: c, Reply: reply}
			if <-reply == nil {
				code = c
				break
			}
			log.Warn("collision on room code, regenerating", zap.String("code", c))
		}

		reply := make(chan *room.Room, 1)
		reg.Inbox() <- registry.CreateRoom{Code: code, Reply: reply}
		if <-reply == nil {
			http.Error(w, "failed to create room", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, struct {
			RoomCode string `json:"room_code"`
		}{RoomCode: code})
	}
}

func GetRoom(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm, ok := lookupRoom(reg, w, r)
		if !ok {
			return
		}

		reply := make(chan room.View, 1)
		rm.Inbox() <- room.GetState{Reply: reply}
		view := <-reply

		writeJSON(w, http.StatusOK, types.NewSnapshotView(view.Code, view.Version, view.State))
	}
}

func StartAuction(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm, ok := lookupRoom(reg, w, r)
		if !ok {
			return
		}

		reply := make(chan error, 1)
		rm.Inbox() <- room.Do{Cmd: auction.Command{Type: auction.CmdStartAuction}, Reply: reply}
		if err := <-reply; err != nil {
			status := http.StatusConflict
			if errors.Is(err, auction.ErrNotEnoughTeams) {
				status = http.StatusPreconditionFailed
			}
			writeJSON(w, status, errorBody(err))
			return
		}

		writeJSON(w, http.StatusOK, struct {
			Message string `json:"message"`
		}{Message: "auction started"})
	}
}

// EndAuction stops the room early: the active round closes without a sale
// and the queue stops advancing. Safe to call twice.
func EndAuction(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm, ok := lookupRoom(reg, w, r)
		if !ok {
			return
		}

		reply := make(chan error, 1)
		rm.Inbox() <- room.Do{Cmd: auction.Command{Type: auction.CmdEndAuction}, Reply: reply}
		if err := <-reply; err != nil {
			writeJSON(w, http.StatusConflict, errorBody(err))
			return
		}

		writeJSON(w, http.StatusOK, struct {
			Message string `json:"message"`
		}{Message: "auction ended"})
	}
}

func ListPlayers(pool []auction.Lot) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, pool)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func lookupRoom(reg *registry.Registry, w http.ResponseWriter, r *http.Request) (*room.Room, bool) {
	code := chi.URLParam(r, "code")
	reply := make(chan *room.Room, 1)
	reg.Inbox() <- registry.GetRoom{Code: code, Reply: reply}
	rm := <-reply
	if rm == nil {
		writeJSON(w, http.StatusNotFound, struct {
			Error string `json:"error"`
		}{Error: "room not found"})
		return nil, false
	}
	return rm, true
}

func errorBody(err error) any {
	return struct {
		Error string `json:"error"`
	}{Error: err.Error()}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
