package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cricbid/cricket-auction-backend/internal/auction"
	"github.com/cricbid/cricket-auction-backend/internal/config"
	"github.com/cricbid/cricket-auction-backend/internal/httpapi"
	"github.com/cricbid/cricket-auction-backend/internal/registry"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	pool := auction.NewPool(cfg.PoolSize, rng)
	rules := auction.Rules{
		StartingBudget: cfg.StartingBudget,
		Increment:      cfg.Increment,
		RosterCap:      cfg.RosterCap,
		MaxTeams:       cfg.MaxTeams,
		MinTeams:       cfg.MinTeams,
		BidWindow:      cfg.BidWindow,
	}

	reg := registry.New(ctx, pool, rules, clockwork.NewRealClock(), rng, log)
	handler := httpapi.SetupRoutes(reg, pool, log)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: handler}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
