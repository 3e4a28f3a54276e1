package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fastprodman/vcoingame/internal/api"
	"github.com/fastprodman/vcoingame/internal/coin"
	"github.com/fastprodman/vcoingame/internal/dispatch"
	"github.com/fastprodman/vcoingame/internal/game"
	"github.com/fastprodman/vcoingame/internal/infra/logging"
	"github.com/fastprodman/vcoingame/internal/infra/pgutils"
	pgledger "github.com/fastprodman/vcoingame/internal/repos/ledger/postgres"
	pgsessions "github.com/fastprodman/vcoingame/internal/repos/sessions/postgres"
	"github.com/fastprodman/vcoingame/internal/session"
	"github.com/fastprodman/vcoingame/internal/top"
	"github.com/fastprodman/vcoingame/internal/vk"
	"github.com/fastprodman/vcoingame/pkg/envconf"
	"github.com/fastprodman/vcoingame/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running bot: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(botConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	db, err := pgutils.OpenDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime)
	db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)

	shutdownqueue.Add(func(context.Context) error {
		slog.Info("Close db")
		return db.Close()
	})

	sessRepo := pgsessions.New(db)
	txnRepo := pgledger.New(db)
	store := session.NewStore(db, sessRepo, txnRepo, cfg.Game.InitialScore)

	// --- Outbound transport ---
	client := vk.NewClient(cfg.VK.GroupToken)
	longPoll := vk.NewLongPoll(client, cfg.VK.GroupID, cfg.VK.LongPollWait)
	pool := vk.NewExecutePool(client, cfg.VK.FlushInterval)

	// --- Ledger ---
	coinClient := coin.NewClient(cfg.Coin.MerchantID, cfg.Coin.Key, cfg.Coin.Payload)

	reconciler := coin.NewReconciler(
		coinClient, store, pool,
		game.CreditedNotification,
		cfg.Coin.MerchantID, cfg.Coin.Payload,
		cfg.Coin.ReconcileInterval,
	)

	// --- Game ---
	tops := top.NewService(sessRepo, cfg.Game.TopRefreshInterval)

	memberIDs, err := client.GroupMembers(ctx, cfg.VK.GroupID)
	if err != nil {
		// Not fatal: the set refills from join events; until then the
		// bot only over-nudges.
		slog.Warn("load group members failed", "error", err)
	}

	members := game.NewMembers(memberIDs)

	g := game.New(game.Config{
		MinBet:  cfg.Game.MinBet,
		MaxBet:  cfg.Game.MaxBet,
		WinRate: cfg.Game.WinRate,
	}, time.Now().UnixNano())

	handlers := game.NewHandlers(pool, coinClient, tops, members, g)

	dispatcher := dispatch.NewDispatcher(longPoll, store)
	handlers.Register(dispatcher)

	// --- Admin HTTP server ---
	srv := api.NewServer(cfg.AdminPort, api.NewHandler(sessRepo, tops))

	// --- Run loops ---
	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		<-egCtx.Done()

		slog.Info("Shut down admin server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := srv.Shutdown(shutdownCtx)
		if serr != nil {
			return fmt.Errorf("shutdown srv: %w", serr)
		}

		return nil
	})

	eg.Go(func() error { return dispatcher.Run(egCtx) })
	eg.Go(func() error { return pool.Run(egCtx) })
	eg.Go(func() error { return reconciler.Run(egCtx) })
	eg.Go(func() error { return coinClient.RunTransfers(egCtx) })
	eg.Go(func() error { return tops.Run(egCtx) })
	eg.Go(func() error {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			return fmt.Errorf("admin server: %w", serr)
		}

		return nil
	})

	slog.Info("Bot started")

	err = eg.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run loops: %w", err)
	}

	return nil
}
