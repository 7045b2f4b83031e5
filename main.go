package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Shak2000/ChompSolver/internal/config"
	"github.com/Shak2000/ChompSolver/internal/db"
	"github.com/Shak2000/ChompSolver/internal/httpserver"
	"github.com/Shak2000/ChompSolver/internal/results"
	"github.com/Shak2000/ChompSolver/internal/session"
	"github.com/Shak2000/ChompSolver/internal/solver"
	"github.com/Shak2000/ChompSolver/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var res *results.Store
	if cfg.DBPath != "" {
		conn, err := db.Open(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
		}
		defer conn.Close()
		if err := db.Migrate(conn); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
		res = results.NewStore(conn)
	} else {
		log.Info().Msg("DB_PATH empty, finished games will not be recorded")
	}

	sv := solver.New(solver.Options{Workers: cfg.SearchWorkers, MaxEntries: cfg.MemoMaxEntries})
	sessions := store.NewMemoryStore()
	go store.RunSweeper(ctx, sessions, cfg.SessionTTL, time.Minute)

	srv := httpserver.New(sessions, sv, res, httpserver.Options{
		ClientOrigin:   cfg.ClientOrigin,
		SessionCookie:  cfg.SessionCookie,
		RequestTimeout: cfg.RequestTimeout,
		Limits: session.Limits{
			MaxRows:       cfg.MaxRows,
			MaxCols:       cfg.MaxCols,
			SearchTimeout: cfg.SearchTimeout,
		},
	})

	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}()

	log.Info().
		Str("port", cfg.Port).
		Int("max_rows", cfg.MaxRows).
		Int("max_cols", cfg.MaxCols).
		Dur("search_timeout", cfg.SearchTimeout).
		Msg("starting chomp server")
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}
