package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"limitpoker/internal/config"
	"limitpoker/internal/game"
	"limitpoker/internal/server"
	"limitpoker/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := zap.NewProduction()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	smallBet, bigBet, _ := cfg.Bets()
	stack, _ := cfg.Stack()

	srv := server.New(log, server.Options{
		StartingChips: stack,
		ActionTimeout: cfg.ActionTimeout,
		TickInterval:  cfg.TickInterval,
	})
	for _, name := range cfg.Tables {
		srv.CreateTable(name, game.NewFixedLimit(smallBet, bigBet), cfg.NumSeats)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("server loop stopped", zap.Error(err))
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/ws", transport.NewHandler(log, srv))

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info("listening", zap.String("addr", cfg.ListenAddr))
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("listen", zap.Error(err))
	}
}
