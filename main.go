package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xiaoyuanzhu-com/todo-app/config"
	"github.com/xiaoyuanzhu-com/todo-app/log"
	"github.com/xiaoyuanzhu-com/todo-app/server"
)

func main() {
	cfg := config.Get()

	srvCfg := server.FromAppConfig(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, srvCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
		return
	case <-ctx.Done():
	}

	// Shutdown server with timeout to close remaining HTTP connections
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
}
