package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const releaseVersion = "0.1.0"

func main() {
	// .env.local wins over .env; neither is required
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := &Config{}
	if err := newCmd(cfg).ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("server exited")
		stop()
		os.Exit(1)
	}
}
