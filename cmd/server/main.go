package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/app"
	"github.com/Raquellcesar/Raquellcesar.Stardew-sub001/internal/telemetry"
)

func main() {
	logger := telemetry.WrapLogger(log.Default())
	cfg, err := app.ResolveConfig(app.DefaultConfig(), os.LookupEnv, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	cfg.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := app.Run(ctx, cfg); err != nil {
		log.Fatalf("%v", err)
	}
}
