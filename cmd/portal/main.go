package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/wsustone/L2L-United/internal/app"
)

// @title        L2L United Partner Portal API
// @version      1.0
// @description  Parent and partner portal: shared folders, curated documents, API keys and the NDA onboarding workflow.
// @BasePath     /v1
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx)
	if err != nil {
		log.Fatalf("build failed: %v", err)
	}

	if err := a.Run(ctx); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}
