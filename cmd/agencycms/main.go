// cmd/agencycms/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dalemusser/agencycms/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// app.Run owns the zap logger; errors here happen before or after it exists.
	if err := app.Run(ctx, bootstrap.Hooks); err != nil {
		log.Fatalf("agencycms: %v", err)
	}
}
