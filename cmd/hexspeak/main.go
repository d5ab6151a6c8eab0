package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/kestfor/hexspeak/cmd/hexspeak/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := app.New().ExecuteContext(ctx)
	if err != nil {
		log.Fatal(err)
	}
}
