package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/crewdesk/crewdesk-go/internal/cli"
	"github.com/crewdesk/crewdesk-go/internal/config"
	"github.com/crewdesk/crewdesk-go/internal/logging"
)

func main() {

	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg, logger)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
