package main

import (
	"context"
	"os"
	"time"

	"github.com/oakmoss/tonearm/internal/shared"
	"github.com/oakmoss/tonearm/internal/spotify"
	"github.com/oakmoss/tonearm/internal/tools"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config.toml, using defaults", "error", err)
		}
	}

	creds := spotify.Credentials{
		ClientID:     config.Credentials.Spotify.ClientID,
		ClientSecret: config.Credentials.Spotify.ClientSecret,
		RefreshToken: config.Credentials.Spotify.RefreshToken,
	}
	store := spotify.NewTokenStore(creds, nil, logger)
	client := spotify.NewClient(store, spotify.ClientOpts{
		Timeout:   time.Duration(config.Client.TimeoutSeconds) * time.Second,
		RateLimit: config.Client.RateLimit,
		Logger:    logger,
	})

	registry := tools.NewRegistry()
	tools.NewCatalog(client, tools.CatalogOpts{Logger: logger}).RegisterAll(registry)

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Client:   client,
		Registry: registry,
		Logger:   logger,
	})

	app := &cli.Command{
		Name:     "tonearm",
		Usage:    "Expose the Spotify Web API as bearer-gated callable tools",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
