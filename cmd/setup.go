package main

import (
	"context"
	"fmt"

	"github.com/oakmoss/tonearm/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates a config file from the embedded template.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	r.logger.Info("config file created", "path", configPath)
	r.writePlain("✓ Created %s\n\n", configPath)
	r.writePlain("Next steps:\n")
	r.writePlain("1. Add your Spotify client_id and client_secret\n")
	r.writePlain("2. Run 'tonearm auth login' to mint a refresh token (optional)\n")
	r.writePlain("3. Run 'tonearm serve' to start the tool server\n")

	return nil
}
