// Command pawnctl runs maintenance tasks against the pawnbook database.
package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	app := &cli.App{
		Name:  "pawnctl",
		Usage: "pawnbook maintenance",
		Commands: []*cli.Command{
			migrateCommand(),
			createUserCommand(),
			reportCommand(),
			importPricingCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
