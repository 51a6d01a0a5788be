package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/payjoinlabs/payjoin-cli/internal/app"
	"github.com/payjoinlabs/payjoin-cli/internal/cli"
	"github.com/payjoinlabs/payjoin-cli/internal/config"
	"github.com/payjoinlabs/payjoin-cli/internal/logger"
)

var (
	buildVersion string
	buildCommit  string
)

func main() {
	log := logger.NewLogger("payjoin-cli")
	log.Debug().Str("version", version()).Msg("starting")

	root := cli.NewRootCommand(func(flags *cli.Flags, args []string) error {
		return run(log, flags, args)
	})

	if err := root.Execute(); err != nil {
		// Non-zero exit on any failure, configuration errors included.
		log.Fatal().Err(err).Msg("payjoin-cli failed")
	}
}

func run(log *logger.Logger, flags *cli.Flags, args []string) error {
	cfg, err := config.New(flags, log)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	switch flags.Subcommand {
	case cli.SubcommandSend:
		return a.Send(ctx, args[0])
	case cli.SubcommandReceive:
		amount, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("AMOUNT must be a whole number of satoshis: %w", err)
		}
		return a.Receive(ctx, amount)
	case cli.SubcommandResume:
		return a.Resume(ctx)
	default:
		panic(fmt.Sprintf("unhandled subcommand %q", flags.Subcommand))
	}
}

func version() string {
	if buildVersion == "" {
		return "dev"
	}
	if buildCommit != "" {
		return buildVersion + " (" + buildCommit + ")"
	}
	return buildVersion
}
