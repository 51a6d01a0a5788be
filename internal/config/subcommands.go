package config

import (
	"fmt"

	"github.com/payjoinlabs/payjoin-cli/internal/cli"
)

// applySubcommandOverrides layers subcommand-specific overrides on top of
// the base defaults. The subcommand set is closed and defined by the cli
// package; an unknown value here is a programming error, not user input,
// and aborts loudly.
func applySubcommandOverrides(b *Builder, flags *cli.Flags) error {
	switch flags.Subcommand {
	case cli.SubcommandSend:
		return nil
	case cli.SubcommandReceive:
		if err := applyReceiveOverrides(b, flags); err != nil {
			return err
		}
		b.SetOverrideOption("max_fee_rate", flags.MaxFeeRate)
		return nil
	default:
		if variantSubcommand(b, flags) {
			return nil
		}
		panic(fmt.Sprintf("unhandled subcommand %q", flags.Subcommand))
	}
}
