//go:build !v1

package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// VariantFlags holds the v2-only flag values.
type VariantFlags struct {
	// OhttpRelay is the OHTTP relay URL, defined on the root command
	// because every v2 operation goes through the relay.
	OhttpRelay *string

	// PJDirectory is the receive-only payjoin directory URL.
	PJDirectory *string

	// OhttpKeys is the receive-only path to the OHTTP key bundle file.
	OhttpKeys *string
}

func registerVariantRootFlags(fs *pflag.FlagSet) {
	fs.String("ohttp-relay", "", "OHTTP relay URL")
}

func registerVariantReceiveFlags(fs *pflag.FlagSet) {
	fs.String("pj-directory", "", "payjoin directory URL")
	fs.String("ohttp-keys", "", "path to the OHTTP key bundle file")
}

// variantCommands returns the subcommands specific to this variant. v2
// builds add resume, which picks up unfinished payjoin sessions.
func variantCommands(run RunFunc) []*cobra.Command {
	resume := &cobra.Command{
		Use:   "resume",
		Short: "Resume pending payjoin sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(collectFlags(cmd, SubcommandResume), args)
		},
	}
	return []*cobra.Command{resume}
}

func collectVariantFlags(fs *pflag.FlagSet) VariantFlags {
	return VariantFlags{
		OhttpRelay:  stringIfChanged(fs, "ohttp-relay"),
		PJDirectory: stringIfChanged(fs, "pj-directory"),
		OhttpKeys:   stringIfChanged(fs, "ohttp-keys"),
	}
}
