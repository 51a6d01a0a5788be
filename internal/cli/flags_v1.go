//go:build v1

package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// VariantFlags holds the v1-only flag values.
type VariantFlags struct {
	// Port is the receive-only local listening port, still a raw string
	// here; the resolver validates the uint16 range.
	Port *string

	// PJEndpoint is the receive-only advertised payjoin endpoint URL.
	PJEndpoint *string
}

func registerVariantRootFlags(_ *pflag.FlagSet) {}

func registerVariantReceiveFlags(fs *pflag.FlagSet) {
	fs.String("port", "", "local port to serve the payjoin endpoint on")
	fs.String("pj-endpoint", "", "payjoin endpoint URL advertised in the BIP21 URI")
}

// variantCommands returns the subcommands specific to this variant. v1
// builds add none.
func variantCommands(_ RunFunc) []*cobra.Command { return nil }

func collectVariantFlags(fs *pflag.FlagSet) VariantFlags {
	return VariantFlags{
		Port:       stringIfChanged(fs, "port"),
		PJEndpoint: stringIfChanged(fs, "pj-endpoint"),
	}
}
