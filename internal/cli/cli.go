package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Subcommand identifies the invoked subcommand. The set is closed:
// [SubcommandResume] is only reachable in v2 builds because only those
// register the resume command.
type Subcommand int

const (
	SubcommandSend Subcommand = iota
	SubcommandReceive
	SubcommandResume
)

func (s Subcommand) String() string {
	switch s {
	case SubcommandSend:
		return "send"
	case SubcommandReceive:
		return "receive"
	case SubcommandResume:
		return "resume"
	default:
		return fmt.Sprintf("subcommand(%d)", int(s))
	}
}

// Flags carries the command-line values relevant to configuration
// resolution. Every field except Subcommand is nil when the corresponding
// flag was omitted.
type Flags struct {
	RPCHost     *string
	CookieFile  *string
	RPCUser     *string
	RPCPassword *string
	DBPath      *string

	// MaxFeeRate is only defined on the receive subcommand.
	MaxFeeRate *string

	Subcommand Subcommand

	VariantFlags
}

// RunFunc is invoked with the collected flags and the subcommand's
// positional arguments once cobra has parsed the command line.
type RunFunc func(flags *Flags, args []string) error

// NewRootCommand builds the payjoin-cli command tree. Variant-specific
// flags and subcommands are registered by the build-tagged counterparts of
// this file.
func NewRootCommand(run RunFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           "payjoin-cli",
		Short:         "Bitcoin payjoin client for bitcoind",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("rpchost", "", "bitcoind RPC host URL")
	pf.String("cookie-file", "", "path to the bitcoind RPC auth cookie file")
	pf.String("rpcuser", "", "bitcoind RPC username")
	pf.String("rpcpassword", "", "bitcoind RPC password")
	pf.String("db-path", "", "session database path")
	registerVariantRootFlags(pf)

	send := &cobra.Command{
		Use:   "send BIP21",
		Short: "Send a payjoin to a BIP21 URI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(collectFlags(cmd, SubcommandSend), args)
		},
	}

	receive := &cobra.Command{
		Use:   "receive AMOUNT",
		Short: "Receive a payjoin for the given amount in satoshis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(collectFlags(cmd, SubcommandReceive), args)
		},
	}
	receive.Flags().String("max-fee-rate", "", "maximum acceptable fee rate in sat/vB")
	registerVariantReceiveFlags(receive.Flags())

	root.AddCommand(send, receive)
	root.AddCommand(variantCommands(run)...)

	return root
}

func collectFlags(cmd *cobra.Command, sub Subcommand) *Flags {
	fs := cmd.Flags()
	return &Flags{
		RPCHost:      stringIfChanged(fs, "rpchost"),
		CookieFile:   stringIfChanged(fs, "cookie-file"),
		RPCUser:      stringIfChanged(fs, "rpcuser"),
		RPCPassword:  stringIfChanged(fs, "rpcpassword"),
		DBPath:       stringIfChanged(fs, "db-path"),
		MaxFeeRate:   stringIfChanged(fs, "max-fee-rate"),
		Subcommand:   sub,
		VariantFlags: collectVariantFlags(fs),
	}
}

// stringIfChanged returns the flag value only when the user actually
// supplied it, so defaults never masquerade as overrides.
func stringIfChanged(fs *pflag.FlagSet, name string) *string {
	if !fs.Changed(name) {
		return nil
	}

	value, err := fs.GetString(name)
	if err != nil {
		return nil
	}
	return &value
}
