//go:build v1

package config

import (
	"net/url"

	"github.com/rs/zerolog"

	"github.com/payjoinlabs/payjoin-cli/internal/cli"
)

// V1Config is the schema of the v1 wire-protocol variant: the receiver
// serves payjoin requests itself on a local port.
type V1Config struct {
	// Port is the local port the receiver listens on.
	Port uint16

	// PJEndpoint is the payjoin endpoint advertised in the BIP21 URI.
	PJEndpoint *url.URL
}

// VariantConfig is the variant schema compiled into this build.
type VariantConfig = V1Config

// addVariantDefaults seeds the v1-specific defaults. Port and endpoint CLI
// overrides only exist on the receive subcommand and are applied there.
func addVariantDefaults(b *Builder, _ *cli.Flags) {
	b.SetDefault("v1.port", "3000").
		SetDefault("v1.pj_endpoint", "https://localhost:3000")
}

// applyReceiveOverrides layers the receive-only v1 flags. The port string
// is validated here so a bad value surfaces as a configuration error
// instead of a resolve-time surprise.
func applyReceiveOverrides(b *Builder, flags *cli.Flags) error {
	if flags.Port != nil {
		if _, err := parsePort(*flags.Port); err != nil {
			return newConfigError("%v", err)
		}
	}

	b.SetOverrideOption("v1.port", flags.Port).
		SetOverrideOption("v1.pj_endpoint", flags.PJEndpoint)
	return nil
}

// variantSubcommand reports whether the subcommand is specific to this
// variant. v1 builds define no extra subcommands.
func variantSubcommand(_ *Builder, _ *cli.Flags) bool {
	return false
}

func resolveVariant(flat FlatConfig) (VariantConfig, error) {
	rawPort, ok := flat["v1.port"]
	if !ok {
		return V1Config{}, newConfigError("missing required key %q", "v1.port")
	}

	port, err := parsePort(rawPort)
	if err != nil {
		return V1Config{}, newConfigError("%v", err)
	}

	endpoint, err := flat.requiredURL("v1.pj_endpoint")
	if err != nil {
		return V1Config{}, err
	}

	return V1Config{Port: port, PJEndpoint: endpoint}, nil
}

func (v V1Config) MarshalZerologObject(e *zerolog.Event) {
	e.Uint16("v1.port", v.Port).
		Str("v1.pj_endpoint", v.PJEndpoint.String())
}
