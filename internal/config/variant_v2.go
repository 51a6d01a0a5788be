//go:build !v1

package config

import (
	"net/url"
	"os"

	"github.com/rs/zerolog"

	"github.com/payjoinlabs/payjoin-cli/internal/cli"
	"github.com/payjoinlabs/payjoin-cli/internal/ohttp"
)

// V2Config is the schema of the v2 wire-protocol variant: payjoin rounds
// are relayed through an OHTTP relay to a payjoin directory.
type V2Config struct {
	// OhttpKeys is the decoded OHTTP key bundle, nil when no key file was
	// configured. The bundle is read and decoded during resolution.
	OhttpKeys *ohttp.Keys

	// OhttpRelay is the OHTTP relay URL. Required for every v2 operation.
	OhttpRelay *url.URL

	// PJDirectory is the payjoin directory URL.
	PJDirectory *url.URL
}

// VariantConfig is the variant schema compiled into this build.
type VariantConfig = V2Config

// addVariantDefaults seeds the v2-specific defaults. The relay override is
// not gated on a subcommand because every v2 operation needs the relay.
func addVariantDefaults(b *Builder, flags *cli.Flags) {
	b.SetOverrideOption("v2.ohttp_relay", flags.OhttpRelay).
		SetDefault("v2.pj_directory", "https://payjo.in")
}

// applyReceiveOverrides layers the receive-only v2 flags.
func applyReceiveOverrides(b *Builder, flags *cli.Flags) error {
	b.SetOverrideOption("v2.pj_directory", flags.PJDirectory).
		SetOverrideOption("v2.ohttp_keys", flags.OhttpKeys)
	return nil
}

// variantSubcommand reports whether the subcommand is specific to this
// variant. resume applies no overrides beyond the base layers.
func variantSubcommand(_ *Builder, flags *cli.Flags) bool {
	return flags.Subcommand == cli.SubcommandResume
}

func resolveVariant(flat FlatConfig) (VariantConfig, error) {
	relay, err := flat.requiredURL("v2.ohttp_relay")
	if err != nil {
		return V2Config{}, err
	}

	directory, err := flat.requiredURL("v2.pj_directory")
	if err != nil {
		return V2Config{}, err
	}

	keys, err := resolveOhttpKeys(flat)
	if err != nil {
		return V2Config{}, err
	}

	return V2Config{OhttpKeys: keys, OhttpRelay: relay, PJDirectory: directory}, nil
}

// resolveOhttpKeys reads and decodes the key bundle when a path is
// configured. An absent path resolves to nil without touching the
// filesystem. The read and the decode are separate steps so each failure
// wraps its own cause.
func resolveOhttpKeys(flat FlatConfig) (*ohttp.Keys, error) {
	path, ok, err := flat.optionalString("v2.ohttp_keys")
	if err != nil {
		return nil, err
	}
	if !ok || path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapConfigError(err, "failed to read ohttp_keys file %q", path)
	}

	keys, err := ohttp.DecodeKeys(data)
	if err != nil {
		return nil, wrapConfigError(err, "failed to decode ohttp keys")
	}
	return keys, nil
}

func (v V2Config) MarshalZerologObject(e *zerolog.Event) {
	e.Bool("v2.ohttp_keys", v.OhttpKeys != nil).
		Str("v2.ohttp_relay", v.OhttpRelay.String()).
		Str("v2.pj_directory", v.PJDirectory.String())
}
