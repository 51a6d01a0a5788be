package config

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/payjoinlabs/payjoin-cli/internal/bitcoind"
	"github.com/payjoinlabs/payjoin-cli/internal/cli"
	"github.com/payjoinlabs/payjoin-cli/internal/logger"
	"github.com/payjoinlabs/payjoin-cli/internal/store"
)

// configFileName is the conventional config file location, resolved
// relative to the working directory.
const configFileName = "config.toml"

// BitcoindConfig holds the bitcoind RPC connection settings.
type BitcoindConfig struct {
	// RPCHost is the bitcoind JSON-RPC endpoint URL.
	RPCHost *url.URL

	// Cookie is the optional path to the bitcoind auth cookie file. Empty
	// when cookie auth is not used. Not mutually exclusive with
	// RPCUser/RPCPassword here; the RPC client decides which wins.
	Cookie string

	// RPCUser and RPCPassword are the RPC credentials.
	RPCUser     string
	RPCPassword string
}

// Config is the fully resolved payjoin-cli configuration. It is built once
// per invocation, is immutable afterwards, and holds exactly one variant
// schema — the one compiled in (see [VariantConfig]).
type Config struct {
	// DBPath is the path of the local session database.
	DBPath string

	// MaxFeeRate is the optional fee-rate ceiling for receive operations.
	MaxFeeRate *bitcoind.FeeRate

	// Bitcoind holds the RPC connection settings.
	Bitcoind BitcoindConfig

	// Variant is the active wire-protocol schema, [V1Config] in v1 builds
	// and [V2Config] otherwise.
	Variant VariantConfig
}

// New assembles and resolves the configuration for the invoked
// subcommand:
//  1. seed compiled-in defaults and base CLI overrides,
//  2. inject the active variant's defaults and overrides,
//  3. apply subcommand-specific overrides,
//  4. load the optional config.toml file,
//  5. flatten by precedence and coerce into a typed [Config].
//
// Any user-correctable failure is returned as a [*ConfigError]; nothing
// is retried and no partially resolved config is ever returned.
func New(flags *cli.Flags, log *logger.Logger) (*Config, error) {
	b := NewBuilder()
	addBitcoindDefaults(b, flags)
	addCommonDefaults(b, flags)
	addVariantDefaults(b, flags)

	if err := applySubcommandOverrides(b, flags); err != nil {
		return nil, err
	}

	b.AddFileSource(configFileName, false)

	flat, err := b.Build()
	if err != nil {
		return nil, err
	}

	cfg, err := resolve(flat)
	if err != nil {
		return nil, err
	}

	log.Debug().Object("config", cfg).Msg("resolved configuration")
	return cfg, nil
}

// addBitcoindDefaults seeds defaults and CLI overrides for the bitcoind
// RPC connection settings.
func addBitcoindDefaults(b *Builder, flags *cli.Flags) {
	b.SetDefault("bitcoind.rpchost", "http://localhost:18443").
		SetOverrideOption("bitcoind.rpchost", flags.RPCHost).
		SetOverrideOption("bitcoind.cookie", flags.CookieFile).
		SetDefault("bitcoind.rpcuser", "bitcoin").
		SetOverrideOption("bitcoind.rpcuser", flags.RPCUser).
		SetDefault("bitcoind.rpcpassword", "").
		SetOverrideOption("bitcoind.rpcpassword", flags.RPCPassword)
}

// addCommonDefaults seeds defaults and CLI overrides shared between v1 and
// v2.
func addCommonDefaults(b *Builder, flags *cli.Flags) {
	b.SetDefault("db_path", store.DefaultDBPath).
		SetOverrideOption("db_path", flags.DBPath)
}

// resolve flattens the layered view into the typed Config, performing all
// field coercion and the key-bundle decode.
func resolve(flat FlatConfig) (*Config, error) {
	dbPath, err := flat.requiredString("db_path")
	if err != nil {
		return nil, err
	}

	maxFeeRate, err := resolveMaxFeeRate(flat)
	if err != nil {
		return nil, err
	}

	rpcHost, err := flat.requiredURL("bitcoind.rpchost")
	if err != nil {
		return nil, err
	}

	cookie, _, err := flat.optionalString("bitcoind.cookie")
	if err != nil {
		return nil, err
	}

	rpcUser, err := flat.requiredString("bitcoind.rpcuser")
	if err != nil {
		return nil, err
	}

	rpcPassword, _, err := flat.optionalString("bitcoind.rpcpassword")
	if err != nil {
		return nil, err
	}

	variant, err := resolveVariant(flat)
	if err != nil {
		return nil, err
	}

	return &Config{
		DBPath:     dbPath,
		MaxFeeRate: maxFeeRate,
		Bitcoind: BitcoindConfig{
			RPCHost:     rpcHost,
			Cookie:      cookie,
			RPCUser:     rpcUser,
			RPCPassword: rpcPassword,
		},
		Variant: variant,
	}, nil
}

func resolveMaxFeeRate(flat FlatConfig) (*bitcoind.FeeRate, error) {
	raw, ok, err := flat.optionalString("max_fee_rate")
	if err != nil || !ok {
		return nil, err
	}

	rate, err := bitcoind.ParseFeeRate(raw)
	if err != nil {
		return nil, wrapConfigError(err, "invalid max_fee_rate")
	}
	return &rate, nil
}

// MarshalZerologObject logs the resolved configuration for operator
// troubleshooting. The RPC password is redacted and key material is
// reduced to its presence; everything else is logged verbatim.
func (c *Config) MarshalZerologObject(e *zerolog.Event) {
	password := ""
	if c.Bitcoind.RPCPassword != "" {
		password = "<redacted>"
	}

	e.Str("db_path", c.DBPath).
		Str("bitcoind.rpchost", c.Bitcoind.RPCHost.String()).
		Str("bitcoind.cookie", c.Bitcoind.Cookie).
		Str("bitcoind.rpcuser", c.Bitcoind.RPCUser).
		Str("bitcoind.rpcpassword", password)

	if c.MaxFeeRate != nil {
		e.Str("max_fee_rate", c.MaxFeeRate.String())
	}

	e.Object("variant", c.Variant)
}

// ── flat view coercion helpers ────────────────────────────────────────────────

// optionalString returns the value for key coerced to a string, reporting
// presence separately so callers can tell "absent" from "empty".
func (f FlatConfig) optionalString(key string) (string, bool, error) {
	v, ok := f[key]
	if !ok {
		return "", false, nil
	}

	switch value := v.(type) {
	case string:
		return value, true, nil
	case int64:
		return strconv.FormatInt(value, 10), true, nil
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), true, nil
	default:
		return "", false, newConfigError("key %q has unsupported type %T", key, v)
	}
}

func (f FlatConfig) requiredString(key string) (string, error) {
	value, ok, err := f.optionalString(key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", newConfigError("missing required key %q", key)
	}
	return value, nil
}

func (f FlatConfig) requiredURL(key string) (*url.URL, error) {
	raw, err := f.requiredString(key)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, wrapConfigError(err, "key %q is not a valid URL", key)
	}
	if !u.IsAbs() {
		return nil, newConfigError("key %q must be an absolute URL, got %q", key, raw)
	}
	return u, nil
}

// parsePort coerces a layer value into an unsigned 16-bit port number.
func parsePort(v any) (uint16, error) {
	var port uint64
	var err error

	switch value := v.(type) {
	case string:
		port, err = strconv.ParseUint(value, 10, 16)
	case int64:
		if value < 0 || value > 65535 {
			err = fmt.Errorf("value %d out of range", value)
		}
		port = uint64(value)
	default:
		err = fmt.Errorf("unsupported type %T", v)
	}

	if err != nil {
		return 0, fmt.Errorf("\"port\" must be a valid number: %w", err)
	}
	return uint16(port), nil
}
