// Package config assembles the payjoin-cli configuration from layered
// sources and resolves it into one typed, immutable [Config].
//
// Values are collected from three layers with fixed precedence (later
// layers win for the same key):
//  1. Compiled-in defaults
//  2. An optional config.toml file in the working directory
//  3. Command-line flags, including subcommand-specific overrides
//
// The wire-protocol variant (v1 or v2) is selected at build time with the
// "v1" build tag; the default build is v2. Exactly one variant schema is
// compiled in, so fields of the inactive variant do not exist.
//
// The main entry point is [New], which runs the full
// build → flatten → coerce → validate pipeline and either returns a
// complete [Config] or a [ConfigError] describing the offending field.
package config
