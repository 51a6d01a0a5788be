//go:build v1

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/payjoinlabs/payjoin-cli/internal/cli"
	"github.com/payjoinlabs/payjoin-cli/internal/logger"
)

func chtemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	// t.Chdir needs Go 1.24; this toolchain is older, so do the same by hand.
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
	return dir
}

func writeConfigTOML(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))
}

// TestNew_V1Defaults verifies the compiled-in v1 defaults.
func TestNew_V1Defaults(t *testing.T) {
	chtemp(t)

	cfg, err := New(&cli.Flags{Subcommand: cli.SubcommandSend}, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, uint16(3000), cfg.Variant.Port)
	assert.Equal(t, "https://localhost:3000", cfg.Variant.PJEndpoint.String())
}

// TestNew_PortPrecedence replays the layering scenario for the port:
// default 3000, file 4000, CLI 5000.
func TestNew_PortPrecedence(t *testing.T) {
	dir := chtemp(t)
	writeConfigTOML(t, dir, `
[v1]
port = 4000
`)

	// receive without a --port flag: the file wins over the default.
	cfg, err := New(&cli.Flags{Subcommand: cli.SubcommandReceive}, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, uint16(4000), cfg.Variant.Port)

	// receive with --port 5000: the CLI wins over the file.
	flags := &cli.Flags{
		Subcommand:   cli.SubcommandReceive,
		VariantFlags: cli.VariantFlags{Port: stringPtr("5000")},
	}
	cfg, err = New(flags, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, uint16(5000), cfg.Variant.Port)
}

// TestNew_InvalidPortFlag verifies a malformed --port value is a
// user-facing configuration error, not a panic.
func TestNew_InvalidPortFlag(t *testing.T) {
	chtemp(t)

	tests := []struct {
		name string
		port string
	}{
		{name: "non-numeric", port: "not-a-port"},
		{name: "out of range", port: "70000"},
		{name: "negative", port: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := &cli.Flags{
				Subcommand:   cli.SubcommandReceive,
				VariantFlags: cli.VariantFlags{Port: stringPtr(tt.port)},
			}

			cfg, err := New(flags, logger.Nop())
			assert.Nil(t, cfg)
			require.Error(t, err)

			var cfgErr *ConfigError
			assert.ErrorAs(t, err, &cfgErr)
			assert.Contains(t, err.Error(), `"port" must be a valid number`)
		})
	}
}

// TestNew_ReceiveEndpointOverride verifies the advertised endpoint is only
// overridable on receive.
func TestNew_ReceiveEndpointOverride(t *testing.T) {
	chtemp(t)

	endpoint := "https://pay.example:8443"
	flags := &cli.Flags{
		Subcommand:   cli.SubcommandReceive,
		VariantFlags: cli.VariantFlags{PJEndpoint: &endpoint},
	}

	cfg, err := New(flags, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, endpoint, cfg.Variant.PJEndpoint.String())

	// The same value on send is ignored: no overrides beyond base layers.
	sendFlags := &cli.Flags{
		Subcommand:   cli.SubcommandSend,
		VariantFlags: cli.VariantFlags{PJEndpoint: &endpoint},
	}
	cfg, err = New(sendFlags, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "https://localhost:3000", cfg.Variant.PJEndpoint.String())
}
