//go:build !v1

package app

import "github.com/payjoinlabs/payjoin-cli/internal/config"

// receiverEndpoint is the payjoin endpoint a v2 receiver advertises: the
// payjoin directory that relays on its behalf.
func receiverEndpoint(cfg *config.Config) string {
	return cfg.Variant.PJDirectory.String()
}
