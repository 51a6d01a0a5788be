//go:build v1

package app

import "github.com/payjoinlabs/payjoin-cli/internal/config"

// receiverEndpoint is the payjoin endpoint a v1 receiver advertises: the
// locally served pj_endpoint URL.
func receiverEndpoint(cfg *config.Config) string {
	return cfg.Variant.PJEndpoint.String()
}
