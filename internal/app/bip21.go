package app

import (
	"fmt"
	"net/url"
	"strings"
)

type bip21 struct {
	Address    string
	Amount     string
	PJEndpoint string
}

// parseBIP21 validates a payjoin-capable BIP21 URI. The pj parameter is
// required: without it there is no payjoin endpoint to negotiate with.
func parseBIP21(uri string) (*bip21, error) {
	rest, ok := strings.CutPrefix(uri, "bitcoin:")
	if !ok {
		return nil, fmt.Errorf("invalid BIP21 URI %q: missing bitcoin: scheme", uri)
	}

	address, rawQuery, _ := strings.Cut(rest, "?")
	if address == "" {
		return nil, fmt.Errorf("invalid BIP21 URI %q: missing address", uri)
	}

	params, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, fmt.Errorf("invalid BIP21 URI %q: %w", uri, err)
	}

	endpoint := params.Get("pj")
	if endpoint == "" {
		return nil, fmt.Errorf("URI %q has no pj parameter, recipient does not support payjoin", uri)
	}
	if u, err := url.Parse(endpoint); err != nil || !u.IsAbs() {
		return nil, fmt.Errorf("invalid payjoin endpoint %q in URI", endpoint)
	}

	return &bip21{
		Address:    address,
		Amount:     params.Get("amount"),
		PJEndpoint: endpoint,
	}, nil
}
