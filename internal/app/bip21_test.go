package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBIP21(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		want    bip21
		wantErr string
	}{
		{
			name: "payjoin uri",
			uri:  "bitcoin:bcrt1qexample?amount=0.001&pj=https://pay.example/session",
			want: bip21{
				Address:    "bcrt1qexample",
				Amount:     "0.001",
				PJEndpoint: "https://pay.example/session",
			},
		},
		{
			name: "no amount",
			uri:  "bitcoin:bcrt1qexample?pj=https://pay.example",
			want: bip21{Address: "bcrt1qexample", PJEndpoint: "https://pay.example"},
		},
		{
			name:    "missing scheme",
			uri:     "bcrt1qexample?pj=https://pay.example",
			wantErr: "missing bitcoin: scheme",
		},
		{
			name:    "missing address",
			uri:     "bitcoin:?pj=https://pay.example",
			wantErr: "missing address",
		},
		{
			name:    "no pj parameter",
			uri:     "bitcoin:bcrt1qexample?amount=0.001",
			wantErr: "does not support payjoin",
		},
		{
			name:    "relative pj endpoint",
			uri:     "bitcoin:bcrt1qexample?pj=pay.example",
			wantErr: "invalid payjoin endpoint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := parseBIP21(tt.uri)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, &tt.want, parsed)
		})
	}
}

func TestBIP21URI(t *testing.T) {
	uri := bip21URI("bcrt1qexample", 123456, "https://payjo.in")
	assert.Equal(t, "bitcoin:bcrt1qexample?amount=0.00123456&pj=https://payjo.in", uri)
}
