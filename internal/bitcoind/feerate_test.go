package bitcoind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFeeRate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    uint64
		wantErr bool
	}{
		{name: "zero", input: "0", want: 0},
		{name: "typical", input: "25", want: 25},
		{name: "negative", input: "-1", wantErr: true},
		{name: "fractional", input: "1.5", wantErr: true},
		{name: "not a number", input: "fast", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, err := ParseFeeRate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid fee rate")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rate.SatPerVB())
		})
	}
}

func TestFeeRate_String(t *testing.T) {
	assert.Equal(t, "25 sat/vB", FeeRate(25).String())
}
