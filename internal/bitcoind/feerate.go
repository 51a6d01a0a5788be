package bitcoind

import (
	"fmt"
	"strconv"
)

// FeeRate is a transaction fee rate in satoshis per virtual byte.
type FeeRate uint64

// ParseFeeRate parses a fee rate from its decimal string form. Anything
// that is not a non-negative integer is rejected.
func ParseFeeRate(s string) (FeeRate, error) {
	rate, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid fee rate %q: %w", s, err)
	}
	return FeeRate(rate), nil
}

func (f FeeRate) SatPerVB() uint64 { return uint64(f) }

func (f FeeRate) String() string {
	return strconv.FormatUint(uint64(f), 10) + " sat/vB"
}
