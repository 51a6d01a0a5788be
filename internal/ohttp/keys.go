// Package ohttp decodes the binary OHTTP key configuration bundle used by
// the v2 wire protocol (RFC 9458 key configuration layout).
package ohttp

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
)

// HPKE algorithm identifiers (RFC 9180).
const (
	KemP256Sha256   uint16 = 0x0010
	KemX25519Sha256 uint16 = 0x0020
)

// ErrUnsupportedKEM is returned when the bundle names a KEM this client
// cannot use.
var ErrUnsupportedKEM = errors.New("unsupported KEM identifier")

// Suite is one symmetric cipher suite offered by the key configuration.
type Suite struct {
	KdfID  uint16
	AeadID uint16
}

// Keys is a decoded OHTTP key configuration:
//
//	key_id(1) || kem_id(2) || public_key(Npk) || suites_len(2) || suites(4 each)
//
// where Npk is determined by the KEM.
type Keys struct {
	KeyID     uint8
	KemID     uint16
	PublicKey []byte
	Suites    []Suite
}

// DecodeKeys parses a single key configuration from data. The whole input
// must be consumed; trailing bytes are an error.
func DecodeKeys(data []byte) (*Keys, error) {
	s := cryptobyte.String(data)
	keys := &Keys{}

	if !s.ReadUint8(&keys.KeyID) || !s.ReadUint16(&keys.KemID) {
		return nil, errors.New("truncated key configuration header")
	}

	size, err := publicKeySize(keys.KemID)
	if err != nil {
		return nil, err
	}
	if !s.ReadBytes(&keys.PublicKey, size) {
		return nil, fmt.Errorf("truncated public key, want %d bytes", size)
	}

	var suites cryptobyte.String
	if !s.ReadUint16LengthPrefixed(&suites) {
		return nil, errors.New("truncated cipher suite list")
	}
	if len(suites)%4 != 0 || suites.Empty() {
		return nil, fmt.Errorf("invalid cipher suite list length %d", len(suites))
	}
	for !suites.Empty() {
		var suite Suite
		if !suites.ReadUint16(&suite.KdfID) || !suites.ReadUint16(&suite.AeadID) {
			return nil, errors.New("truncated cipher suite")
		}
		keys.Suites = append(keys.Suites, suite)
	}

	if !s.Empty() {
		return nil, fmt.Errorf("%d trailing bytes after key configuration", len(s))
	}
	return keys, nil
}

// Encode serializes the key configuration back to its wire form.
func (k *Keys) Encode() ([]byte, error) {
	size, err := publicKeySize(k.KemID)
	if err != nil {
		return nil, err
	}
	if len(k.PublicKey) != size {
		return nil, fmt.Errorf("public key is %d bytes, want %d", len(k.PublicKey), size)
	}
	if len(k.Suites) == 0 {
		return nil, errors.New("key configuration needs at least one cipher suite")
	}

	var b cryptobyte.Builder
	b.AddUint8(k.KeyID)
	b.AddUint16(k.KemID)
	b.AddBytes(k.PublicKey)
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		for _, suite := range k.Suites {
			b.AddUint16(suite.KdfID)
			b.AddUint16(suite.AeadID)
		}
	})
	return b.Bytes()
}

func publicKeySize(kemID uint16) (int, error) {
	switch kemID {
	case KemX25519Sha256:
		return 32, nil
	case KemP256Sha256:
		return 65, nil
	default:
		return 0, fmt.Errorf("%w: 0x%04x", ErrUnsupportedKEM, kemID)
	}
}
