// Package pubkey provides the 32-byte address type carried as a payload
// field by records and used to name host slots.
package pubkey

import (
	"crypto/rand"

	"github.com/cockroachdb/errors"
	"github.com/mr-tron/base58"
)

// Size is the length of a Pubkey in bytes.
const Size = 32

// ErrInvalidPubkey is returned when a textual key does not decode to Size bytes.
var ErrInvalidPubkey = errors.New("pubkey: invalid public key")

// Pubkey is an opaque 32-byte address.
type Pubkey [Size]byte

// New returns a random key. It is used for freshly allocated slots.
func New() Pubkey {
	var k Pubkey
	if _, err := rand.Read(k[:]); err != nil {
		panic(errors.Wrap(err, "pubkey: read random bytes"))
	}
	return k
}

// FromBytes copies b into a Pubkey.
func FromBytes(b []byte) (Pubkey, error) {
	var k Pubkey
	if len(b) != Size {
		return k, errors.Wrapf(ErrInvalidPubkey, "got %d bytes", len(b))
	}
	copy(k[:], b)
	return k, nil
}

// FromString decodes a base58 key.
func FromString(s string) (Pubkey, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Pubkey{}, errors.Wrapf(ErrInvalidPubkey, "decode %q: %v", s, err)
	}
	return FromBytes(b)
}

// MustFromString is FromString for constants and tests.
func MustFromString(s string) Pubkey {
	k, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return k
}

// String returns the base58 form.
func (k Pubkey) String() string {
	return base58.Encode(k[:])
}

// IsZero reports whether every byte of k is zero.
func (k Pubkey) IsZero() bool {
	return k == Pubkey{}
}

// MarshalText implements encoding.TextMarshaler.
func (k Pubkey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Pubkey) UnmarshalText(text []byte) error {
	parsed, err := FromString(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
