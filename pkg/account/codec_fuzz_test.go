//go:build fuzz
// +build fuzz

package account

import (
	"bytes"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ssargent/slotkit/pkg/pubkey"
)

// FuzzFooBar_RoundTrip checks encode/decode round-trip with random fields
func FuzzFooBar_RoundTrip(f *testing.F) {
	f.Add(make([]byte, pubkey.Size), uint64(0))
	f.Add(bytes.Repeat([]byte{0xFF}, pubkey.Size), uint64(42006913371234))

	f.Fuzz(func(t *testing.T, key []byte, amount uint64) {
		if len(key) != pubkey.Size {
			t.Skip("key must be 32 bytes")
		}
		var in fooBar
		copy(in.Key[:], key)
		in.Amount = amount

		data, err := ToBytes(in)
		if err != nil {
			t.Fatalf("ToBytes failed: %v", err)
		}
		if len(data) != in.SerializedSize() {
			t.Fatalf("encoded %d bytes, want %d", len(data), in.SerializedSize())
		}

		out, err := TryFromBytes[fooBar](data)
		if err != nil {
			t.Fatalf("TryFromBytes failed: %v", err)
		}
		if out != in {
			t.Errorf("round-trip mismatch: got %+v, want %+v", out, in)
		}
	})
}

// FuzzTryFromBytes_ArbitraryInput checks that decoding never panics and only
// returns the documented errors
func FuzzTryFromBytes_ArbitraryInput(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{4, 2, 0})
	f.Add([]byte{69})
	f.Add(append([]byte{69}, make([]byte, 40)...))

	f.Fuzz(func(t *testing.T, data []byte) {
		_, err := TryFromBytes[fooBar](data)
		if err == nil {
			if len(data) < 41 || data[0] != 69 {
				t.Fatalf("accepted %d bytes with tag %v", len(data), data)
			}
			return
		}
		if !errors.Is(err, ErrInvalidAccountData) && !errors.Is(err, ErrAccountDataTooSmall) {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

// FuzzIntoBytes_Undersized checks that a short buffer is never written
func FuzzIntoBytes_Undersized(f *testing.F) {
	f.Add(0)
	f.Add(40)

	f.Fuzz(func(t *testing.T, n int) {
		if n < 0 || n >= 41 {
			t.Skip("only undersized buffers")
		}
		buf := bytes.Repeat([]byte{0xAB}, n)
		if err := IntoBytes(newFooBar(), buf); !errors.Is(err, ErrAccountDataTooSmall) {
			t.Fatalf("expected ErrAccountDataTooSmall, got %v", err)
		}
		if !bytes.Equal(buf, bytes.Repeat([]byte{0xAB}, n)) {
			t.Errorf("buffer modified: %x", buf)
		}
	})
}
