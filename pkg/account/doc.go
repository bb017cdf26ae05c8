// Package account implements the discriminator-tagged record encoding used
// for host-owned storage slots.
//
// # Wire Format
//
// Every record type has a fixed serialized size and a one-byte tag:
//
//	offset 0       : discriminator (1 byte)
//	offset 1..N    : fields, N = SerializedSize-1
//
// Fields are packed in declaration order with no padding; multi-byte
// integers are little-endian (see package le).
//
// # Capabilities
//
// Discriminator, Serializer and Deserializer are separate interfaces. A
// type can carry a tag for matching (Is, Peek) without committing to the
// full codec.
//
// # Decoding
//
// TryFromBytes checks the tag before anything else. An empty buffer or a
// mismatched tag is ErrInvalidAccountData; a matching tag on a short buffer
// is ErrAccountDataTooSmall. Field decoders only ever see a slice of the
// exact declared length.
//
// # Writing
//
// IntoBytes writes into a caller-owned buffer, staging fields in pooled
// scratch space, and leaves it untouched when it is too small or the encoder
// emits the wrong length. Write does the same against an Info
// while holding its exclusive borrow, releasing it on every return path.
//
// # Errors
//
// All failures are sentinel errors wrapped with context; compare with
// errors.Is. Nothing in this package logs.
package account
