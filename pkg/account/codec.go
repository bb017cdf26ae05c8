package account

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// Serializer is a record that can encode itself.
type Serializer interface {
	Discriminator
	// SerializedSize is 1 (the discriminator) plus the size of every field.
	SerializedSize() int
	// AppendFields appends exactly SerializedSize()-1 bytes to dst: fields
	// packed in declaration order, multi-byte integers little-endian.
	AppendFields(dst []byte) []byte
}

// Deserializer is a record that can rebuild itself from its field bytes.
// DecodeFields is called on a fresh zero value with the bytes that follow
// the discriminator, already trimmed to SerializedSize()-1.
type Deserializer interface {
	Discriminator
	SerializedSize() int
	DecodeFields(data []byte)
}

// Record is a type that supports both directions.
type Record interface {
	Serializer
	Deserializer
}

// ToBytes encodes r into a freshly allocated buffer of exactly
// SerializedSize bytes, discriminator first.
func ToBytes(r Serializer) ([]byte, error) {
	size := r.SerializedSize()
	if size < 1 {
		return nil, errors.Wrapf(ErrLayoutMismatch, "serialized size %d leaves no room for the discriminator", size)
	}
	buf := make([]byte, 1, size)
	buf[0] = r.Discriminator()
	buf = r.AppendFields(buf)
	if len(buf) != size {
		return nil, errors.Wrapf(ErrLayoutMismatch, "encoded %d bytes, want %d", len(buf), size)
	}
	return buf, nil
}

// scratch holds field bytes until their length has been checked.
var scratch = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 256)
		return &b
	},
}

// IntoBytes encodes r into the first SerializedSize bytes of buffer. Fields
// are staged in pooled scratch space, so an encoder that emits the wrong
// length fails with ErrLayoutMismatch and leaves buffer untouched. A short
// buffer is rejected the same way, and bytes past SerializedSize are never
// touched.
func IntoBytes(r Serializer, buffer []byte) error {
	size := r.SerializedSize()
	if size < 1 {
		return errors.Wrapf(ErrLayoutMismatch, "serialized size %d leaves no room for the discriminator", size)
	}
	if len(buffer) < size {
		return errors.Wrapf(ErrAccountDataTooSmall, "buffer is %d bytes, need %d", len(buffer), size)
	}

	bp := scratch.Get().(*[]byte)
	fields := r.AppendFields((*bp)[:0])
	defer func() {
		*bp = fields[:0]
		scratch.Put(bp)
	}()

	if len(fields) != size-1 {
		return errors.Wrapf(ErrLayoutMismatch, "encoded %d field bytes, want %d", len(fields), size-1)
	}
	copy(buffer[1:size], fields)
	buffer[0] = r.Discriminator()
	return nil
}

// TryFromBytes decodes a T from data after checking its discriminator.
// An empty buffer or a tag mismatch yields ErrInvalidAccountData and no
// further bytes are read. A matching tag on a buffer shorter than the
// record yields ErrAccountDataTooSmall.
func TryFromBytes[T any, PT interface {
	*T
	Deserializer
}](data []byte) (T, error) {
	var out T
	rec := PT(&out)

	tag, ok := Peek(data)
	if !ok {
		return out, errors.Wrap(ErrInvalidAccountData, "empty buffer")
	}
	if tag != rec.Discriminator() {
		return out, errors.Wrapf(ErrInvalidAccountData, "discriminator %d, want %d", tag, rec.Discriminator())
	}

	size := rec.SerializedSize()
	if len(data) < size {
		return out, errors.Wrapf(ErrAccountDataTooSmall, "buffer is %d bytes, need %d", len(data), size)
	}

	rec.DecodeFields(data[1:size])
	return out, nil
}

// CheckLayout verifies that r's field encoder emits SerializedSize()-1
// bytes. Record types call it from their tests.
func CheckLayout(r Serializer) error {
	size := r.SerializedSize()
	if size < 1 {
		return errors.Wrapf(ErrLayoutMismatch, "serialized size %d leaves no room for the discriminator", size)
	}
	if n := len(r.AppendFields(nil)); n != size-1 {
		return errors.Wrapf(ErrLayoutMismatch, "encoded %d field bytes, want %d", n, size-1)
	}
	return nil
}
