package account

// Discriminator is implemented by every record type. The returned byte must
// be a constant, unique among record types that share a storage domain, and
// it occupies offset 0 of every encoding.
type Discriminator interface {
	Discriminator() byte
}

// Peek returns the tag byte of an encoded slot.
func Peek(data []byte) (byte, bool) {
	if len(data) == 0 {
		return 0, false
	}
	return data[0], true
}

// Is reports whether data carries the discriminator of T.
func Is[T Discriminator](data []byte) bool {
	var zero T
	tag, ok := Peek(data)
	return ok && tag == zero.Discriminator()
}
