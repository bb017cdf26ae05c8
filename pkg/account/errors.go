package account

import "github.com/cockroachdb/errors"

var (
	// ErrAccountDataTooSmall is returned when a buffer is shorter than the
	// record's serialized size.
	ErrAccountDataTooSmall = errors.New("account: data too small")
	// ErrInvalidAccountData is returned when a buffer is empty or its first
	// byte is not the expected discriminator.
	ErrInvalidAccountData = errors.New("account: invalid account data")
	// ErrAccountBorrowFailed is returned when a slot is already borrowed in a
	// conflicting mode.
	ErrAccountBorrowFailed = errors.New("account: borrow failed")
	// ErrLayoutMismatch is returned when a record's field encoder disagrees
	// with its declared serialized size.
	ErrLayoutMismatch = errors.New("account: field layout does not match serialized size")
)
