package vault

import "github.com/cockroachdb/errors"

var (
	ErrMissingSignature   = errors.New("vault: missing required signature")
	ErrNotWritable        = errors.New("vault: account is not writable")
	ErrIllegalOwner       = errors.New("vault: account not owned by program")
	ErrAlreadyInitialized = errors.New("vault: account already initialized")
	ErrUnauthorized       = errors.New("vault: authority mismatch")
	ErrInsufficientFunds  = errors.New("vault: insufficient funds")
	ErrOverflow           = errors.New("vault: amount overflow")
	ErrReceiptMismatch    = errors.New("vault: receipt belongs to another vault")
)
