package account

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ssargent/slotkit/pkg/pubkey"
)

// Info is the handle a host passes in for one storage slot. The data region
// belongs to the host; Info only tracks who is currently borrowing it.
type Info struct {
	key        pubkey.Pubkey
	owner      pubkey.Pubkey
	isSigner   bool
	isWritable bool

	mu      sync.Mutex
	data    []byte
	readers int
	writer  bool
}

// InfoOption configures an Info.
type InfoOption func(*Info)

// WithOwner sets the program that owns the slot.
func WithOwner(owner pubkey.Pubkey) InfoOption {
	return func(a *Info) { a.owner = owner }
}

// Signer marks the slot's key as having signed the invocation.
func Signer() InfoOption {
	return func(a *Info) { a.isSigner = true }
}

// Writable marks the slot as writable for the invocation.
func Writable() InfoOption {
	return func(a *Info) { a.isWritable = true }
}

// NewInfo wraps data, which may alias host memory.
func NewInfo(key pubkey.Pubkey, data []byte, opts ...InfoOption) *Info {
	a := &Info{key: key, data: data}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Info) Key() pubkey.Pubkey   { return a.key }
func (a *Info) Owner() pubkey.Pubkey { return a.owner }
func (a *Info) IsSigner() bool       { return a.isSigner }
func (a *Info) IsWritable() bool     { return a.isWritable }

// DataLen returns the slot size without borrowing.
func (a *Info) DataLen() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.data)
}

// Ref is a shared borrow of a slot's data.
type Ref struct {
	info *Info
	data []byte
	once sync.Once
}

// Bytes returns the borrowed region. It must not be used after Release.
func (r *Ref) Bytes() []byte { return r.data }

// Release ends the borrow. Calling it more than once is a no-op.
func (r *Ref) Release() {
	r.once.Do(func() {
		r.info.mu.Lock()
		r.info.readers--
		r.info.mu.Unlock()
		r.data = nil
	})
}

// RefMut is an exclusive borrow of a slot's data.
type RefMut struct {
	info *Info
	data []byte
	once sync.Once
}

// Bytes returns the borrowed region. It must not be used after Release.
func (r *RefMut) Bytes() []byte { return r.data }

// Release ends the borrow. Calling it more than once is a no-op.
func (r *RefMut) Release() {
	r.once.Do(func() {
		r.info.mu.Lock()
		r.info.writer = false
		r.info.mu.Unlock()
		r.data = nil
	})
}

// TryBorrowData takes a shared borrow. It fails while an exclusive borrow
// is outstanding.
func (a *Info) TryBorrowData() (*Ref, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.writer {
		return nil, errors.Wrapf(ErrAccountBorrowFailed, "slot %s is mutably borrowed", a.key)
	}
	a.readers++
	return &Ref{info: a, data: a.data}, nil
}

// TryBorrowMutData takes an exclusive borrow. It fails while any other
// borrow is outstanding.
func (a *Info) TryBorrowMutData() (*RefMut, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.writer || a.readers > 0 {
		return nil, errors.Wrapf(ErrAccountBorrowFailed, "slot %s is already borrowed", a.key)
	}
	a.writer = true
	return &RefMut{info: a, data: a.data}, nil
}

// Snapshot copies the slot's bytes under a shared borrow.
func (a *Info) Snapshot() ([]byte, error) {
	ref, err := a.TryBorrowData()
	if err != nil {
		return nil, err
	}
	defer ref.Release()
	return append([]byte(nil), ref.Bytes()...), nil
}

// Write encodes r into the first SerializedSize bytes of the slot while
// holding an exclusive borrow. The borrow is released on every return path.
func Write(r Serializer, info *Info) error {
	ref, err := info.TryBorrowMutData()
	if err != nil {
		return err
	}
	defer ref.Release()

	return WriteInto(r, ref.Bytes())
}

// WriteInto is Write for a caller that already holds the buffer.
func WriteInto(r Serializer, buffer []byte) error {
	return IntoBytes(r, buffer)
}

// Load decodes a T from the slot under a shared borrow.
func Load[T any, PT interface {
	*T
	Deserializer
}](info *Info) (T, error) {
	ref, err := info.TryBorrowData()
	if err != nil {
		var zero T
		return zero, err
	}
	defer ref.Release()

	return TryFromBytes[T, PT](ref.Bytes())
}
