// Package storage is the host side of SlotKit: it owns slot bytes in a
// pebble database and lends them out as account.Info handles.
package storage

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"go.uber.org/zap"

	"github.com/ssargent/slotkit/pkg/account"
	"github.com/ssargent/slotkit/pkg/logging"
	"github.com/ssargent/slotkit/pkg/metrics"
	"github.com/ssargent/slotkit/pkg/pubkey"
)

var (
	// ErrSlotNotFound is returned when no slot exists under a key.
	ErrSlotNotFound = errors.New("storage: slot not found")
	// ErrSlotExists is returned when creating a slot under a taken key.
	ErrSlotExists = errors.New("storage: slot already exists")
	// ErrCorruptSlot is returned when a stored value is too short to hold its header.
	ErrCorruptSlot = errors.New("storage: corrupt slot")
	// ErrDuplicateSlot is returned when one commit carries two handles for the same key.
	ErrDuplicateSlot = errors.New("storage: duplicate slot handle")
)

// MaxSlotSize bounds a single slot.
const MaxSlotSize = 10 * 1024 * 1024

var slotPrefix = []byte("slot/")

// Slot is a copy of one stored slot.
type Slot struct {
	Key   pubkey.Pubkey
	Owner pubkey.Pubkey
	Data  []byte
}

// Meta names a slot for an invocation and how it may be used.
type Meta struct {
	Key      pubkey.Pubkey
	Signer   bool
	Writable bool
}

// SlotStore keeps slots in pebble. A stored value is the 32-byte owner
// followed by the slot bytes.
type SlotStore struct {
	db      *pebble.DB
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option configures a SlotStore.
type Option func(*SlotStore)

// WithLogger sets the store logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *SlotStore) { s.logger = logging.OrNop(l) }
}

// WithMetrics sets the collectors store operations are recorded to.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *SlotStore) { s.metrics = m }
}

// Open opens (or creates) the slot database at path.
func Open(path string, opts ...Option) (*SlotStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "storage: open %s", path)
	}
	s := &SlotStore{db: db, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func slotKey(key pubkey.Pubkey) []byte {
	return append(append(make([]byte, 0, len(slotPrefix)+pubkey.Size), slotPrefix...), key[:]...)
}

func encodeValue(owner pubkey.Pubkey, data []byte) []byte {
	return append(append(make([]byte, 0, pubkey.Size+len(data)), owner[:]...), data...)
}

// Create allocates a zeroed slot of size bytes owned by owner under a fresh key.
func (s *SlotStore) Create(owner pubkey.Pubkey, size int) (pubkey.Pubkey, error) {
	if size < 0 || size > MaxSlotSize {
		return pubkey.Pubkey{}, errors.Newf("storage: slot size %d out of range [0, %d]", size, MaxSlotSize)
	}
	key := pubkey.New()
	if _, err := s.Get(key); err == nil {
		return pubkey.Pubkey{}, errors.Wrapf(ErrSlotExists, "%s", key)
	}
	if err := s.Put(key, owner, make([]byte, size)); err != nil {
		return pubkey.Pubkey{}, err
	}
	s.logger.Debug("slot created", zap.Stringer("key", key), zap.Stringer("owner", owner), zap.Int("size", size))
	return key, nil
}

// Put stores data under key.
func (s *SlotStore) Put(key, owner pubkey.Pubkey, data []byte) error {
	value := encodeValue(owner, data)
	err := s.db.Set(slotKey(key), value, pebble.Sync)
	s.metrics.RecordStoreOperation("put", err == nil, len(value))
	return errors.Wrapf(err, "storage: put %s", key)
}

// Get returns a copy of the slot under key.
func (s *SlotStore) Get(key pubkey.Pubkey) (Slot, error) {
	value, closer, err := s.db.Get(slotKey(key))
	if errors.Is(err, pebble.ErrNotFound) {
		s.metrics.RecordStoreOperation("get", false, 0)
		return Slot{}, errors.Wrapf(ErrSlotNotFound, "%s", key)
	}
	if err != nil {
		s.metrics.RecordStoreOperation("get", false, 0)
		return Slot{}, errors.Wrapf(err, "storage: get %s", key)
	}
	defer closer.Close()

	if len(value) < pubkey.Size {
		s.metrics.RecordStoreOperation("get", false, 0)
		return Slot{}, errors.Wrapf(ErrCorruptSlot, "%s holds %d bytes", key, len(value))
	}
	slot := Slot{Key: key, Data: append([]byte(nil), value[pubkey.Size:]...)}
	copy(slot.Owner[:], value[:pubkey.Size])
	s.metrics.RecordStoreOperation("get", true, 0)
	return slot, nil
}

// Delete removes the slot under key.
func (s *SlotStore) Delete(key pubkey.Pubkey) error {
	err := s.db.Delete(slotKey(key), pebble.Sync)
	s.metrics.RecordStoreOperation("delete", err == nil, 0)
	return errors.Wrapf(err, "storage: delete %s", key)
}

// Load lends the named slots out as handles over private copies. Keys with
// no stored slot become empty, unowned handles, the way a plain wallet key
// shows up as a signer. A key named more than once yields the same handle at
// every position, carrying the union of its signer and writable flags.
func (s *SlotStore) Load(metas []Meta) ([]*account.Info, error) {
	merged := make(map[pubkey.Pubkey]Meta, len(metas))
	for _, m := range metas {
		prev := merged[m.Key]
		merged[m.Key] = Meta{Key: m.Key, Signer: prev.Signer || m.Signer, Writable: prev.Writable || m.Writable}
	}

	loaded := make(map[pubkey.Pubkey]*account.Info, len(merged))
	infos := make([]*account.Info, 0, len(metas))
	for _, m := range metas {
		if info, ok := loaded[m.Key]; ok {
			infos = append(infos, info)
			continue
		}
		slot, err := s.Get(m.Key)
		if err != nil && !errors.Is(err, ErrSlotNotFound) {
			return nil, err
		}
		m = merged[m.Key]
		opts := []account.InfoOption{account.WithOwner(slot.Owner)}
		if m.Signer {
			opts = append(opts, account.Signer())
		}
		if m.Writable {
			opts = append(opts, account.Writable())
		}
		info := account.NewInfo(m.Key, slot.Data, opts...)
		loaded[m.Key] = info
		infos = append(infos, info)
	}
	return infos, nil
}

// Commit writes every writable handle that carries data back in one atomic
// batch. A handle repeated in infos is written once. Handles still borrowed,
// or two distinct handles for one key, fail the whole commit.
func (s *SlotStore) Commit(infos []*account.Info) error {
	seen := make(map[pubkey.Pubkey]*account.Info, len(infos))
	for _, info := range infos {
		if prev, ok := seen[info.Key()]; ok && prev != info {
			return errors.Wrapf(ErrDuplicateSlot, "%s", info.Key())
		}
		seen[info.Key()] = info
	}

	batch := s.db.NewBatch()
	defer batch.Close()

	written := 0
	for _, info := range infos {
		if seen[info.Key()] == nil || !info.IsWritable() || info.DataLen() == 0 {
			continue
		}
		delete(seen, info.Key())
		data, err := info.Snapshot()
		if err != nil {
			return err
		}
		value := encodeValue(info.Owner(), data)
		if err := batch.Set(slotKey(info.Key()), value, nil); err != nil {
			return errors.Wrapf(err, "storage: stage %s", info.Key())
		}
		written += len(value)
	}

	err := batch.Commit(pebble.Sync)
	s.metrics.RecordStoreOperation("commit", err == nil, written)
	if err != nil {
		return errors.Wrap(err, "storage: commit")
	}
	s.logger.Debug("slots committed", zap.Int("slots", len(infos)), zap.Int("bytes", written))
	return nil
}

// Close closes the underlying database.
func (s *SlotStore) Close() error {
	return s.db.Close()
}
