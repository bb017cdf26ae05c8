// Package wasmhost exposes WebAssembly linear memory as SlotKit slots.
//
// A wazero runtime hosts a module that does nothing but export one linear
// memory. Slots carved out of it alias guest memory, so records written
// through account.Write are immediately visible to the guest side.
package wasmhost

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/ssargent/slotkit/pkg/account"
	"github.com/ssargent/slotkit/pkg/pubkey"
)

// PageSize is the size of one wasm memory page.
const PageSize = 65536

// MemoryExport is the export name of the linear memory.
const MemoryExport = "memory"

var (
	// ErrOutOfRange is returned when a slot does not fit in linear memory.
	ErrOutOfRange = errors.New("wasmhost: slot out of memory range")
	// ErrNoMemory is returned when the instantiated module exports no memory.
	ErrNoMemory = errors.New("wasmhost: module exports no memory")
)

// Memory owns a wazero runtime and its exported linear memory.
type Memory struct {
	runtime wazero.Runtime
	mem     api.Memory
}

// NewMemory instantiates a memory-only module with the given number of pages.
func NewMemory(ctx context.Context, pages uint32) (*Memory, error) {
	if pages == 0 {
		return nil, errors.New("wasmhost: memory needs at least one page")
	}

	rt := wazero.NewRuntime(ctx)
	mod, err := rt.Instantiate(ctx, memoryModule(pages))
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Wrap(err, "wasmhost: instantiate memory module")
	}
	mem := mod.ExportedMemory(MemoryExport)
	if mem == nil {
		_ = rt.Close(ctx)
		return nil, ErrNoMemory
	}
	return &Memory{runtime: rt, mem: mem}, nil
}

// Size returns the current memory size in bytes.
func (m *Memory) Size() uint32 { return m.mem.Size() }

// Slot returns a handle whose data aliases [offset, offset+size) of linear
// memory. Growing the memory invalidates existing slots.
func (m *Memory) Slot(key pubkey.Pubkey, offset, size uint32, opts ...account.InfoOption) (*account.Info, error) {
	view, ok := m.mem.Read(offset, size)
	if !ok {
		return nil, errors.Wrapf(ErrOutOfRange, "offset %d size %d, memory is %d bytes", offset, size, m.mem.Size())
	}
	return account.NewInfo(key, view, opts...), nil
}

// ReadCopy copies size bytes at offset out of linear memory.
func (m *Memory) ReadCopy(offset, size uint32) ([]byte, error) {
	view, ok := m.mem.Read(offset, size)
	if !ok {
		return nil, errors.Wrapf(ErrOutOfRange, "offset %d size %d", offset, size)
	}
	return append([]byte(nil), view...), nil
}

// Write copies data into linear memory at offset.
func (m *Memory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return errors.Wrapf(ErrOutOfRange, "offset %d size %d", offset, len(data))
	}
	return nil
}

// Close releases the runtime.
func (m *Memory) Close(ctx context.Context) error {
	return m.runtime.Close(ctx)
}

// memoryModule assembles a binary module with one memory of the given
// minimum page count, exported as MemoryExport.
func memoryModule(pages uint32) []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	// memory section: one memory, limits flag 0 (min only)
	memSec := appendULEB128([]byte{0x01, 0x00}, pages)
	out = append(out, 0x05)
	out = appendULEB128(out, uint32(len(memSec)))
	out = append(out, memSec...)

	// export section: one export of kind memory, index 0
	expSec := []byte{0x01}
	expSec = appendULEB128(expSec, uint32(len(MemoryExport)))
	expSec = append(expSec, MemoryExport...)
	expSec = append(expSec, 0x02, 0x00)
	out = append(out, 0x07)
	out = appendULEB128(out, uint32(len(expSec)))
	return append(out, expSec...)
}

func appendULEB128(dst []byte, v uint32) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			return append(dst, b)
		}
		dst = append(dst, b|0x80)
	}
}
