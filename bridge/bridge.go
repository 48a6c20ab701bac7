// Package bridge maps linear pointers into temporary selector:offset form
// and back. Addresses that already fit in 16 bits pass through unchanged;
// anything larger borrows a single data window from the descriptor table
// for as long as the caller keeps the mapping alive.
package bridge

import (
	"context"

	"github.com/dolthub/swiss"
	"github.com/pkg/errors"
	"golang.org/x/exp/slog"

	"github.com/krellis/seltab"
	"github.com/krellis/seltab/descriptor"
	"github.com/krellis/seltab/internal/utils"
)

// Bridge owns the temporary mappings created by MapLinear and the buffers
// created by AllocMappedBuffer. Every mapping must be released by exactly
// one matching Unmap; Destroy reports whatever was leaked.
type Bridge struct {
	logger *slog.Logger
	table  *descriptor.Table
	linear seltab.LinearAllocator
	mutex  utils.OptionalMutex

	// mappings records the original linear address for each live temporary
	// mapping, keyed by the mapping's selector.
	mappings *swiss.Map[seltab.Selector, uint32]
	// buffers records the backing-storage handle for each live mapped
	// buffer, keyed by the buffer's segmented pointer.
	buffers *swiss.Map[seltab.SegPtr, seltab.LinearHandle]
}

// MapLinear returns a segmented pointer addressing the same byte as the
// linear address addr. When the upper 16 bits of addr are zero the address
// is returned unchanged- no slot is allocated and there is nothing to
// release. Otherwise a single data window is allocated over the 64KB region
// containing addr and the pointer carries addr's position within it; the
// caller owns the mapping until Unmap. Returns a zero pointer when the
// table has no free slot.
func (b *Bridge) MapLinear(addr uint32) seltab.SegPtr {
	if addr>>16 == 0 {
		return seltab.SegPtr(addr)
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	sel := b.table.AllocBlock(seltab.AlignDownWindow(addr), seltab.WindowSize, descriptor.DataFlags)
	if sel == seltab.NullSelector {
		return 0
	}

	b.mappings.Put(sel, addr)
	return seltab.SegPtrOf(sel, uint16(addr&seltab.WindowMask))
}

// Unmap releases the temporary mapping behind a pointer returned by
// MapLinear. Pointers with a null selector were passthrough values and this
// is a no-op for them, no matter how many times it runs. Unmapping a real
// mapping twice is a double-free.
func (b *Bridge) Unmap(ptr seltab.SegPtr) {
	sel := ptr.Selector()
	if sel == seltab.NullSelector {
		return
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.table.FreeRun(sel, 1)
	b.mappings.Delete(sel)
}

// Linear recovers the linear address a segmented pointer refers to: the
// selector's window base plus the offset. Passthrough pointers are their
// own address. The result is undefined when the selector is no longer
// allocated.
func (b *Bridge) Linear(ptr seltab.SegPtr) uint32 {
	sel := ptr.Selector()
	if sel == seltab.NullSelector {
		return uint32(ptr)
	}

	base, _ := b.table.Base(sel)
	return base + uint32(ptr.Offset())
}

// MappedBuffer is a buffer allocated through the linear-allocator
// collaborator and exposed through a temporary mapping.
type MappedBuffer struct {
	// Ptr addresses the buffer through the descriptor table.
	Ptr seltab.SegPtr
	// Linear is the buffer's flat address.
	Linear uint32
}

// AllocMappedBuffer obtains size bytes of backing storage from the linear
// allocator and maps it. The buffer stays alive until FreeMappedBuffer.
func (b *Bridge) AllocMappedBuffer(size uint32) (MappedBuffer, error) {
	if b.linear == nil {
		return MappedBuffer{}, errors.New("this bridge was created without a linear allocator")
	}

	handle, addr, err := b.linear.Alloc(size)
	if err != nil {
		return MappedBuffer{}, errors.Wrap(err, "allocating backing storage for a mapped buffer")
	}

	ptr := b.MapLinear(addr)
	if ptr == 0 {
		_ = b.linear.Free(handle)
		return MappedBuffer{}, errors.New("no free descriptor slot for a mapped buffer")
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.buffers.Put(ptr, handle)
	return MappedBuffer{Ptr: ptr, Linear: addr}, nil
}

// FreeMappedBuffer releases both the mapping and the backing storage of a
// buffer returned by AllocMappedBuffer.
func (b *Bridge) FreeMappedBuffer(buffer MappedBuffer) error {
	b.mutex.Lock()
	handle, ok := b.buffers.Get(buffer.Ptr)
	if ok {
		b.buffers.Delete(buffer.Ptr)
	}
	b.mutex.Unlock()

	if !ok {
		return errors.New("the buffer does not belong to this bridge")
	}

	b.Unmap(buffer.Ptr)
	return errors.Wrap(b.linear.Free(handle), "releasing backing storage for a mapped buffer")
}

// Destroy verifies that every temporary mapping and mapped buffer has been
// released. Leaks are logged individually and reported as a single error;
// the mappings themselves are left in the table for diagnosis.
func (b *Bridge) Destroy() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	leaked := b.mappings.Count()
	if leaked == 0 && b.buffers.Count() == 0 {
		return nil
	}

	if b.logger != nil {
		b.mappings.Iter(func(sel seltab.Selector, addr uint32) bool {
			b.logger.LogAttrs(context.Background(), slog.LevelError,
				"[UNRELEASED MAPPING] temporary mapping was never unmapped",
				slog.Int("selector", int(sel)),
				slog.Uint64("linear", uint64(addr)))
			return false
		})
		b.buffers.Iter(func(ptr seltab.SegPtr, handle seltab.LinearHandle) bool {
			b.logger.LogAttrs(context.Background(), slog.LevelError,
				"[UNRELEASED MAPPING] mapped buffer was never freed",
				slog.Int("selector", int(ptr.Selector())),
				slog.Uint64("handle", uint64(handle)))
			return false
		})
	}

	return errors.New("some temporary mappings were not released before the destruction of this bridge!")
}
