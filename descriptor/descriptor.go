// Package descriptor implements the shared descriptor table that maps 16-bit
// selector handles onto windows of a flat linear address space, along with
// the slot allocator, block sizing and resizing, aliasing, and pointer
// validation that operate on it.
package descriptor

// Descriptor is a point-in-time copy of the (base, limit, flags) record a
// table slot holds. Limit is the last valid byte offset addressable through
// the slot, not a size; for the first slot of a multi-slot block it spans
// the whole block, which is how the block's window count stays derivable
// from any one slot.
type Descriptor struct {
	Base  uint32
	Limit uint32
	Flags AccessFlags
}

// WindowCount returns the number of slots remaining in the block this
// descriptor starts, itself included.
func (d Descriptor) WindowCount() int {
	return int(d.Limit>>16) + 1
}

// WindowLimit returns the hardware-visible 16-bit limit of this slot's
// window: the full limit saturated to one window's worth.
func (d Descriptor) WindowLimit() uint16 {
	if d.Limit > 0xFFFF {
		return 0xFFFF
	}
	return uint16(d.Limit)
}
