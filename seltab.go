package seltab

const (
	// TableSize is the number of descriptor slots in a Table. It is fixed by the
	// descriptor format and cannot be configured.
	TableSize = 8192
	// WindowSize is the number of bytes a single descriptor slot can span.
	WindowSize = 0x10000
	// WindowMask masks the within-window portion of a linear address.
	WindowMask = WindowSize - 1

	// SelectorShift is the number of low bits in a Selector that do not
	// participate in slot addressing.
	SelectorShift = 3
)

// Selector is an opaque 16-bit handle naming a slot in a descriptor Table.
// The high 13 bits index the slot; the low bits carry a privilege/table
// field that the table manager preserves but never interprets for
// addressing. The zero value is the null selector and never names a slot.
type Selector uint16

const (
	// NullSelector is the invalid selector. No allocation ever returns it and
	// every operation treats it as "no slot".
	NullSelector Selector = 0

	// SelectorTableBit is the low bit distinguishing local-table selectors
	// from global ones. Selectors produced by a Table always carry it.
	SelectorTableBit Selector = 0x4
	// SelectorPrivilegeMask covers the privilege bits of a selector. Code
	// classifying selectors against live segment registers must mask these
	// out before comparing.
	SelectorPrivilegeMask Selector = 0x3

	selectorLowBits Selector = SelectorTableBit | SelectorPrivilegeMask
)

// MakeSelector builds the selector naming the provided slot index, with the
// standard low bits set.
func MakeSelector(index int) Selector {
	return Selector(index)<<SelectorShift | selectorLowBits
}

// Index returns the table slot this selector names.
func (s Selector) Index() int {
	return int(s >> SelectorShift)
}

// Next returns the selector n slots after this one, preserving the low bits.
func (s Selector) Next(n int) Selector {
	return Selector(int(s) + n<<SelectorShift)
}

// SegPtr is a segmented pointer: a selector in the high 16 bits and a byte
// offset within that selector's window in the low 16 bits. Values whose
// selector component is null are passthrough pointers- the SegPtr and the
// linear address are numerically identical.
type SegPtr uint32

// SegPtrOf combines a selector and an offset into a segmented pointer.
func SegPtrOf(sel Selector, offset uint16) SegPtr {
	return SegPtr(uint32(sel)<<16 | uint32(offset))
}

// Selector returns the selector component of the pointer.
func (p SegPtr) Selector() Selector {
	return Selector(p >> 16)
}

// Offset returns the within-window offset component of the pointer.
func (p SegPtr) Offset() uint16 {
	return uint16(p)
}

// LinearHandle identifies a buffer obtained from a LinearAllocator. The
// table manager treats it as opaque.
type LinearHandle uintptr

// LinearAllocator supplies backing storage in the flat linear address space.
// The table manager never allocates raw memory itself- when the pointer
// bridge needs a buffer it goes through this collaborator.
type LinearAllocator interface {
	// Alloc obtains a buffer of at least size bytes and returns a handle for
	// releasing it along with the linear address of its first byte.
	Alloc(size uint32) (LinearHandle, uint32, error)
	// Free releases a buffer previously returned by Alloc.
	Free(handle LinearHandle) error
}

// Memory provides byte access to the flat linear address space the
// descriptor table describes. Validation probes and bounded window copies
// go through this interface rather than dereferencing anything directly.
type Memory interface {
	ReadAt(p []byte, addr uint32) (int, error)
	WriteAt(p []byte, addr uint32) (int, error)
}
