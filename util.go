package seltab

import (
	cerrors "github.com/cockroachdb/errors"
)

// WindowCount returns the number of descriptor slots needed to span size
// bytes. A size of zero needs no slots.
func WindowCount(size uint32) int {
	return int((uint64(size) + WindowMask) / WindowSize)
}

// AlignDownWindow rounds a linear address down to the start of the window
// containing it.
func AlignDownWindow(addr uint32) uint32 {
	return addr &^ uint32(WindowMask)
}

// CheckSelector returns ErrUnallocatedSelector-compatible diagnostics for a
// null selector passed where an allocated one is required.
func CheckSelector(sel Selector, name string) error {
	if sel == NullSelector {
		return cerrors.Wrapf(ErrUnallocatedSelector, "%s is the null selector", name)
	}
	return nil
}
