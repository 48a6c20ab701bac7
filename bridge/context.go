package bridge

import (
	"github.com/krellis/seltab"
	"github.com/krellis/seltab/hwctx"
)

// MapContextPointer bridges a register-passed linear pointer across a call
// boundary. The linear address is read from the saved context's primary
// register; the mapped segmented pointer replaces it and is copied into the
// secondary register. Addresses below 64KB need no mapping, so the primary
// register keeps the address and the secondary is zeroed to tell
// UnmapContextPointer there is nothing to release.
func (b *Bridge) MapContextPointer(ctx hwctx.Context) {
	addr := ctx.Reg(hwctx.RegPrimary)
	if addr>>16 == 0 {
		ctx.SetReg(hwctx.RegSecondary, 0)
		return
	}

	ptr := b.MapLinear(addr)
	ctx.SetReg(hwctx.RegPrimary, uint32(ptr))
	ctx.SetReg(hwctx.RegSecondary, uint32(ptr))
}

// UnmapContextPointer releases the mapping created by MapContextPointer for
// the pointer currently held in the saved context's primary register. A
// passthrough value is left alone.
func (b *Bridge) UnmapContextPointer(ctx hwctx.Context) {
	value := ctx.Reg(hwctx.RegPrimary)
	if value>>16 == 0 {
		return
	}

	b.Unmap(seltab.SegPtr(value))
}
