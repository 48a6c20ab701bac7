package bridge_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/krellis/seltab"
	"github.com/krellis/seltab/hwctx"
)

func TestMapContextPointer(t *testing.T) {
	b, table := newTestBridge(t, nil)

	ctx := &hwctx.Snapshot{}
	ctx.SetReg(hwctx.RegPrimary, 0x00345678)

	b.MapContextPointer(ctx)

	mapped := seltab.SegPtr(ctx.Reg(hwctx.RegPrimary))
	require.NotEqual(t, seltab.NullSelector, mapped.Selector())
	require.Equal(t, ctx.Reg(hwctx.RegPrimary), ctx.Reg(hwctx.RegSecondary))
	require.Equal(t, uint32(0x00345678), b.Linear(mapped))

	b.UnmapContextPointer(ctx)
	require.False(t, table.Allocated(mapped.Selector()))
	require.NoError(t, b.Destroy())
}

func TestMapContextPointerPassthrough(t *testing.T) {
	b, _ := newTestBridge(t, nil)

	ctx := &hwctx.Snapshot{}
	ctx.SetReg(hwctx.RegPrimary, 0x1234)
	ctx.SetReg(hwctx.RegSecondary, 0xDEAD)

	b.MapContextPointer(ctx)
	require.Equal(t, uint32(0x1234), ctx.Reg(hwctx.RegPrimary))
	require.Zero(t, ctx.Reg(hwctx.RegSecondary))

	// Unmapping a passthrough value is a no-op.
	b.UnmapContextPointer(ctx)
	require.NoError(t, b.Destroy())
}
