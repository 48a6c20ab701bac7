package descriptor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/krellis/seltab"
	"github.com/krellis/seltab/descriptor"
)

func TestAllocBlockWindowCounts(t *testing.T) {
	testCases := []struct {
		size      uint32
		windows   int
		lastLimit uint16
	}{
		{size: 1, windows: 1, lastLimit: 0},
		{size: 0xFFFF, windows: 1, lastLimit: 0xFFFE},
		{size: 0x10000, windows: 1, lastLimit: 0xFFFF},
		{size: 0x10001, windows: 2, lastLimit: 0},
		{size: 0x20000, windows: 2, lastLimit: 0xFFFF},
	}

	for _, testCase := range testCases {
		table := newTestTable(t)

		sel := table.AllocBlock(0x100000, testCase.size, descriptor.DataFlags)
		require.NotEqual(t, seltab.NullSelector, sel, "size 0x%x", testCase.size)

		d, err := table.Descriptor(sel)
		require.NoError(t, err)
		require.Equal(t, testCase.windows, d.WindowCount(), "size 0x%x", testCase.size)
		require.Equal(t, testCase.size-1, d.Limit, "size 0x%x", testCase.size)

		last := sel.Next(testCase.windows - 1)
		lastLimit, err := table.WindowLimit(last)
		require.NoError(t, err)
		require.Equal(t, testCase.lastLimit, lastLimit, "size 0x%x", testCase.size)

		// The slot after the block must be untouched.
		require.False(t, table.Allocated(sel.Next(testCase.windows)))
	}
}

func TestAllocBlockZeroSize(t *testing.T) {
	table := newTestTable(t)

	require.Equal(t, seltab.NullSelector, table.AllocBlock(0x100000, 0, descriptor.DataFlags))

	var stats seltab.Statistics
	stats.Clear()
	table.AddStatistics(&stats)
	require.Zero(t, stats.AllocatedCount)
}

func TestAllocBlockAvoidsAllZeroDescriptor(t *testing.T) {
	table := newTestTable(t)

	sel := table.AllocBlock(0, 1, descriptor.DataFlags)
	require.NotEqual(t, seltab.NullSelector, sel)

	d, err := table.Descriptor(sel)
	require.NoError(t, err)
	require.Zero(t, d.Base)
	require.Equal(t, uint32(1), d.Limit)
}

func TestAllocBlockChainsWindows(t *testing.T) {
	table := newTestTable(t)

	sel := table.AllocBlock(0x200000, 0x20001, descriptor.DataFlags)
	require.NotEqual(t, seltab.NullSelector, sel)

	expectedLimits := []uint16{0xFFFF, 0xFFFF, 0}
	for i, expected := range expectedLimits {
		window := sel.Next(i)
		limit, err := table.WindowLimit(window)
		require.NoError(t, err)
		require.Equal(t, expected, limit, "window %d", i)

		base, err := table.Base(window)
		require.NoError(t, err)
		require.Equal(t, uint32(0x200000+i*seltab.WindowSize), base, "window %d", i)
	}

	require.NoError(t, table.Validate())
}

func TestAllocDataRun(t *testing.T) {
	table := newTestTable(t)

	sel := table.AllocDataRun(3)
	require.NotEqual(t, seltab.NullSelector, sel)

	for i := 0; i < 3; i++ {
		d, err := table.Descriptor(sel.Next(i))
		require.NoError(t, err)
		require.Equal(t, descriptor.Descriptor{Base: 0, Limit: 1, Flags: descriptor.DataFlags}, d)
	}
}

func TestFreeBlockReleasesEverySlot(t *testing.T) {
	table := newTestTable(t)

	sel := table.AllocBlock(0x100000, 0x30000, descriptor.DataFlags)
	require.NotEqual(t, seltab.NullSelector, sel)

	table.FreeBlock(sel)
	for i := 0; i < 3; i++ {
		require.False(t, table.Allocated(sel.Next(i)))
	}

	// The whole run is available again.
	again := table.AllocRun(3)
	require.Equal(t, sel, again)
}

func TestReallocBlockShrinkKeepsSelector(t *testing.T) {
	table := newTestTable(t)

	sel := table.AllocBlock(0x100000, 0x30000, descriptor.DataFlags)
	result := table.ReallocBlock(sel, 0x100000, 0x10000)

	require.Equal(t, descriptor.ReallocUnchanged, result.Outcome)
	require.Equal(t, sel, result.Selector)
	require.False(t, table.Allocated(sel.Next(1)))
	require.False(t, table.Allocated(sel.Next(2)))

	d, err := table.Descriptor(sel)
	require.NoError(t, err)
	require.Equal(t, 1, d.WindowCount())
	require.Equal(t, uint32(0xFFFF), d.Limit)
}

func TestReallocBlockGrowsInPlace(t *testing.T) {
	table := newTestTable(t)

	sel := table.AllocBlock(0x100000, 0x10000, descriptor.CodeFlags)
	result := table.ReallocBlock(sel, 0x100000, 0x20000)

	require.Equal(t, descriptor.ReallocUnchanged, result.Outcome)
	require.Equal(t, sel, result.Selector)
	require.True(t, table.Allocated(sel.Next(1)))

	// Flags are inherited from the first descriptor, not re-supplied.
	d, err := table.Descriptor(sel)
	require.NoError(t, err)
	require.Equal(t, descriptor.CodeFlags, d.Flags)
	require.Equal(t, 2, d.WindowCount())
}

func TestReallocBlockRehomesWhenBlocked(t *testing.T) {
	table := newTestTable(t)

	sel := table.AllocBlock(0x100000, 0x10000, descriptor.DataFlags)
	blocker := table.AllocBlock(0x300000, 0x10, descriptor.DataFlags)
	require.Equal(t, sel.Index()+1, blocker.Index())

	result := table.ReallocBlock(sel, 0x100000, 0x20000)
	require.Equal(t, descriptor.ReallocRehomed, result.Outcome)
	require.NotEqual(t, seltab.NullSelector, result.Selector)
	require.NotEqual(t, sel, result.Selector)

	// The old head slot was freed and the blocker survived.
	require.False(t, table.Allocated(sel))
	require.True(t, table.Allocated(blocker))

	d, err := table.Descriptor(result.Selector)
	require.NoError(t, err)
	require.Equal(t, 2, d.WindowCount())
	require.Equal(t, uint32(0x100000), d.Base)
}

func TestReallocBlockGrowThenShrinkRestoresWindowCount(t *testing.T) {
	table := newTestTable(t)

	sel := table.AllocBlock(0x100000, 0x18000, descriptor.DataFlags)
	require.True(t, table.CheckPointer(seltab.SegPtrOf(sel, 0), 1, descriptor.IntentRead))

	grown := table.ReallocBlock(sel, 0x100000, 0x48000)
	require.NotEqual(t, descriptor.ReallocFailed, grown.Outcome)
	require.True(t, table.CheckPointer(seltab.SegPtrOf(grown.Selector, 0), 1, descriptor.IntentRead))

	shrunk := table.ReallocBlock(grown.Selector, 0x100000, 0x18000)
	require.Equal(t, descriptor.ReallocUnchanged, shrunk.Outcome)
	require.True(t, table.CheckPointer(seltab.SegPtrOf(shrunk.Selector, 0), 1, descriptor.IntentRead))

	d, err := table.Descriptor(shrunk.Selector)
	require.NoError(t, err)
	require.Equal(t, 2, d.WindowCount())
}

func TestReallocBlockGuardsTableEnd(t *testing.T) {
	table := newTestTable(t)

	// Occupy everything, then carve a block right at the end of the table so
	// the in-place probe would run past the last slot.
	all := table.AllocRun(seltab.TableSize - table.FirstAllocatableSlot())
	require.NotEqual(t, seltab.NullSelector, all)

	lastIndex := seltab.TableSize - 1
	last := seltab.MakeSelector(lastIndex)
	table.FreeRun(last, 1)
	sel := table.AllocBlock(0x100000, 0x1000, descriptor.DataFlags)
	require.Equal(t, lastIndex, sel.Index())

	result := table.ReallocBlock(sel, 0x100000, 0x20000)
	require.Equal(t, descriptor.ReallocFailed, result.Outcome)
	require.Equal(t, seltab.NullSelector, result.Selector)

	// Documented lossy failure: the old block is gone.
	require.False(t, table.Allocated(sel))
}

func TestReallocBlockFailureFreesOldBlock(t *testing.T) {
	table := newTestTable(t)

	sel := table.AllocBlock(0x100000, 0x10000, descriptor.DataFlags)
	rest := table.AllocRun(seltab.TableSize - table.FirstAllocatableSlot() - 1)
	require.NotEqual(t, seltab.NullSelector, rest)

	result := table.ReallocBlock(sel, 0x100000, 0x20000)
	require.Equal(t, descriptor.ReallocFailed, result.Outcome)
	require.False(t, table.Allocated(sel))
}

func TestReallocBlockZeroSizeKeepsOneWindow(t *testing.T) {
	table := newTestTable(t)

	sel := table.AllocBlock(0x100000, 0x20000, descriptor.DataFlags)
	result := table.ReallocBlock(sel, 0x100000, 0)

	require.Equal(t, descriptor.ReallocUnchanged, result.Outcome)
	d, err := table.Descriptor(result.Selector)
	require.NoError(t, err)
	require.Equal(t, 1, d.WindowCount())
	require.Zero(t, d.Limit)
}

func TestReallocBlockUnallocatedSelector(t *testing.T) {
	table := newTestTable(t)

	result := table.ReallocBlock(seltab.MakeSelector(500), 0x100000, 0x1000)
	require.Equal(t, descriptor.ReallocFailed, result.Outcome)
	require.Equal(t, seltab.NullSelector, result.Selector)
}
