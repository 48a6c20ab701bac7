package seltab_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/krellis/seltab"
)

func TestWindowCount(t *testing.T) {
	require.Equal(t, 0, seltab.WindowCount(0))
	require.Equal(t, 1, seltab.WindowCount(1))
	require.Equal(t, 1, seltab.WindowCount(0xFFFF))
	require.Equal(t, 1, seltab.WindowCount(0x10000))
	require.Equal(t, 2, seltab.WindowCount(0x10001))
	require.Equal(t, 2, seltab.WindowCount(0x20000))
	require.Equal(t, 3, seltab.WindowCount(0x20001))
	require.Equal(t, 0x10000, seltab.WindowCount(0xFFFFFFFF))
}

func TestSelectorRoundTrip(t *testing.T) {
	sel := seltab.MakeSelector(57)
	require.Equal(t, 57, sel.Index())
	require.NotEqual(t, seltab.NullSelector, sel)
	require.NotZero(t, sel&seltab.SelectorTableBit)

	next := sel.Next(3)
	require.Equal(t, 60, next.Index())
	require.Equal(t, sel&0x7, next&0x7)
}

func TestSegPtr(t *testing.T) {
	sel := seltab.MakeSelector(100)
	ptr := seltab.SegPtrOf(sel, 0x1234)
	require.Equal(t, sel, ptr.Selector())
	require.Equal(t, uint16(0x1234), ptr.Offset())

	passthrough := seltab.SegPtr(0x4321)
	require.Equal(t, seltab.NullSelector, passthrough.Selector())
	require.Equal(t, uint16(0x4321), passthrough.Offset())
}

func TestAlignDownWindow(t *testing.T) {
	require.Equal(t, uint32(0), seltab.AlignDownWindow(0xFFFF))
	require.Equal(t, uint32(0x120000), seltab.AlignDownWindow(0x123456))
}

func TestDetailedStatisticsAccumulate(t *testing.T) {
	var stats seltab.DetailedStatistics
	stats.Clear()

	stats.AddAllocatedSlot(0x10000)
	stats.AddAllocatedSlot(0x100)
	stats.AddFreeRun(5)
	stats.AddFreeRun(11)

	require.Equal(t, 2, stats.AllocatedCount)
	require.Equal(t, 0x10100, stats.MappedBytes)
	require.Equal(t, 2, stats.FreeRunCount)
	require.Equal(t, 5, stats.FreeRunSizeMin)
	require.Equal(t, 11, stats.FreeRunSizeMax)

	var other seltab.DetailedStatistics
	other.Clear()
	other.AddFreeRun(2)
	other.AddDetailedStatistics(&stats)

	require.Equal(t, 3, other.FreeRunCount)
	require.Equal(t, 2, other.FreeRunSizeMin)
	require.Equal(t, 11, other.FreeRunSizeMax)
}
