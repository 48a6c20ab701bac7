package descriptor

import (
	"golang.org/x/exp/slog"

	"github.com/krellis/seltab"
)

// ReallocOutcome describes what ReallocBlock did to the block's identity.
type ReallocOutcome int32

const (
	// ReallocUnchanged means the block was resized in place and the original
	// selector still names it.
	ReallocUnchanged ReallocOutcome = iota
	// ReallocRehomed means the block was moved to a different run of slots.
	// The original selector is invalid from this moment and the one in the
	// result names the block.
	ReallocRehomed
	// ReallocFailed means no run of slots could hold the requested size. The
	// old block has already been freed- the block is gone and the caller
	// must not use either selector.
	ReallocFailed
)

var reallocOutcomeMapping = map[ReallocOutcome]string{
	ReallocUnchanged: "ReallocUnchanged",
	ReallocRehomed:   "ReallocRehomed",
	ReallocFailed:    "ReallocFailed",
}

func (o ReallocOutcome) String() string {
	return reallocOutcomeMapping[o]
}

// ReallocResult is the tagged outcome of ReallocBlock. Selector is the null
// selector when Outcome is ReallocFailed.
type ReallocResult struct {
	Outcome  ReallocOutcome
	Selector seltab.Selector
}

// setEntries writes the chained window descriptors for a block of size bytes
// starting at the provided slot. Window i gets base+i*WindowSize and the
// limit remaining from that window onward, so the first slot's limit spans
// the whole block.
func (t *Table) setEntries(index int, base, size uint32, flags AccessFlags) {
	limit := size - 1
	// Make sure base and limit are not 0 together if the size is not 0
	if base == 0 && size == 1 {
		limit = 1
	}

	count := seltab.WindowCount(size)
	for i := 0; i < count; i++ {
		t.bases[index+i] = base
		t.limits[index+i] = limit
		t.flags[index+i] = flags
		base += seltab.WindowSize
		limit -= seltab.WindowSize
	}
}

// blockWindowCount returns the number of slots in the block headed by the
// provided slot index.
func (t *Table) blockWindowCount(index int) int {
	return int(t.limits[index]>>16) + 1
}

// AllocBlock allocates the selectors covering a block of linear memory of
// size bytes based at base and populates their descriptors. A size of zero
// yields the null selector without touching the table, as does exhaustion.
func (t *Table) AllocBlock(base, size uint32, flags AccessFlags) seltab.Selector {
	if size == 0 {
		return seltab.NullSelector
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	count := seltab.WindowCount(size)
	sel := t.allocRun(count)
	if sel == seltab.NullSelector {
		return seltab.NullSelector
	}

	t.setEntries(sel.Index(), base, size, flags)
	t.logSelector(slog.LevelDebug, "allocated block", sel,
		slog.Int("windows", count),
		slog.Uint64("base", uint64(base)),
		slog.Uint64("size", uint64(size)))
	return sel
}

// AllocDataRun allocates count selectors as independent single-window data
// descriptors with no backing window yet. Each gets base 0 and limit 1 so
// that no slot reads back as an all-zero descriptor.
func (t *Table) AllocDataRun(count int) seltab.Selector {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	sel := t.allocRun(count)
	if sel == seltab.NullSelector {
		return seltab.NullSelector
	}

	index := sel.Index()
	for i := 0; i < count; i++ {
		t.bases[index+i] = 0
		t.limits[index+i] = 1
		t.flags[index+i] = DataFlags
	}

	return sel
}

// FreeBlock releases every slot of the block headed by the selector.
func (t *Table) FreeBlock(sel seltab.Selector) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.freeBlock(sel)
}

func (t *Table) freeBlock(sel seltab.Selector) {
	index, err := t.slot(sel)
	if err != nil {
		return
	}

	count := t.blockWindowCount(index)
	t.logSelector(slog.LevelDebug, "freeing block", sel, slog.Int("windows", count))
	t.freeRun(index, count)
}

// ReallocBlock resizes the block headed by sel to cover size bytes based at
// base, inheriting the access flags the block already carries. A size of
// zero is treated as one byte so the block always keeps at least one window.
//
// Growth is attempted in place first: when the slots immediately after the
// block are free and inside the table, they are claimed and the selector
// value is preserved. Otherwise the block is freed and a fresh run is
// allocated elsewhere; the result's Outcome reports which happened. When
// even reallocation elsewhere fails the old block has already been freed
// and the result is ReallocFailed- the block is gone.
func (t *Table) ReallocBlock(sel seltab.Selector, base, size uint32) ReallocResult {
	if size == 0 {
		size = 1
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	index, err := t.slot(sel)
	if err != nil {
		return ReallocResult{Outcome: ReallocFailed, Selector: seltab.NullSelector}
	}

	oldCount := t.blockWindowCount(index)
	newCount := seltab.WindowCount(size)
	flags := t.flags[index]
	outcome := ReallocUnchanged

	if newCount > oldCount {
		if t.runIsFree(index+oldCount, newCount-oldCount) {
			for i := oldCount; i < newCount; i++ {
				t.allocated[index+i] = true
			}
		} else {
			t.freeRun(index, oldCount)
			sel = t.allocRun(newCount)
			if sel == seltab.NullSelector {
				return ReallocResult{Outcome: ReallocFailed, Selector: seltab.NullSelector}
			}

			index = sel.Index()
			outcome = ReallocRehomed
			t.logSelector(slog.LevelDebug, "rehomed block", sel, slog.Int("windows", newCount))
		}
	} else if newCount < oldCount {
		t.freeRun(index+newCount, oldCount-newCount)
	}

	t.setEntries(index, base, size, flags)
	return ReallocResult{Outcome: outcome, Selector: sel}
}
